package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// Repository exposes the master-data reads the resolution engine needs.
// Rule listings are restricted by scope/target only; every other filter
// (channel, quantity, validity, segment) is applied by the engine so that
// "scope has no rows" and "scope has rows but none match" stay distinguishable.
type Repository interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListOverrides(ctx context.Context, productID, customerID uuid.UUID, channel enums.Channel) ([]models.PriceOverride, error)
	ListRulesForProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceRule, error)
	ListRulesForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.PriceRule, error)
	ListGlobalRules(ctx context.Context) ([]models.PriceRule, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Segment").
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListOverrides(ctx context.Context, productID, customerID uuid.UUID, channel enums.Channel) ([]models.PriceOverride, error) {
	var overrides []models.PriceOverride
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND customer_id = ? AND channel = ?", productID, customerID, channel).
		Order("created_at DESC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *repository) ListRulesForProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceRule, error) {
	return r.listRules(ctx, "scope = ? AND product_id = ?", enums.RuleScopeProduct, productID)
}

func (r *repository) ListRulesForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.PriceRule, error) {
	return r.listRules(ctx, "scope = ? AND category_id = ?", enums.RuleScopeCategory, categoryID)
}

func (r *repository) ListGlobalRules(ctx context.Context) ([]models.PriceRule, error) {
	return r.listRules(ctx, "scope = ?", enums.RuleScopeGlobal)
}

func (r *repository) listRules(ctx context.Context, query string, args ...any) ([]models.PriceRule, error) {
	var rules []models.PriceRule
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

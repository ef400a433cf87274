package resales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// Repository persists resale orders and reads the master data a sale snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	CreateOrder(ctx context.Context, order *models.ResaleOrder) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error)
	ListOrders(ctx context.Context, filters ListFilters) ([]models.ResaleOrder, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.ResaleOrderStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a resales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.ResaleOrder) error {
	// Lines ride along via the association; one Create covers the whole order.
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error) {
	var order models.ResaleOrder
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, filters ListFilters) ([]models.ResaleOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC")
	if filters.ResellerID != uuid.Nil {
		query = query.Where("reseller_id = ?", filters.ResellerID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var orders []models.ResaleOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.ResaleOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ResaleOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

package resales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/config"
	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/rcastell/dealerhub-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records reseller-to-end-customer sales and manages their lifecycle.
type Service interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*models.ResaleOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error)
	ListOrders(ctx context.Context, filters ListFilters) ([]models.ResaleOrder, error)
	Confirm(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error)
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.PricingConfig
}

// NewService builds the resale order service with the required dependencies.
func NewService(repo Repository, tx txRunner, cfg config.PricingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resales repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

// CreateSale writes the order, its lines and the totals in one transaction, so
// a failed line never leaves a half-written order behind. Each line snapshots
// the reseller's current purchase price as its cost; later catalog edits do
// not reach back into stored orders.
func (s *service) CreateSale(ctx context.Context, input CreateSaleInput) (*models.ResaleOrder, error) {
	if input.ResellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reseller id required")
	}
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line required")
	}

	vatRate := decimal.NewFromFloat(s.cfg.DefaultVATRate)
	if input.VATRate != nil {
		if *input.VATRate < 0 || *input.VATRate >= 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vat rate must be a fraction between 0 and 1")
		}
		vatRate = decimal.NewFromFloat(*input.VATRate)
	}
	markup := decimal.NewFromFloat(s.cfg.ResaleMarkup)

	var order *models.ResaleOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		reseller, err := repo.FindCustomer(ctx, input.ResellerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reseller not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reseller")
		}
		if !reseller.IsReseller {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer is not a reseller")
		}

		products, err := s.loadProducts(ctx, repo, input.Lines)
		if err != nil {
			return err
		}

		lines := make([]models.ResaleOrderLine, 0, len(input.Lines))
		totalNet := decimal.Zero
		totalVAT := decimal.Zero
		for _, lineInput := range input.Lines {
			product := products[lineInput.ProductID]

			qty := lineInput.Qty
			if qty < 1 {
				qty = 1
			}

			unitCost := product.PriceToReseller
			unitPrice := unitCost.Mul(markup).Round(2)
			if lineInput.UnitPriceNet != nil {
				if *lineInput.UnitPriceNet <= 0 {
					return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
				}
				unitPrice = decimal.NewFromFloat(*lineInput.UnitPriceNet).Round(2)
			}

			lineNet := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
			lineVAT := lineNet.Mul(vatRate).Round(2)
			lines = append(lines, models.ResaleOrderLine{
				ProductID:          product.ID,
				Qty:                qty,
				UnitCostAtCreation: unitCost,
				UnitPriceNet:       unitPrice,
				LineNet:            lineNet,
				LineVAT:            lineVAT,
				LineGross:          lineNet.Add(lineVAT),
			})
			totalNet = totalNet.Add(lineNet)
			totalVAT = totalVAT.Add(lineVAT)
		}

		order = &models.ResaleOrder{
			ResellerID:   input.ResellerID,
			CustomerName: input.CustomerName,
			VATRate:      vatRate,
			Status:       enums.ResaleOrderStatusDraft,
			TotalNet:     totalNet,
			TotalVAT:     totalVAT,
			TotalGross:   totalNet.Add(totalVAT),
			Lines:        lines,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create resale order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) loadProducts(ctx context.Context, repo Repository, lines []CreateSaleLineInput) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id required")
		}
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	products, err := repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]string{"product_id": id.String()})
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is inactive").
				WithDetails(map[string]string{"product_id": id.String()})
		}
	}
	return byID, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resale order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resale order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, filters ListFilters) ([]models.ResaleOrder, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	orders, err := s.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list resale orders")
	}
	return orders, nil
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error) {
	return s.transition(ctx, id, enums.ResaleOrderStatusConfirmed, map[enums.ResaleOrderStatus]bool{
		enums.ResaleOrderStatusDraft: true,
	})
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.ResaleOrder, error) {
	return s.transition(ctx, id, enums.ResaleOrderStatusCanceled, map[enums.ResaleOrderStatus]bool{
		enums.ResaleOrderStatusDraft:     true,
		enums.ResaleOrderStatusConfirmed: true,
	})
}

func (s *service) transition(ctx context.Context, id uuid.UUID, target enums.ResaleOrderStatus, allowedFrom map[enums.ResaleOrderStatus]bool) (*models.ResaleOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var order *models.ResaleOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindOrder(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "resale order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resale order")
		}
		order = found

		if order.Status == target {
			return nil
		}
		if !allowedFrom[order.Status] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}
		if err := repo.UpdateOrderStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

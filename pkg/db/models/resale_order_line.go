package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResaleOrderLine snapshots cost and price at the moment of sale so later
// catalog changes never alter historical orders. Lines are immutable once the
// parent order leaves draft.
type ResaleOrderLine struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID          uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Qty                int             `gorm:"column:qty;not null"`
	UnitCostAtCreation decimal.Decimal `gorm:"column:unit_cost_at_creation;type:numeric(12,2);not null"`
	UnitPriceNet       decimal.Decimal `gorm:"column:unit_price_net;type:numeric(12,2);not null"`
	LineNet            decimal.Decimal `gorm:"column:line_net;type:numeric(14,2);not null"`
	LineVAT            decimal.Decimal `gorm:"column:line_vat;type:numeric(14,2);not null"`
	LineGross          decimal.Decimal `gorm:"column:line_gross;type:numeric(14,2);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

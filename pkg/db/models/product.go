package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry both pricing paths read. PriceToCustomer and
// PriceToReseller are the two channel list prices; PurchaseCost is the cost
// basis snapshotted on reseller resales. Staff-managed, read-only to pricing.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID      uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SKU             string          `gorm:"column:sku;not null"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Tags            pq.StringArray  `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	PriceToCustomer decimal.Decimal `gorm:"column:price_to_customer;type:numeric(12,2);not null"`
	PriceToReseller decimal.Decimal `gorm:"column:price_to_reseller;type:numeric(12,2);not null"`
	PurchaseCost    decimal.Decimal `gorm:"column:purchase_cost;type:numeric(12,2);not null"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	Category        *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ListPrice returns the list price for the requested channel.
func (p Product) ListPrice(reseller bool) decimal.Decimal {
	if reseller {
		return p.PriceToReseller
	}
	return p.PriceToCustomer
}

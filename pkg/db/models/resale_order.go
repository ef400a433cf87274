package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// ResaleOrder is a reseller's sale to their own end customer. Totals are the
// sums over the snapshotted lines and are written in the same transaction
// that creates them.
type ResaleOrder struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ResellerID   uuid.UUID               `gorm:"column:reseller_id;type:uuid;not null"`
	CustomerName string                  `gorm:"column:customer_name;not null"`
	VATRate      decimal.Decimal         `gorm:"column:vat_rate;type:numeric(6,4);not null"`
	Status       enums.ResaleOrderStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	TotalNet     decimal.Decimal         `gorm:"column:total_net;type:numeric(14,2);not null;default:0"`
	TotalVAT     decimal.Decimal         `gorm:"column:total_vat;type:numeric(14,2);not null;default:0"`
	TotalGross   decimal.Decimal         `gorm:"column:total_gross;type:numeric(14,2);not null;default:0"`
	Lines        []ResaleOrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// PriceOverride pins a negotiated net price for one product/customer/channel
// combination. An unset bound leaves the validity window open on that side.
// Duplicates for the same key are tolerated; the most recently created valid
// row wins at resolution time.
type PriceOverride struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	Channel    enums.Channel   `gorm:"column:channel;type:text;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ValidFrom  *time.Time      `gorm:"column:valid_from"`
	ValidTo    *time.Time      `gorm:"column:valid_to"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// ActiveAt reports whether the override's validity window contains the
// instant. ValidTo is date-inclusive: a window ending 2026-03-01 still covers
// the whole of March 1st.
func (o PriceOverride) ActiveAt(at time.Time) bool {
	return WithinWindow(at, o.ValidFrom, o.ValidTo)
}

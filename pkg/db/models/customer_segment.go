package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSegment carries a blanket discount percentage for its members.
// DiscountPercent is signed the same way as rule deltas: -10 means 10% off.
type CustomerSegment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(8,4);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

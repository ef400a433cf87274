package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// PriceRule is a percentage adjustment applied to a channel list price.
// Scope decides which target column must be set: product-scoped rules carry a
// ProductID, category-scoped rules a CategoryID, global rules neither. Lower
// Priority wins; CreatedAt breaks ties. A nil SegmentID applies to every
// customer segment.
type PriceRule struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Scope        enums.RuleScope `gorm:"column:scope;type:text;not null"`
	ProductID    *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	CategoryID   *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Channel      enums.Channel   `gorm:"column:channel;type:text;not null"`
	MinQuantity  int             `gorm:"column:min_quantity;not null;default:0"`
	PercentDelta decimal.Decimal `gorm:"column:percent_delta;type:numeric(8,4);not null"`
	Priority     int             `gorm:"column:priority;not null;default:100"`
	SegmentID    *uuid.UUID      `gorm:"column:segment_id;type:uuid"`
	ValidFrom    *time.Time      `gorm:"column:valid_from"`
	ValidTo      *time.Time      `gorm:"column:valid_to"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// BeforeSave rejects rows whose scope and target columns disagree, so a
// product-scoped rule without a product cannot reach the table.
func (r *PriceRule) BeforeSave(_ *gorm.DB) error {
	switch r.Scope {
	case enums.RuleScopeProduct:
		if r.ProductID == nil {
			return fmt.Errorf("product-scoped rule requires a product id")
		}
	case enums.RuleScopeCategory:
		if r.CategoryID == nil {
			return fmt.Errorf("category-scoped rule requires a category id")
		}
	case enums.RuleScopeGlobal:
		if r.ProductID != nil || r.CategoryID != nil {
			return fmt.Errorf("global rule must not reference a product or category")
		}
	default:
		return fmt.Errorf("invalid rule scope %q", r.Scope)
	}
	return nil
}

// ActiveAt reports whether the rule's validity window contains the instant.
func (r PriceRule) ActiveAt(at time.Time) bool {
	return WithinWindow(at, r.ValidFrom, r.ValidTo)
}

// IsSegmentSpecific reports whether the rule targets one customer segment.
func (r PriceRule) IsSegmentSpecific() bool {
	return r.SegmentID != nil
}

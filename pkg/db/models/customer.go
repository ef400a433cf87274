package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer belongs to at most one segment at a time (nullable FK).
type Customer struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	Email      string           `gorm:"column:email;not null"`
	SegmentID  *uuid.UUID       `gorm:"column:segment_id;type:uuid"`
	IsReseller bool             `gorm:"column:is_reseller;not null;default:false"`
	Segment    *CustomerSegment `gorm:"foreignKey:SegmentID"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

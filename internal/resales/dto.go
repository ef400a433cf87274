package resales

import (
	"github.com/google/uuid"
)

// CreateSaleLineInput is one product position on a new resale order.
// UnitPriceNet overrides the suggested price when set; quantities below one
// are clamped up to one.
type CreateSaleLineInput struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	Qty          int       `json:"qty"`
	UnitPriceNet *float64  `json:"unit_price_net,omitempty" validate:"omitempty,gt=0"`
}

// CreateSaleInput captures a reseller's sale to their own end customer.
// VATRate falls back to the configured default when omitted.
type CreateSaleInput struct {
	ResellerID   uuid.UUID             `json:"reseller_id" validate:"required"`
	CustomerName string                `json:"customer_name" validate:"required"`
	VATRate      *float64              `json:"vat_rate,omitempty" validate:"omitempty,gte=0,lt=1"`
	Lines        []CreateSaleLineInput `json:"lines" validate:"required,min=1,dive"`
}

// ListFilters describe the inputs supported by the resale order list.
type ListFilters struct {
	ResellerID uuid.UUID
	Limit      int
	Offset     int
}

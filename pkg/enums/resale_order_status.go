package enums

import "fmt"

// ResaleOrderStatus tracks the lifecycle of a reseller-to-end-customer sale.
type ResaleOrderStatus string

const (
	ResaleOrderStatusDraft     ResaleOrderStatus = "draft"
	ResaleOrderStatusConfirmed ResaleOrderStatus = "confirmed"
	ResaleOrderStatusInvoiced  ResaleOrderStatus = "invoiced"
	ResaleOrderStatusCanceled  ResaleOrderStatus = "canceled"
)

var validResaleOrderStatuses = []ResaleOrderStatus{
	ResaleOrderStatusDraft,
	ResaleOrderStatusConfirmed,
	ResaleOrderStatusInvoiced,
	ResaleOrderStatusCanceled,
}

// String implements fmt.Stringer.
func (s ResaleOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ResaleOrderStatus.
func (s ResaleOrderStatus) IsValid() bool {
	for _, candidate := range validResaleOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseResaleOrderStatus converts raw input into a ResaleOrderStatus.
func ParseResaleOrderStatus(value string) (ResaleOrderStatus, error) {
	for _, candidate := range validResaleOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resale order status %q", value)
}

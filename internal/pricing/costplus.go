package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Fixed VAT applied on top of cost-plus net prices.
var costPlusVAT = decimal.NewFromFloat(1.07)

// maxMarginPercent caps the price-based end-customer margin; 100 would divide
// by zero in the margin formula.
const maxMarginPercent = 95

// CostPlusParams are the raw calculator inputs as entered by staff.
// Non-finite and negative values are zeroed rather than rejected; the
// calculator is a staff tool and stays lenient on purpose.
type CostPlusParams struct {
	PurchaseCost             float64 `json:"purchase_cost"`
	ShippingPerUnit          float64 `json:"shipping_per_unit"`
	CustomsPercent           float64 `json:"customs_percent"`
	StorageCost              float64 `json:"storage_cost"`
	OperationalPercent       float64 `json:"operational_percent"`
	ResellerMarginPercent    float64 `json:"reseller_margin_percent"`
	EndCustomerMarginPercent float64 `json:"end_customer_margin_percent"`
	RoundingStep             float64 `json:"rounding_step"`
	UnitsPerContainer        int     `json:"units_per_container"`
}

// ChannelPrice carries the net/gross pair for one channel.
type ChannelPrice struct {
	Net     decimal.Decimal  `json:"net"`
	Gross   decimal.Decimal  `json:"gross"`
	PerUnit *decimal.Decimal `json:"per_unit,omitempty"`
}

// CostPlusResult is the derived price pair for both channels.
type CostPlusResult struct {
	BaseCost    decimal.Decimal `json:"base_cost"`
	Reseller    ChannelPrice    `json:"reseller"`
	EndCustomer ChannelPrice    `json:"end_customer"`
}

// CostPlus derives the two channel list prices from purchase cost and margin
// parameters. The reseller margin is a markup on the cost basis (multiply);
// the end-customer margin is the reseller's take as a percentage of their own
// resale price (divide). The two formulas are intentionally different.
func CostPlus(params CostPlusParams) CostPlusResult {
	purchaseCost := sanitizeAmount(params.PurchaseCost)
	shipping := sanitizeAmount(params.ShippingPerUnit)
	customs := sanitizeAmount(params.CustomsPercent)
	storage := sanitizeAmount(params.StorageCost)
	operational := sanitizeAmount(params.OperationalPercent)
	resellerMargin := clampMargin(sanitizeAmount(params.ResellerMarginPercent))
	endCustomerMargin := clampMargin(sanitizeAmount(params.EndCustomerMarginPercent))

	hundred := decimal.NewFromInt(100)

	baseCost := purchaseCost.
		Add(shipping).
		Add(purchaseCost.Mul(customs).Div(hundred)).
		Add(storage).
		Add(purchaseCost.Mul(operational).Div(hundred))

	step := decimal.NewFromFloat(sanitizeStep(params.RoundingStep))

	resellerNet := roundToStep(baseCost.Mul(hundred.Add(resellerMargin)).Div(hundred), step)
	endCustomerNet := roundToStep(resellerNet.Div(hundred.Sub(endCustomerMargin).Div(hundred)), step)

	result := CostPlusResult{
		BaseCost: baseCost,
		Reseller: ChannelPrice{
			Net:   resellerNet,
			Gross: resellerNet.Mul(costPlusVAT),
		},
		EndCustomer: ChannelPrice{
			Net:   endCustomerNet,
			Gross: endCustomerNet.Mul(costPlusVAT),
		},
	}

	if params.UnitsPerContainer > 0 {
		units := decimal.NewFromInt(int64(params.UnitsPerContainer))
		resellerPerUnit := resellerNet.Div(units)
		endCustomerPerUnit := endCustomerNet.Div(units)
		result.Reseller.PerUnit = &resellerPerUnit
		result.EndCustomer.PerUnit = &endCustomerPerUnit
	}

	return result
}

// sanitizeAmount zeroes NaN, infinite and negative inputs.
func sanitizeAmount(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value)
}

// sanitizeStep keeps non-positive and non-finite steps at zero, which
// disables rounding entirely.
func sanitizeStep(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0
	}
	return value
}

func clampMargin(margin decimal.Decimal) decimal.Decimal {
	max := decimal.NewFromInt(maxMarginPercent)
	if margin.GreaterThan(max) {
		return max
	}
	return margin
}

// roundToStep snaps a value to the nearest multiple of step, half away from
// zero. A zero step returns the value untouched.
func roundToStep(value, step decimal.Decimal) decimal.Decimal {
	if step.LessThanOrEqual(decimal.Zero) {
		return value
	}
	return value.Div(step).Round(0).Mul(step)
}

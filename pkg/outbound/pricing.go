package outbound

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PricingMode is the profit input driving the selling price. Exactly one mode
// is active at a time: the union makes "margin or fixed amount, never both" a
// property of the type instead of a clearing side effect between two fields.
type PricingMode interface {
	// SellingPrice derives the price from the total cost, rounded to 2 places.
	SellingPrice(totalCost decimal.Decimal) decimal.Decimal

	pricingMode()
}

// MarginMode marks the price up by a percentage of total cost.
type MarginMode struct {
	Percent decimal.Decimal
}

func (m MarginMode) SellingPrice(totalCost decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(m.Percent.Div(oneHundred))
	return totalCost.Mul(factor).Round(2)
}

func (MarginMode) pricingMode() {}

// FixedMode adds a flat profit amount on top of total cost.
type FixedMode struct {
	Amount decimal.Decimal
}

func (f FixedMode) SellingPrice(totalCost decimal.Decimal) decimal.Decimal {
	return totalCost.Add(f.Amount).Round(2)
}

func (FixedMode) pricingMode() {}

// ComputeSellingPrice is the raw-input path for callers that have not yet
// resolved a PricingMode: both inputs may be present (the fixed amount wins)
// or absent (margin 0). Margin outside [0,100] and negative amounts are
// validation errors, never clamped.
func ComputeSellingPrice(totalCost decimal.Decimal, marginPercent, fixedAmount decimal.NullDecimal) (decimal.Decimal, error) {
	if fixedAmount.Valid {
		if fixedAmount.Decimal.IsNegative() {
			return decimal.Zero, &ValidationError{Fields: map[string]string{
				"profit_amount_fixed": "must not be negative",
			}}
		}
		return FixedMode{Amount: fixedAmount.Decimal}.SellingPrice(totalCost), nil
	}

	margin := decimal.Zero
	if marginPercent.Valid {
		margin = marginPercent.Decimal
	}
	if margin.IsNegative() || margin.GreaterThan(oneHundred) {
		return decimal.Zero, &ValidationError{Fields: map[string]string{
			"profit_margin_percent": "must be between 0 and 100",
		}}
	}
	return MarginMode{Percent: margin}.SellingPrice(totalCost), nil
}

// PricingInput is the editable profit state of the pricing stage. Editing one
// control resets the other, so the active mode is always unambiguous.
type PricingInput struct {
	mode PricingMode
}

// SetMarginPercent switches to margin pricing. Out-of-range values are
// rejected and leave the current mode untouched.
func (p *PricingInput) SetMarginPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return &ValidationError{Fields: map[string]string{
			"profit_margin_percent": "must be between 0 and 100",
		}}
	}
	p.mode = MarginMode{Percent: percent}
	return nil
}

// SetFixedAmount switches to fixed-amount pricing.
func (p *PricingInput) SetFixedAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{Fields: map[string]string{
			"profit_amount_fixed": "must not be negative",
		}}
	}
	p.mode = FixedMode{Amount: amount}
	return nil
}

// MarginPercent returns the active margin, zero when fixed pricing is active.
func (p *PricingInput) MarginPercent() decimal.Decimal {
	if m, ok := p.mode.(MarginMode); ok {
		return m.Percent
	}
	return decimal.Zero
}

// FixedAmount returns the active fixed profit and whether fixed mode is on.
func (p *PricingInput) FixedAmount() (decimal.Decimal, bool) {
	if f, ok := p.mode.(FixedMode); ok {
		return f.Amount, true
	}
	return decimal.Zero, false
}

// Mode returns the active pricing mode, defaulting to a zero margin.
func (p *PricingInput) Mode() PricingMode {
	if p.mode == nil {
		return MarginMode{Percent: decimal.Zero}
	}
	return p.mode
}

// SellingPrice derives the price for the given total cost under the active mode.
func (p *PricingInput) SellingPrice(totalCost decimal.Decimal) decimal.Decimal {
	return p.Mode().SellingPrice(totalCost)
}

package outbound

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestComputeSellingPrice(t *testing.T) {
	tests := []struct {
		name      string
		totalCost string
		margin    string
		fixed     string
		want      string
		wantErr   bool
	}{
		{name: "margin ten percent", totalCost: "550000", margin: "10", want: "605000.00"},
		{name: "fixed amount", totalCost: "550000", fixed: "75000", want: "625000.00"},
		{name: "fixed wins over margin", totalCost: "550000", margin: "10", fixed: "75000", want: "625000.00"},
		{name: "no inputs means zero margin", totalCost: "550000", want: "550000.00"},
		{name: "zero margin", totalCost: "1000", margin: "0", want: "1000.00"},
		{name: "full margin", totalCost: "1000", margin: "100", want: "2000.00"},
		{name: "fractional margin rounds", totalCost: "999.99", margin: "12.5", want: "1124.99"},
		{name: "zero cost", totalCost: "0", margin: "50", want: "0.00"},
		{name: "margin above 100 rejected", totalCost: "1000", margin: "101", wantErr: true},
		{name: "negative margin rejected", totalCost: "1000", margin: "-1", wantErr: true},
		{name: "negative fixed rejected", totalCost: "1000", fixed: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSellingPrice(dec(tt.totalCost), nullDec(tt.margin), nullDec(tt.fixed))
			if tt.wantErr {
				var ve *ValidationError
				assert.Error(t, err)
				assert.True(t, errors.As(err, &ve))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestPricingInputMutualExclusion(t *testing.T) {
	var p PricingInput

	assert.NoError(t, p.SetMarginPercent(dec("10")))
	assert.Equal(t, "10", p.MarginPercent().String())

	// Switching to a fixed amount resets the margin to zero.
	assert.NoError(t, p.SetFixedAmount(dec("75000")))
	assert.True(t, p.MarginPercent().IsZero())
	amount, fixed := p.FixedAmount()
	assert.True(t, fixed)
	assert.Equal(t, "75000", amount.String())

	// And back again: setting a margin drops the fixed amount.
	assert.NoError(t, p.SetMarginPercent(dec("25")))
	_, fixed = p.FixedAmount()
	assert.False(t, fixed)
	assert.Equal(t, "25", p.MarginPercent().String())
}

func TestPricingInputRejectsOutOfRangeMargin(t *testing.T) {
	var p PricingInput
	assert.NoError(t, p.SetMarginPercent(dec("40")))

	err := p.SetMarginPercent(dec("120"))
	assert.Error(t, err)
	// The active mode is untouched by the rejected edit.
	assert.Equal(t, "40", p.MarginPercent().String())

	err = p.SetFixedAmount(dec("-1"))
	assert.Error(t, err)
	assert.Equal(t, "40", p.MarginPercent().String())
}

func TestPricingEndToEndScenario(t *testing.T) {
	// purchase 500000 + maintenance 50000 -> total 550000
	total := dec("500000").Add(dec("50000"))
	assert.Equal(t, "550000", total.String())

	var p PricingInput
	assert.NoError(t, p.SetMarginPercent(dec("10")))
	assert.Equal(t, "605000.00", p.SellingPrice(total).StringFixed(2))

	assert.NoError(t, p.SetFixedAmount(dec("75000")))
	assert.Equal(t, "625000.00", p.SellingPrice(total).StringFixed(2))
	assert.True(t, p.MarginPercent().IsZero())
}

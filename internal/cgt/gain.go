package cgt

import "github.com/shopspring/decimal"

var discountRate = decimal.RequireFromString("0.5")

// Gain is the tax outcome of one lot match.
type Gain struct {
	Raw      decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
}

// Assess computes raw gain, the 50% discount and net gain. The discount only
// applies to a positive gain on an asset held for at least 12 months.
func Assess(costBase, proceeds decimal.Decimal, heldOver12Months bool) Gain {
	raw := proceeds.Sub(costBase)
	discount := decimal.Zero
	if raw.IsPositive() && heldOver12Months {
		discount = raw.Mul(discountRate)
	}
	return Gain{Raw: raw, Discount: discount, Net: raw.Sub(discount)}
}

// Enrich fills the gain fields of every match in place.
func Enrich(matches []LotMatch) {
	for i := range matches {
		m := &matches[i]
		g := Assess(m.CostBase, m.Proceeds, m.HeldOver12Months)
		m.RawGain, m.Discount, m.NetGain = g.Raw, g.Discount, g.Net
	}
}

package cgt

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Summary is the CGT outcome of one financial year.
type Summary struct {
	FinancialYear    FinancialYear
	TotalGains       decimal.Decimal
	TotalLosses      decimal.Decimal
	DiscountGains    decimal.Decimal
	NonDiscountGains decimal.Decimal
	DiscountAmount   decimal.Decimal
	NetCapitalGain   decimal.Decimal

	// Only populated when losses are carried forward between years.
	CarriedForwardLossApplied decimal.Decimal
	NetLossCarriedForward     decimal.Decimal

	LotMatches []LotMatch
}

// Aggregate groups enriched matches by the financial year of their sell date
// and returns one summary per year, most recent first. With carryForward set,
// losses a year cannot absorb reduce the gains of the following years.
func Aggregate(matches []LotMatch, carryForward bool) ([]Summary, error) {
	byYear := make(map[FinancialYear][]LotMatch)
	for _, m := range matches {
		if m.SellDate.IsZero() {
			return nil, &AggregationError{Ticker: m.Ticker, Reason: "lot match has no sell date"}
		}
		fy := FinancialYearOf(m.SellDate)
		byYear[fy] = append(byYear[fy], m)
	}

	years := make([]FinancialYear, 0, len(byYear))
	for fy := range byYear {
		years = append(years, fy)
	}
	slices.Sort(years)

	summaries := make([]Summary, 0, len(years))
	carried := decimal.Zero
	for _, fy := range years {
		s, unabsorbed := summarize(fy, byYear[fy], carried)
		if carryForward {
			s.NetLossCarriedForward = unabsorbed
			carried = unabsorbed
		}
		summaries = append(summaries, s)
	}

	slices.Reverse(summaries)
	return summaries, nil
}

// summarize applies the year's losses, then any prior-year loss, to
// non-discount gains first and discount gains second, and only then halves
// what is left of the discount gains. It returns the loss left unabsorbed.
func summarize(fy FinancialYear, matches []LotMatch, priorLoss decimal.Decimal) (Summary, decimal.Decimal) {
	var nonDiscount, discountable, losses decimal.Decimal
	for _, m := range matches {
		switch {
		case !m.RawGain.IsPositive():
			losses = losses.Add(m.RawGain.Neg())
		case m.HeldOver12Months:
			discountable = discountable.Add(m.RawGain)
		default:
			nonDiscount = nonDiscount.Add(m.RawGain)
		}
	}

	pool := losses.Add(priorLoss)
	offset := decimal.Min(pool, nonDiscount)
	nonDiscount = nonDiscount.Sub(offset)
	pool = pool.Sub(offset)
	consumed := offset

	offset = decimal.Min(pool, discountable)
	discountable = discountable.Sub(offset)
	pool = pool.Sub(offset)
	consumed = consumed.Add(offset)

	discountAmount := discountable.Mul(discountRate)
	net := nonDiscount.Add(discountable).Sub(discountAmount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	// Current-year losses are used before anything carried in.
	priorApplied := decimal.Max(consumed.Sub(losses), decimal.Zero)

	return Summary{
		FinancialYear:             fy,
		TotalGains:                nonDiscount.Add(discountable),
		TotalLosses:               losses,
		DiscountGains:             discountable,
		NonDiscountGains:          nonDiscount,
		DiscountAmount:            discountAmount,
		NetCapitalGain:            net,
		CarriedForwardLossApplied: priorApplied,
		LotMatches:                matches,
	}, pool
}

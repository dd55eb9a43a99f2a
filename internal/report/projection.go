// Package report turns engine results into the API representation of a CGT
// report. It only formats; every number is computed by package cgt.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/model"
)

// DefaultDecimalPlaces is the precision used when none is configured.
const DefaultDecimalPlaces = 2

// Projector renders cgt reports with a fixed number of decimal places.
type Projector struct {
	places int32
}

// NewProjector returns a Projector rounding to places decimals. Negative
// values fall back to DefaultDecimalPlaces.
func NewProjector(places int) *Projector {
	if places < 0 {
		places = DefaultDecimalPlaces
	}
	return &Projector{places: int32(places)}
}

// Overview renders every financial year without lot matches.
func (p *Projector) Overview(r *cgt.Report) model.CGTOverview {
	return p.project(r, r.FinancialYears, false)
}

// Full renders every financial year including lot matches.
func (p *Projector) Full(r *cgt.Report) model.CGTOverview {
	return p.project(r, r.FinancialYears, true)
}

// Detail renders a single financial year with its lot matches. It reports
// false when the report has no data for that year.
func (p *Projector) Detail(r *cgt.Report, fy cgt.FinancialYear) (model.CGTOverview, bool) {
	s, ok := r.Year(fy)
	if !ok {
		return model.CGTOverview{FinancialYears: []model.FinancialYearSummary{}}, false
	}
	return p.project(r, []cgt.Summary{s}, true), true
}

func (p *Projector) project(r *cgt.Report, years []cgt.Summary, withMatches bool) model.CGTOverview {
	out := model.CGTOverview{FinancialYears: make([]model.FinancialYearSummary, 0, len(years))}
	for _, s := range years {
		summary := model.FinancialYearSummary{
			FinancialYear:    s.FinancialYear.String(),
			TotalGains:       p.amount(s.TotalGains),
			TotalLosses:      p.amount(s.TotalLosses),
			DiscountGains:    p.amount(s.DiscountGains),
			NonDiscountGains: p.amount(s.NonDiscountGains),
			DiscountAmount:   p.amount(s.DiscountAmount),
			NetCapitalGain:   p.amount(s.NetCapitalGain),
			LotMatches:       []model.LotMatch{},
		}
		if r.CarryForwardLosses {
			summary.CarriedForwardLossApplied = p.amount(s.CarriedForwardLossApplied)
			summary.NetLossCarriedForward = p.amount(s.NetLossCarriedForward)
		}
		if withMatches {
			summary.LotMatches = make([]model.LotMatch, 0, len(s.LotMatches))
			for _, m := range s.LotMatches {
				summary.LotMatches = append(summary.LotMatches, p.match(m))
			}
		}
		out.FinancialYears = append(out.FinancialYears, summary)
	}
	return out
}

func (p *Projector) match(m cgt.LotMatch) model.LotMatch {
	return model.LotMatch{
		Ticker:           m.Ticker,
		SellDate:         m.SellDate.Format(cgt.DateLayout),
		Quantity:         m.Quantity,
		CostBase:         p.amount(m.CostBase),
		Proceeds:         p.amount(m.Proceeds),
		RawGain:          p.amount(m.RawGain),
		HeldOver12Months: m.HeldOver12Months,
		Discount:         p.amount(m.Discount),
		NetGain:          p.amount(m.NetGain),
	}
}

func (p *Projector) amount(d decimal.Decimal) string {
	return d.StringFixed(p.places)
}

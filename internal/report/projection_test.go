package report

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tregeagle/finagle/internal/cgt"
)

func sampleReport(t *testing.T, carryForward bool) *cgt.Report {
	t.Helper()
	calc := cgt.NewCalculator(cgt.Options{CarryForwardLosses: carryForward})
	report, err := calc.Calculate(context.Background(), "u", []cgt.Transaction{
		{ID: "1", Ticker: "XYZ", Action: "buy", Date: "2023-01-10", Quantity: 100, Price: "40", Value: "4000", Fee: "10"},
		{ID: "2", Ticker: "XYZ", Action: "sell", Date: "2024-02-15", Quantity: 100, Price: "50", Value: "5000", Fee: "10"},
		{ID: "3", Ticker: "ABC", Action: "buy", Date: "2022-08-01", Quantity: 3, Price: "10", Value: "30", Fee: "1"},
		{ID: "4", Ticker: "ABC", Action: "sell", Date: "2022-09-01", Quantity: 1, Price: "12", Value: "12", Fee: "0"},
	})
	require.NoError(t, err)
	return report
}

func TestProjector_Overview(t *testing.T) {
	overview := NewProjector(2).Overview(sampleReport(t, false))

	require.Len(t, overview.FinancialYears, 2)
	current := overview.FinancialYears[0]
	assert.Equal(t, "2023-2024", current.FinancialYear)
	assert.Equal(t, "980.00", current.DiscountGains)
	assert.Equal(t, "490.00", current.DiscountAmount)
	assert.Equal(t, "490.00", current.NetCapitalGain)
	assert.Equal(t, "0.00", current.TotalLosses)
	assert.NotNil(t, current.LotMatches)
	assert.Empty(t, current.LotMatches)

	prior := overview.FinancialYears[1]
	assert.Equal(t, "2022-2023", prior.FinancialYear)
	assert.Equal(t, "1.67", prior.NetCapitalGain)
}

func TestProjector_OverviewJSONShape(t *testing.T) {
	body, err := json.Marshal(NewProjector(2).Overview(sampleReport(t, false)))
	require.NoError(t, err)

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	year := decoded["financial_years"][0]
	assert.ElementsMatch(t, []string{
		"financial_year", "total_gains", "total_losses", "discount_gains",
		"non_discount_gains", "discount_amount", "net_capital_gain", "lot_matches",
	}, keys(year))
	assert.Equal(t, []any{}, year["lot_matches"])
}

func TestProjector_Detail(t *testing.T) {
	p := NewProjector(2)
	report := sampleReport(t, false)

	detail, ok := p.Detail(report, cgt.FinancialYear(2023))
	require.True(t, ok)
	require.Len(t, detail.FinancialYears, 1)
	require.Len(t, detail.FinancialYears[0].LotMatches, 1)

	m := detail.FinancialYears[0].LotMatches[0]
	assert.Equal(t, "XYZ", m.Ticker)
	assert.Equal(t, "2024-02-15", m.SellDate)
	assert.Equal(t, int64(100), m.Quantity)
	assert.Equal(t, "4010.00", m.CostBase)
	assert.Equal(t, "4990.00", m.Proceeds)
	assert.Equal(t, "980.00", m.RawGain)
	assert.True(t, m.HeldOver12Months)
	assert.Equal(t, "490.00", m.Discount)
	assert.Equal(t, "490.00", m.NetGain)

	missing, ok := p.Detail(report, cgt.FinancialYear(2019))
	assert.False(t, ok)
	assert.NotNil(t, missing.FinancialYears)
	assert.Empty(t, missing.FinancialYears)
}

func TestProjector_Precision(t *testing.T) {
	detail, ok := NewProjector(4).Detail(sampleReport(t, false), cgt.FinancialYear(2022))
	require.True(t, ok)
	m := detail.FinancialYears[0].LotMatches[0]
	assert.Equal(t, "10.3333", m.CostBase)
	assert.Equal(t, "1.6667", m.RawGain)

	assert.Equal(t, "1.67", NewProjector(-1).Full(sampleReport(t, false)).FinancialYears[1].NetCapitalGain)
}

func TestProjector_CarryForwardFields(t *testing.T) {
	off, err := json.Marshal(NewProjector(2).Overview(sampleReport(t, false)))
	require.NoError(t, err)
	assert.NotContains(t, string(off), "net_loss_carried_forward")

	on := NewProjector(2).Overview(sampleReport(t, true))
	assert.Equal(t, "0.00", on.FinancialYears[0].CarriedForwardLossApplied)
	assert.Equal(t, "0.00", on.FinancialYears[0].NetLossCarriedForward)
}

func TestProjector_EmptyReport(t *testing.T) {
	body, err := json.Marshal(NewProjector(2).Overview(&cgt.Report{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"financial_years":[]}`, string(body))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

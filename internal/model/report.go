package model

// LotMatch is one sell slice matched against one buy lot, as returned by the API.
type LotMatch struct {
	Ticker           string `json:"ticker"`
	SellDate         string `json:"sell_date"`
	Quantity         int64  `json:"quantity"`
	CostBase         string `json:"cost_base"`
	Proceeds         string `json:"proceeds"`
	RawGain          string `json:"raw_gain"`
	HeldOver12Months bool   `json:"held_over_12_months"`
	Discount         string `json:"discount"`
	NetGain          string `json:"net_gain"`
}

// FinancialYearSummary is the CGT position for one Australian financial year.
// The carry-forward fields are only present when loss carry-forward is enabled.
type FinancialYearSummary struct {
	FinancialYear             string     `json:"financial_year"`
	TotalGains                string     `json:"total_gains"`
	TotalLosses               string     `json:"total_losses"`
	DiscountGains             string     `json:"discount_gains"`
	NonDiscountGains          string     `json:"non_discount_gains"`
	DiscountAmount            string     `json:"discount_amount"`
	NetCapitalGain            string     `json:"net_capital_gain"`
	CarriedForwardLossApplied string     `json:"carried_forward_loss_applied,omitempty"`
	NetLossCarriedForward     string     `json:"net_loss_carried_forward,omitempty"`
	LotMatches                []LotMatch `json:"lot_matches"`
}

// CGTOverview lists financial year summaries, most recent first.
type CGTOverview struct {
	FinancialYears []FinancialYearSummary `json:"financial_years"`
}

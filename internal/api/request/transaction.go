package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body of POST /users/{userId}/transactions.
// Amounts accept JSON strings or numbers. Value defaults to price × quantity,
// fee to zero and time to midnight.
type CreateTransactionRequest struct {
	Date         string           `json:"date"`
	Time         string           `json:"time,omitempty"`
	Action       string           `json:"action"`
	Ticker       string           `json:"ticker"`
	Quantity     int64            `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
	Value        *decimal.Decimal `json:"value,omitempty"`
	Fee          *decimal.Decimal `json:"fee,omitempty"`
	ContractNote *string          `json:"contract_note,omitempty"`
}

// TransactionFilter holds the query parameters of a transaction listing.
type TransactionFilter struct {
	Ticker        string
	Action        string
	FinancialYear string
}

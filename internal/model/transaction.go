package model

import "time"

// Transaction is a single buy or sell of a listed security.
// Monetary fields are exact decimal strings; they are never converted to floats.
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Action       string    `json:"action"`
	Ticker       string    `json:"ticker"`
	Quantity     int64     `json:"quantity"`
	Price        string    `json:"price"`
	Value        string    `json:"value"`
	Fee          string    `json:"fee"`
	ContractNote *string   `json:"contract_note"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionFilter narrows a transaction listing. Empty fields match everything.
// From and To are inclusive YYYY-MM-DD bounds.
type TransactionFilter struct {
	Ticker string
	Action string
	From   string
	To     string
}

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/tregeagle/finagle/internal/api/request"
)

const (
	maxTickerLength       = 20
	maxContractNoteLength = 500
)

var timeLayouts = []string{"15:04:05", "15:04"}

// ValidActions contains the allowed transaction actions.
var ValidActions = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - date: YYYY-MM-DD
//   - action: buy or sell, any case
//   - ticker: non-empty, at most 20 characters
//   - quantity: positive whole number
//   - price: non-negative decimal
//
// Optional fields are time (HH:MM or HH:MM:SS), value and fee (non-negative
// decimals) and contract_note.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)
	}

	if req.Time != "" && !validTime(req.Time) {
		errors["time"] = fmt.Sprintf("invalid time %q, expected HH:MM:SS", req.Time)
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		errors["action"] = "action is required"
	} else if !ValidActions[action] {
		errors["action"] = fmt.Sprintf("invalid action: %s", req.Action)
	}

	ticker := strings.TrimSpace(req.Ticker)
	if ticker == "" {
		errors["ticker"] = "ticker is required"
	} else if len(ticker) > maxTickerLength {
		errors["ticker"] = fmt.Sprintf("ticker must be at most %d characters", maxTickerLength)
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Price == nil {
		errors["price"] = "price is required"
	} else if req.Price.IsNegative() {
		errors["price"] = "price cannot be negative"
	}

	if req.Value != nil && req.Value.IsNegative() {
		errors["value"] = "value cannot be negative"
	}

	if req.Fee != nil && req.Fee.IsNegative() {
		errors["fee"] = "fee cannot be negative"
	}

	if req.ContractNote != nil && len(*req.ContractNote) > maxContractNoteLength {
		errors["contract_note"] = fmt.Sprintf("contract_note must be at most %d characters", maxContractNoteLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validTime(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

package cgt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by the ledger.
const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04:05", "15:04", "15:04:05.999999999"}

// Action is the side of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// ParseAction accepts "buy" and "sell" in any case.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Buy, Sell:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Transaction is a ledger record as handed over by the transaction store.
// Decimal fields stay strings until Normalize validates them.
type Transaction struct {
	ID       string
	Ticker   string
	Action   string
	Date     string
	Time     string
	Quantity int64
	Price    string
	Value    string
	Fee      string
}

// Event is a validated transaction inside one ticker stream.
type Event struct {
	Seq           int
	TransactionID string
	Ticker        string
	Action        Action
	Date          time.Time
	Time          time.Duration
	Quantity      int64
	Price         decimal.Decimal
	Value         decimal.Decimal
	Fee           decimal.Decimal
}

// Gross returns price × quantity.
func (e Event) Gross() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(e.Quantity))
}

func compareEvents(a, b Event) int {
	switch {
	case a.Date.Before(b.Date):
		return -1
	case a.Date.After(b.Date):
		return 1
	case a.Time != b.Time:
		if a.Time < b.Time {
			return -1
		}
		return 1
	default:
		return a.Seq - b.Seq
	}
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// parseClock turns a time of day into an offset from midnight. Empty means midnight.
func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return 0, fmt.Errorf("unparseable time %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a decimal: %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d)
	}
	return d, nil
}

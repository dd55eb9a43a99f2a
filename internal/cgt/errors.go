package cgt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the three failure categories of a calculation.
var (
	// ErrValidation marks a malformed or inconsistent ledger record.
	ErrValidation = errors.New("invalid transaction")

	// ErrOverconsumption marks a sell that exceeds the open quantity for its ticker.
	ErrOverconsumption = errors.New("sell exceeds open quantity")

	// ErrAggregation marks an internal invariant violation. It indicates a defect, not bad input.
	ErrAggregation = errors.New("aggregation invariant violated")
)

// ValidationError describes one rejected ledger record.
type ValidationError struct {
	TransactionID string
	Position      int
	Ticker        string
	Field         string
	Reason        string
	Err           error
}

func (e *ValidationError) Error() string {
	id := e.TransactionID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Position)
	}
	if e.Ticker == "" {
		return fmt.Sprintf("transaction %s: %s: %s", id, e.Field, e.Reason)
	}
	return fmt.Sprintf("transaction %s (%s): %s: %s", id, e.Ticker, e.Field, e.Reason)
}

// Unwrap exposes ErrValidation and, for oversells, the underlying *OverconsumptionError.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// ValidationErrors collects every rejected record of a ledger.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d invalid transactions: %s", len(v), strings.Join(msgs, "; "))
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// OverconsumptionError is returned when a sell needs more units than remain open.
type OverconsumptionError struct {
	Ticker        string
	TransactionID string
	SellDate      time.Time
	Requested     int64
	Available     int64
}

func (e *OverconsumptionError) Error() string {
	return fmt.Sprintf("%s: sell %s on %s requests %d units but only %d are open",
		e.Ticker, e.TransactionID, e.SellDate.Format(DateLayout), e.Requested, e.Available)
}

func (e *OverconsumptionError) Unwrap() error {
	return ErrOverconsumption
}

// AggregationError reports a broken engine invariant.
type AggregationError struct {
	Ticker string
	Reason string
}

func (e *AggregationError) Error() string {
	if e.Ticker == "" {
		return "aggregation: " + e.Reason
	}
	return fmt.Sprintf("aggregation (%s): %s", e.Ticker, e.Reason)
}

func (e *AggregationError) Unwrap() error {
	return ErrAggregation
}

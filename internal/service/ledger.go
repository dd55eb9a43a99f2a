package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/model"
)

// ReportInvalidator drops cached reports after a user's ledger changes.
type ReportInvalidator interface {
	Invalidate(userID string)
}

// toLedger converts stored transactions to engine input, keeping their order.
func toLedger(txs []model.Transaction) []cgt.Transaction {
	out := make([]cgt.Transaction, len(txs))
	for i, t := range txs {
		out[i] = cgt.Transaction{
			ID:       t.ID,
			Ticker:   t.Ticker,
			Action:   t.Action,
			Date:     t.Date,
			Time:     t.Time,
			Quantity: t.Quantity,
			Price:    t.Price,
			Value:    t.Value,
			Fee:      t.Fee,
		}
	}
	return out
}

// checkLedger rejects a transaction history the CGT engine could not
// process, such as one where a sell exceeds the units held at the time.
func checkLedger(userID string, txs []cgt.Transaction) error {
	if _, err := cgt.Normalize(userID, txs); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrLedgerInconsistent, err)
	}
	return nil
}

// normaliseClock returns HH:MM:SS for HH:MM or HH:MM:SS input; empty means midnight.
func normaliseClock(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return "00:00:00"
}

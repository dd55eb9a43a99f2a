package cgt

import (
	"fmt"
	"slices"
	"strings"
)

// Ledger holds one user's validated transactions split into per-ticker streams.
type Ledger struct {
	UserID  string
	Tickers []string
	streams map[string][]Event
}

// Stream returns the ordered events of a ticker.
func (l *Ledger) Stream(ticker string) []Event {
	return l.streams[ticker]
}

// Len returns the number of events across all tickers.
func (l *Ledger) Len() int {
	n := 0
	for _, s := range l.streams {
		n += len(s)
	}
	return n
}

// Normalize validates raw transactions and groups them into per-ticker
// streams ordered by (date, time, position in txs). Every invalid record is
// reported; the result is only returned when none are found.
func Normalize(userID string, txs []Transaction) (*Ledger, error) {
	var problems ValidationErrors
	streams := make(map[string][]Event)
	broken := make(map[string]bool)

	for i, tx := range txs {
		ev, errs := toEvent(i, tx)
		if len(errs) > 0 {
			problems = append(problems, errs...)
			if ev.Ticker != "" {
				broken[ev.Ticker] = true
			}
			continue
		}
		streams[ev.Ticker] = append(streams[ev.Ticker], ev)
	}

	tickers := make([]string, 0, len(streams))
	for ticker, events := range streams {
		slices.SortStableFunc(events, compareEvents)
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)

	for _, ticker := range tickers {
		// Holdings of a ticker with a rejected record are not meaningful.
		if broken[ticker] {
			continue
		}
		problems = append(problems, checkHoldings(streams[ticker])...)
	}

	if len(problems) > 0 {
		slices.SortStableFunc(problems, func(a, b *ValidationError) int { return a.Position - b.Position })
		return nil, problems
	}

	return &Ledger{UserID: userID, Tickers: tickers, streams: streams}, nil
}

func toEvent(pos int, tx Transaction) (Event, []*ValidationError) {
	ev := Event{
		Seq:           pos,
		TransactionID: tx.ID,
		Ticker:        strings.ToUpper(strings.TrimSpace(tx.Ticker)),
		Quantity:      tx.Quantity,
	}
	var errs []*ValidationError
	fail := func(field, reason string) {
		errs = append(errs, &ValidationError{
			TransactionID: tx.ID,
			Position:      pos,
			Ticker:        ev.Ticker,
			Field:         field,
			Reason:        reason,
		})
	}

	if ev.Ticker == "" {
		fail("ticker", "must not be empty")
	}

	action, err := ParseAction(tx.Action)
	if err != nil {
		fail("action", err.Error())
	}
	ev.Action = action

	if tx.Quantity <= 0 {
		fail("quantity", fmt.Sprintf("must be positive, got %d", tx.Quantity))
	}

	date, err := ParseDate(tx.Date)
	if err != nil {
		fail("date", fmt.Sprintf("unparseable date %q", tx.Date))
	}
	ev.Date = date

	clock, err := parseClock(tx.Time)
	if err != nil {
		fail("time", err.Error())
	}
	ev.Time = clock

	if ev.Price, err = parseAmount(tx.Price); err != nil {
		fail("price", err.Error())
	}
	if ev.Value, err = parseAmount(tx.Value); err != nil {
		fail("value", err.Error())
	}
	if ev.Fee, err = parseAmount(tx.Fee); err != nil {
		fail("fee", err.Error())
	}

	return ev, errs
}

// checkHoldings walks an ordered stream and rejects sells that exceed the
// quantity bought so far.
func checkHoldings(events []Event) []*ValidationError {
	var errs []*ValidationError
	var held int64
	for _, ev := range events {
		if ev.Action == Buy {
			held += ev.Quantity
			continue
		}
		if ev.Quantity > held {
			over := &OverconsumptionError{
				Ticker:        ev.Ticker,
				TransactionID: ev.TransactionID,
				SellDate:      ev.Date,
				Requested:     ev.Quantity,
				Available:     held,
			}
			errs = append(errs, &ValidationError{
				TransactionID: ev.TransactionID,
				Position:      ev.Seq,
				Ticker:        ev.Ticker,
				Field:         "quantity",
				Reason:        fmt.Sprintf("sell of %d exceeds %d held on %s", ev.Quantity, held, ev.Date.Format(DateLayout)),
				Err:           over,
			})
			held = 0
			continue
		}
		held -= ev.Quantity
	}
	return errs
}

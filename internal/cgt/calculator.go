package cgt

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Options configure a Calculator.
type Options struct {
	// Workers bounds how many tickers are matched at once. Values below 1 mean 1.
	Workers int
	// CarryForwardLosses moves unabsorbed net losses into later financial years.
	CarryForwardLosses bool
}

// Report is the full CGT result for one user.
type Report struct {
	UserID             string
	CarryForwardLosses bool
	// FinancialYears is ordered most recent first.
	FinancialYears []Summary
}

// Year returns the summary of one financial year.
func (r *Report) Year(fy FinancialYear) (Summary, bool) {
	for _, s := range r.FinancialYears {
		if s.FinancialYear == fy {
			return s, true
		}
	}
	return Summary{}, false
}

// Calculator runs the normalize, match, enrich and aggregate pipeline.
type Calculator struct {
	opts Options
}

// NewCalculator creates a Calculator with the given options.
func NewCalculator(opts Options) *Calculator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Calculator{opts: opts}
}

// Options returns the options the calculator was built with.
func (c *Calculator) Options() Options {
	return c.opts
}

// Calculate builds the CGT report for a user's full transaction history.
// txs must be in creation order; that order breaks ties between trades with
// the same date and time. Tickers are matched concurrently, each in its own
// task with its own lot queue, and merged in a fixed order so the result
// does not depend on scheduling.
func (c *Calculator) Calculate(ctx context.Context, userID string, txs []Transaction) (*Report, error) {
	ledger, err := Normalize(userID, txs)
	if err != nil {
		return nil, err
	}

	results := make([][]LotMatch, len(ledger.Tickers))
	failures := make([]error, len(ledger.Tickers))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, ticker := range ledger.Tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			events := ledger.Stream(ticker)
			matches, err := MatchTicker(ticker, events)
			if err != nil {
				failures[i] = err
				return nil
			}
			if err := verifyPartition(ticker, events, matches); err != nil {
				failures[i] = err
				return nil
			}
			Enrich(matches)
			results[i] = matches
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range failures {
		if err != nil {
			return nil, err
		}
	}

	var all []LotMatch
	for _, matches := range results {
		all = append(all, matches...)
	}
	slices.SortStableFunc(all, compareMatches)

	years, err := Aggregate(all, c.opts.CarryForwardLosses)
	if err != nil {
		return nil, err
	}

	return &Report{
		UserID:             userID,
		CarryForwardLosses: c.opts.CarryForwardLosses,
		FinancialYears:     years,
	}, nil
}

// verifyPartition checks that each sell is fully covered by its matches and
// that the matched proceeds add back up to the sell's net proceeds exactly.
func verifyPartition(ticker string, events []Event, matches []LotMatch) error {
	type covered struct {
		quantity int64
		proceeds decimal.Decimal
	}
	bySell := make(map[int]covered)
	for _, m := range matches {
		c := bySell[m.sellSeq]
		c.quantity += m.Quantity
		c.proceeds = c.proceeds.Add(m.Proceeds)
		bySell[m.sellSeq] = c
	}
	for _, ev := range events {
		if ev.Action != Sell {
			continue
		}
		c := bySell[ev.Seq]
		if c.quantity != ev.Quantity {
			return &AggregationError{
				Ticker: ticker,
				Reason: fmt.Sprintf("sell %s matched %d of %d units", ev.TransactionID, c.quantity, ev.Quantity),
			}
		}
		if want := ev.Gross().Sub(ev.Fee); !c.proceeds.Equal(want) {
			return &AggregationError{
				Ticker: ticker,
				Reason: fmt.Sprintf("sell %s proceeds %s do not sum to %s", ev.TransactionID, c.proceeds, want),
			}
		}
	}
	return nil
}

func compareMatches(a, b LotMatch) int {
	switch {
	case a.SellDate.Before(b.SellDate):
		return -1
	case a.SellDate.After(b.SellDate):
		return 1
	case a.sellTime != b.sellTime:
		if a.sellTime < b.sellTime {
			return -1
		}
		return 1
	case a.sellSeq != b.sellSeq:
		return a.sellSeq - b.sellSeq
	default:
		return a.slice - b.slice
	}
}

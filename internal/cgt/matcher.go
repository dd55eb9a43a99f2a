package cgt

import (
	"time"

	"github.com/shopspring/decimal"
)

// prorationPlaces bounds the scale of an intermediate pro-rata share. The
// last slice of a lot or sell absorbs the rounding, so totals stay exact.
const prorationPlaces = 12

// discountHoldingDays is the minimum holding period for the CGT discount.
const discountHoldingDays = 365

// LotMatch is the portion of one buy lot consumed by one sell.
type LotMatch struct {
	Ticker            string
	BuyTransactionID  string
	SellTransactionID string
	BuyDate           time.Time
	SellDate          time.Time
	Quantity          int64
	CostBase          decimal.Decimal
	Proceeds          decimal.Decimal
	HoldingDays       int
	HeldOver12Months  bool
	RawGain           decimal.Decimal
	Discount          decimal.Decimal
	NetGain           decimal.Decimal

	sellTime time.Duration
	sellSeq  int
	slice    int
}

// openLot is a buy with units still unsold. cost is the cost base of the
// remaining units only.
type openLot struct {
	transactionID string
	buyDate       time.Time
	remaining     int64
	cost          decimal.Decimal
}

// lotQueue is a FIFO backed by one slice; head advances as lots are exhausted.
type lotQueue struct {
	lots []openLot
	head int
	open int64
}

func (q *lotQueue) push(l openLot) {
	q.lots = append(q.lots, l)
	q.open += l.remaining
}

func (q *lotQueue) front() *openLot {
	return &q.lots[q.head]
}

// consume removes n units from the front lot.
func (q *lotQueue) consume(n int64, cost decimal.Decimal) {
	lot := &q.lots[q.head]
	lot.remaining -= n
	lot.cost = lot.cost.Sub(cost)
	q.open -= n
	if lot.remaining > 0 {
		return
	}
	q.lots[q.head] = openLot{}
	q.head++
	switch {
	case q.head == len(q.lots):
		q.lots, q.head = q.lots[:0], 0
	case q.head > 32 && q.head*2 > len(q.lots):
		k := copy(q.lots, q.lots[q.head:])
		q.lots, q.head = q.lots[:k], 0
	}
}

// MatchTicker replays one ticker's ordered events and returns the lot
// matches in sell order. A sell larger than the open quantity fails the
// whole stream with an *OverconsumptionError.
func MatchTicker(ticker string, events []Event) ([]LotMatch, error) {
	var q lotQueue
	var matches []LotMatch

	for _, ev := range events {
		if ev.Action == Buy {
			q.push(openLot{
				transactionID: ev.TransactionID,
				buyDate:       ev.Date,
				remaining:     ev.Quantity,
				cost:          ev.Gross().Add(ev.Fee),
			})
			continue
		}

		if ev.Quantity > q.open {
			return nil, &OverconsumptionError{
				Ticker:        ticker,
				TransactionID: ev.TransactionID,
				SellDate:      ev.Date,
				Requested:     ev.Quantity,
				Available:     q.open,
			}
		}

		unmatched := ev.Quantity
		proceedsLeft := ev.Gross().Sub(ev.Fee)
		for slice := 0; unmatched > 0; slice++ {
			lot := q.front()
			take := min(lot.remaining, unmatched)
			cost := prorate(lot.cost, take, lot.remaining)
			proceeds := prorate(proceedsLeft, take, unmatched)
			days := holdingDays(lot.buyDate, ev.Date)

			matches = append(matches, LotMatch{
				Ticker:            ticker,
				BuyTransactionID:  lot.transactionID,
				SellTransactionID: ev.TransactionID,
				BuyDate:           lot.buyDate,
				SellDate:          ev.Date,
				Quantity:          take,
				CostBase:          cost,
				Proceeds:          proceeds,
				HoldingDays:       days,
				HeldOver12Months:  days >= discountHoldingDays,
				sellTime:          ev.Time,
				sellSeq:           ev.Seq,
				slice:             slice,
			})

			q.consume(take, cost)
			unmatched -= take
			proceedsLeft = proceedsLeft.Sub(proceeds)
		}
	}

	return matches, nil
}

// prorate returns part/whole of total. The full share is returned unchanged.
func prorate(total decimal.Decimal, part, whole int64) decimal.Decimal {
	if part == whole {
		return total
	}
	return total.Mul(decimal.NewFromInt(part)).DivRound(decimal.NewFromInt(whole), prorationPlaces)
}

// holdingDays counts calendar days between two dates at UTC midnight.
func holdingDays(buy, sell time.Time) int {
	return int(sell.Sub(buy) / (24 * time.Hour))
}

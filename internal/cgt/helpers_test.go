package cgt

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var txCounter int

func buy(ticker, date string, qty int64, price, fee string) Transaction {
	return trade(ticker, "buy", date, qty, price, fee)
}

func sell(ticker, date string, qty int64, price, fee string) Transaction {
	return trade(ticker, "sell", date, qty, price, fee)
}

func trade(ticker, action, date string, qty int64, price, fee string) Transaction {
	txCounter++
	value := decimal.RequireFromString(price).Mul(decimal.NewFromInt(qty))
	return Transaction{
		ID:       fmt.Sprintf("tx-%d", txCounter),
		Ticker:   ticker,
		Action:   action,
		Date:     date,
		Time:     "10:00:00",
		Quantity: qty,
		Price:    price,
		Value:    value.String(),
		Fee:      fee,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s %v", want, got, fmt.Sprint(msgAndArgs...))
}

func calculate(t *testing.T, opts Options, txs ...Transaction) *Report {
	t.Helper()
	report, err := NewCalculator(opts).Calculate(context.Background(), "user-1", txs)
	require.NoError(t, err)
	return report
}

package cgt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_OrdersStreams(t *testing.T) {
	late := buy("bhp", "2024-01-10", 5, "40", "0")
	late.Time = "15:30:00"
	early := buy("BHP", "2024-01-10", 10, "40", "0")
	early.Time = "09:00"
	first := buy("BHP", "2023-12-01", 1, "40", "0")
	sameMoment := buy("BHP", "2024-01-10", 7, "40", "0")
	sameMoment.Time = "15:30:00"
	other := buy("CBA", "2023-01-01", 1, "100", "0")

	txs := []Transaction{late, early, other, first, sameMoment}
	ledger, err := Normalize("u", txs)
	require.NoError(t, err)

	assert.Equal(t, []string{"BHP", "CBA"}, ledger.Tickers)
	assert.Equal(t, 5, ledger.Len())

	stream := ledger.Stream("BHP")
	require.Len(t, stream, 4)
	var ids []string
	for _, ev := range stream {
		ids = append(ids, ev.TransactionID)
	}
	assert.Equal(t, []string{first.ID, early.ID, late.ID, sameMoment.ID}, ids)
	assert.Equal(t, "bhp", txs[0].Ticker, "input must not be modified")
}

func TestNormalize_CollectsValidationErrors(t *testing.T) {
	badQty := buy("AAA", "2024-01-01", 0, "1", "0")
	badDate := buy("BBB", "2024-13-01", 1, "1", "0")
	badAction := trade("CCC", "transfer", "2024-01-01", 1, "1", "0")
	badFee := buy("DDD", "2024-01-01", 1, "1", "0")
	badFee.Fee = "-1"
	badPrice := buy("EEE", "2024-01-01", 1, "1", "0")
	badPrice.Price = "abc"
	badTime := buy("FFF", "2024-01-01", 1, "1", "0")
	badTime.Time = "25:99"
	noTicker := buy("  ", "2024-01-01", 1, "1", "0")
	ok := buy("GGG", "2024-01-01", 1, "1", "0")

	_, err := Normalize("u", []Transaction{badQty, badDate, badAction, badFee, badPrice, badTime, noTicker, ok})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 7)

	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"quantity", "date", "action", "fee", "price", "time", "ticker"}, fields)
	assert.Equal(t, badQty.ID, verrs[0].TransactionID)
	assert.Equal(t, "AAA", verrs[0].Ticker)
	assert.Equal(t, 1, verrs[1].Position)
}

func TestNormalize_RejectsOversell(t *testing.T) {
	txs := []Transaction{
		buy("AAA", "2024-01-01", 10, "1", "0"),
		sell("AAA", "2024-02-01", 15, "1", "0"),
	}

	_, err := Normalize("u", txs)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	var over *OverconsumptionError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, int64(15), over.Requested)
	assert.Equal(t, int64(10), over.Available)
	assert.True(t, errors.Is(err, ErrOverconsumption))
}

func TestNormalize_SellBeforeBuySameDayOrderedByTime(t *testing.T) {
	s := sell("AAA", "2024-01-01", 10, "1", "0")
	s.Time = "09:00:00"
	b := buy("AAA", "2024-01-01", 10, "1", "0")
	b.Time = "10:00:00"

	_, err := Normalize("u", []Transaction{b, s})
	require.ErrorIs(t, err, ErrOverconsumption)
}

func TestNormalize_SkipsHoldingsCheckForBrokenTicker(t *testing.T) {
	badBuy := buy("AAA", "2024-01-01", 10, "x", "0")
	s := sell("AAA", "2024-02-01", 10, "1", "0")

	_, err := Normalize("u", []Transaction{badBuy, s})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "price", verrs[0].Field)
}

func TestNormalize_Empty(t *testing.T) {
	ledger, err := Normalize("u", nil)
	require.NoError(t, err)
	assert.Empty(t, ledger.Tickers)
	assert.Zero(t, ledger.Len())
}

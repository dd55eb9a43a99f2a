package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tregeagle/finagle/internal/model"
)

const trades = `date,time,action,ticker,quantity,price,value,fee
2022-01-10,10:00:00,buy,NDQ,50,30,1500,0
2023-02-10,10:00:00,sell,NDQ,20,34,680,0
2023-08-10,10:00:00,sell,NDQ,30,25,750,0
`

func writeTrades(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runReport(t *testing.T, c *reportCmd) model.CGTOverview {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, c.run(context.Background(), &out, zerolog.Nop()))
	var doc model.CGTOverview
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	return doc
}

func TestReportCmd_Overview(t *testing.T) {
	doc := runReport(t, &reportCmd{file: writeTrades(t, trades), workers: 2, places: 2})

	require.Len(t, doc.FinancialYears, 2)
	assert.Equal(t, "2023-2024", doc.FinancialYears[0].FinancialYear)
	assert.Equal(t, "150.00", doc.FinancialYears[0].TotalLosses)
	assert.Equal(t, "2022-2023", doc.FinancialYears[1].FinancialYear)
	assert.Equal(t, "40.00", doc.FinancialYears[1].NetCapitalGain)
	assert.Empty(t, doc.FinancialYears[1].LotMatches)
}

func TestReportCmd_FinancialYear(t *testing.T) {
	doc := runReport(t, &reportCmd{file: writeTrades(t, trades), fy: "2022-23", workers: 1, places: 2})

	require.Len(t, doc.FinancialYears, 1)
	require.Len(t, doc.FinancialYears[0].LotMatches, 1)
	assert.Equal(t, int64(20), doc.FinancialYears[0].LotMatches[0].Quantity)
	assert.True(t, doc.FinancialYears[0].LotMatches[0].HeldOver12Months)
}

func TestReportCmd_CarryForward(t *testing.T) {
	content := `date,time,action,ticker,quantity,price,value,fee
2022-08-01,10:00:00,buy,AAA,10,100,1000,0
2022-09-01,10:00:00,sell,AAA,10,70,700,0
2023-08-01,10:00:00,buy,BBB,10,100,1000,0
2023-09-01,10:00:00,sell,BBB,10,150,1500,0
`
	doc := runReport(t, &reportCmd{file: writeTrades(t, content), carryForward: true, workers: 2, places: 2})

	require.Len(t, doc.FinancialYears, 2)
	assert.Equal(t, "200.00", doc.FinancialYears[0].NetCapitalGain)
	assert.Equal(t, "300.00", doc.FinancialYears[0].CarriedForwardLossApplied)
}

func TestReportCmd_Errors(t *testing.T) {
	t.Run("rejected rows", func(t *testing.T) {
		c := &reportCmd{file: writeTrades(t, "date,time,action,ticker,quantity,price,value,fee\n2023-01-01,,hold,X,1,1,1,0\n")}
		err := c.run(context.Background(), &bytes.Buffer{}, zerolog.Nop())
		assert.ErrorIs(t, err, errRejected)
	})

	t.Run("unknown year", func(t *testing.T) {
		c := &reportCmd{file: writeTrades(t, trades), fy: "2015-2016"}
		err := c.run(context.Background(), &bytes.Buffer{}, zerolog.Nop())
		assert.ErrorContains(t, err, "no disposals")
	})

	t.Run("malformed year", func(t *testing.T) {
		c := &reportCmd{file: writeTrades(t, trades), fy: "2015"}
		assert.Error(t, c.run(context.Background(), &bytes.Buffer{}, zerolog.Nop()))
	})

	t.Run("oversold file", func(t *testing.T) {
		c := &reportCmd{file: writeTrades(t, "date,time,action,ticker,quantity,price,value,fee\n2023-01-01,,sell,X,1,1,1,0\n")}
		assert.Error(t, c.run(context.Background(), &bytes.Buffer{}, zerolog.Nop()))
	})
}

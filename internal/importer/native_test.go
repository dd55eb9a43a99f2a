package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nativeCSV = "\xef\xbb\xbfdate,time,action,ticker,quantity,price,value,fee,contract_note\n" +
	"2024-01-10,10:00:00,buy,bhp,100,40.00,4000.00,9.95,CN-1\n" +
	"2024-06-15,14:30,SELL,BHP,100,50.00,5000.00,9.95,\n"

func TestNativeParser_Parse(t *testing.T) {
	p := NativeParser{}
	require.True(t, p.CanHandle("anything.txt", []byte(nativeCSV)))

	records, errs := p.Parse("trades.csv", []byte(nativeCSV))
	require.Empty(t, errs)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-01-10", records[0].Date)
	assert.Equal(t, "10:00:00", records[0].Time)
	assert.Equal(t, "buy", records[0].Action)
	assert.Equal(t, "BHP", records[0].Ticker)
	assert.Equal(t, int64(100), records[0].Quantity)
	assert.Equal(t, "40", records[0].Price.String())
	assert.Equal(t, "9.95", records[0].Fee.String())
	assert.Equal(t, "CN-1", records[0].ContractNote)

	assert.Equal(t, "14:30:00", records[1].Time)
	assert.Equal(t, "sell", records[1].Action)
	assert.Empty(t, records[1].ContractNote)
}

func TestNativeParser_ColumnOrderAndOptionalNote(t *testing.T) {
	content := "Ticker, Action ,DATE,time,quantity,price,value,fee\nVAS,buy,2024-01-10,09:00:00,5,90,450,0\n"

	records, errs := NativeParser{}.Parse("t.csv", []byte(content))
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "VAS", records[0].Ticker)
}

func TestNativeParser_RowErrors(t *testing.T) {
	content := "date,time,action,ticker,quantity,price,value,fee\n" +
		"2024-13-01,10:00:00,buy,BHP,100,40,4000,0\n" +
		"2024-01-10,nope,hold,,0,abc,4000,-1\n" +
		"\n" +
		"2024-01-10,10:00:00,buy,BHP,1.5,40,40,0\n"

	records, errs := NativeParser{}.Parse("t.csv", []byte(content))
	assert.Empty(t, records)
	assert.Equal(t, []string{
		"Row 2: invalid date '2024-13-01'",
		"Row 3: invalid time 'nope'",
		"Row 3: action must be 'buy' or 'sell', got 'hold'",
		"Row 3: ticker is required",
		"Row 3: quantity must be positive",
		"Row 3: invalid price 'abc'",
		"Row 3: fee cannot be negative",
		"Row 4: invalid quantity '1.5'",
	}, errs)
}

func TestNativeParser_MissingColumns(t *testing.T) {
	p := NativeParser{}
	content := []byte("date,action,ticker,quantity,price\n2024-01-10,buy,BHP,1,1\n")

	assert.False(t, p.CanHandle("t.csv", content))
	_, errs := p.Parse("t.csv", content)
	assert.Equal(t, []string{"Missing required columns: time, value, fee"}, errs)
}

func TestNativeParser_RejectsNonCSV(t *testing.T) {
	p := NativeParser{}
	assert.False(t, p.CanHandle("t.csv", nil))
	assert.False(t, p.CanHandle("t.xlsx", []byte{0x50, 0x4b, 0x03, 0x04, 0xff, 0xfe}))
}

func TestTemplate(t *testing.T) {
	content, err := Template()
	require.NoError(t, err)

	records, errs := NativeParser{}.Parse("template.csv", content)
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "VAS", records[0].Ticker)
}

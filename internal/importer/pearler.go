package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var pearlerHeaders = []string{"Symbol", "Exchange", "Trade Date", "Trade Type", "Quantity", "Price", "Brokerage Fee"}

// PearlerParser reads Pearler trade history CSV exports. Sells carry a
// negative quantity there, so quantities are taken as absolute values.
type PearlerParser struct{}

func (PearlerParser) Name() string { return "pearler" }

func (PearlerParser) CanHandle(filename string, content []byte) bool {
	if !hasSuffixFold(filename, ".csv") {
		return false
	}
	t, err := readCSV(content, strings.TrimSpace)
	if err != nil || len(t.header) < len(pearlerHeaders) {
		return false
	}
	header := make([]string, len(pearlerHeaders))
	for i := range header {
		header[i] = strings.TrimSpace(t.header[i])
	}
	return slices.Equal(header, pearlerHeaders)
}

func (PearlerParser) Parse(_ string, content []byte) ([]Record, []string) {
	t, err := readCSV(content, strings.TrimSpace)
	if err != nil {
		return nil, []string{err.Error()}
	}

	var records []Record
	var errs []string
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		rec, err := parsePearlerRow(t, row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+2, err))
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func parsePearlerRow(t *csvTable, row []string) (Record, error) {
	date, clock := t.get(row, "Trade Date"), "00:00:00"
	if d, c, ok := strings.Cut(date, "T"); ok {
		date, clock = d, c
	}
	if err := checkDate(date); err != nil {
		return Record{}, err
	}
	clock, err := normaliseClock(strings.TrimSuffix(clock, "Z"))
	if err != nil {
		return Record{}, err
	}

	qty, err := wholeUnits(t.get(row, "Quantity"))
	if err != nil {
		return Record{}, err
	}
	price, err := decimal.NewFromString(t.get(row, "Price"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid price %q", t.get(row, "Price"))
	}
	fee, err := decimal.NewFromString(t.get(row, "Brokerage Fee"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid brokerage fee %q", t.get(row, "Brokerage Fee"))
	}

	action := strings.ToLower(t.get(row, "Trade Type"))
	if action != "buy" && action != "sell" {
		return Record{}, fmt.Errorf("unsupported trade type %q", t.get(row, "Trade Type"))
	}

	ticker := strings.ToUpper(t.get(row, "Symbol"))
	if ticker == "" {
		return Record{}, fmt.Errorf("symbol is required")
	}

	return Record{
		Date:         date,
		Time:         clock,
		Action:       action,
		Ticker:       ticker,
		Quantity:     qty,
		Price:        price,
		Value:        price.Mul(decimal.NewFromInt(qty)),
		Fee:          fee,
		ContractNote: t.get(row, "Reference"),
	}, nil
}

package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NativeHeaders are the columns of the Finagle CSV template, in order.
var NativeHeaders = []string{"date", "time", "action", "ticker", "quantity", "price", "value", "fee", "contract_note"}

// NativeParser reads the Finagle CSV template. Column order does not matter
// and contract_note is optional.
type NativeParser struct{}

func (NativeParser) Name() string { return "native" }

func (NativeParser) CanHandle(_ string, content []byte) bool {
	t, err := readCSV(content, lowerTrim)
	if err != nil {
		return false
	}
	return len(missingNativeColumns(t)) == 0
}

func (NativeParser) Parse(_ string, content []byte) ([]Record, []string) {
	t, err := readCSV(content, lowerTrim)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if missing := missingNativeColumns(t); len(missing) > 0 {
		return nil, []string{"Missing required columns: " + strings.Join(missing, ", ")}
	}

	var records []Record
	var errs []string
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		rec, rowErrs := parseNativeRow(t, row, fmt.Sprintf("Row %d", i+2))
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func missingNativeColumns(t *csvTable) []string {
	var missing []string
	for _, h := range NativeHeaders {
		if h == "contract_note" {
			continue
		}
		if _, ok := t.index[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

func parseNativeRow(t *csvTable, row []string, prefix string) (Record, []string) {
	var errs []string
	rec := Record{
		Date:         t.get(row, "date"),
		Action:       strings.ToLower(t.get(row, "action")),
		Ticker:       strings.ToUpper(t.get(row, "ticker")),
		ContractNote: t.get(row, "contract_note"),
	}

	if _, err := time.Parse("2006-01-02", rec.Date); err != nil {
		errs = append(errs, fmt.Sprintf("%s: invalid date '%s'", prefix, rec.Date))
	}

	clock, err := normaliseClock(t.get(row, "time"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("%s: invalid time '%s'", prefix, t.get(row, "time")))
	}
	rec.Time = clock

	if rec.Action != "buy" && rec.Action != "sell" {
		errs = append(errs, fmt.Sprintf("%s: action must be 'buy' or 'sell', got '%s'", prefix, t.get(row, "action")))
	}

	if rec.Ticker == "" {
		errs = append(errs, fmt.Sprintf("%s: ticker is required", prefix))
	}

	q, err := strconv.ParseInt(t.get(row, "quantity"), 10, 64)
	switch {
	case err != nil:
		errs = append(errs, fmt.Sprintf("%s: invalid quantity '%s'", prefix, t.get(row, "quantity")))
	case q <= 0:
		errs = append(errs, fmt.Sprintf("%s: quantity must be positive", prefix))
	}
	rec.Quantity = q

	amounts := map[string]*decimal.Decimal{"price": &rec.Price, "value": &rec.Value, "fee": &rec.Fee}
	for _, field := range []string{"price", "value", "fee"} {
		raw := t.get(row, field)
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid %s '%s'", prefix, field, raw))
			continue
		}
		if d.IsNegative() {
			errs = append(errs, fmt.Sprintf("%s: %s cannot be negative", prefix, field))
			continue
		}
		*amounts[field] = d
	}

	return rec, errs
}

// normaliseClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS. A blank
// time is midnight.
func normaliseClock(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "00:00:00", nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

// Template returns the native CSV template with one example row.
func Template() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		NativeHeaders,
		{"2024-01-15", "10:30:00", "buy", "VAS", "100", "95.50", "9550.00", "9.95", ""},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}
	return buf.Bytes(), nil
}

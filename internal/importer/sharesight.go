package importer

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sharesightTitle = "All Trades Report"

var sharesightHeaders = []string{"Code", "Market Code", "Name", "Date", "Type", "Qty"}

// SharesightParser reads the Sharesight "All Trades Report" XLSX export:
// a title row, a blank row, the header row, then one trade per row and a
// closing "Total" row. Trades carry no time of day.
type SharesightParser struct{}

func (SharesightParser) Name() string { return "sharesight" }

func (SharesightParser) CanHandle(filename string, content []byte) bool {
	if !hasSuffixFold(filename, ".xlsx") {
		return false
	}
	rows, err := sharesightRows(content)
	if err != nil || len(rows) == 0 {
		return false
	}
	if len(rows[0]) > 0 && strings.Contains(rows[0][0], sharesightTitle) {
		return true
	}
	if len(rows) > 2 && len(rows[2]) >= len(sharesightHeaders) {
		header := make([]string, len(sharesightHeaders))
		for i := range header {
			header[i] = strings.TrimSpace(rows[2][i])
		}
		return slices.Equal(header, sharesightHeaders)
	}
	return false
}

func (SharesightParser) Parse(_ string, content []byte) ([]Record, []string) {
	rows, err := sharesightRows(content)
	if err != nil {
		return nil, []string{fmt.Sprintf("failed to read workbook: %v", err)}
	}
	if len(rows) < 4 {
		return nil, []string{"Sharesight file has no data rows"}
	}

	col := make(map[string]int, len(rows[2]))
	for i, name := range rows[2] {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range []string{"Code", "Date", "Type", "Qty", "Price", "Value", "Brokerage"} {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, []string{"Missing required columns: " + strings.Join(missing, ", ")}
	}

	cell := func(row []string, name string) string {
		if i := col[name]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var records []Record
	var errs []string
	for i, row := range rows[3:] {
		if blank(row) || strings.EqualFold(strings.TrimSpace(row[0]), "total") {
			continue
		}
		rec, err := parseSharesightRow(row, cell)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+4, err))
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

func parseSharesightRow(row []string, cell func([]string, string) string) (Record, error) {
	ticker := strings.ToUpper(cell(row, "Code"))
	if ticker == "" {
		return Record{}, fmt.Errorf("code is required")
	}

	action := strings.ToLower(cell(row, "Type"))
	if action != "buy" && action != "sell" {
		return Record{}, fmt.Errorf("unsupported trade type %q", cell(row, "Type"))
	}

	date, err := sharesightDate(cell(row, "Date"))
	if err != nil {
		return Record{}, err
	}

	qty, err := wholeUnits(cell(row, "Qty"))
	if err != nil {
		return Record{}, err
	}

	price, err := decimal.NewFromString(cell(row, "Price"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid price %q", cell(row, "Price"))
	}
	value, err := decimal.NewFromString(cell(row, "Value"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid value %q", cell(row, "Value"))
	}
	brokerage, err := decimal.NewFromString(cell(row, "Brokerage"))
	if err != nil {
		return Record{}, fmt.Errorf("invalid brokerage %q", cell(row, "Brokerage"))
	}

	return Record{
		Date:     date,
		Time:     "00:00:00",
		Action:   action,
		Ticker:   ticker,
		Quantity: qty,
		Price:    price,
		Value:    value.Abs(),
		Fee:      brokerage,
	}, nil
}

// sharesightDate accepts an ISO date or an Excel date serial.
func sharesightDate(raw string) (string, error) {
	if checkDate(raw) == nil {
		return raw, nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t.Format("2006-01-02"), nil
}

// sharesightRows returns the raw cell values of the first sheet.
func sharesightRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

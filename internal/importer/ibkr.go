package importer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// flexQueryResponse is the part of an Interactive Brokers Flex Query
// statement the importer reads. Every attribute stays a string so amounts
// never pass through floats.
type flexQueryResponse struct {
	XMLName        xml.Name `xml:"FlexQueryResponse"`
	FlexStatements struct {
		FlexStatement []struct {
			AccountID string `xml:"accountId,attr"`
			Trades    struct {
				Trade []flexTrade `xml:"Trade"`
			} `xml:"Trades"`
		} `xml:"FlexStatement"`
	} `xml:"FlexStatements"`
}

type flexTrade struct {
	AssetCategory string `xml:"assetCategory,attr"`
	LevelOfDetail string `xml:"levelOfDetail,attr"`
	Currency      string `xml:"currency,attr"`
	Symbol        string `xml:"symbol,attr"`
	Quantity      string `xml:"quantity,attr"`
	TradePrice    string `xml:"tradePrice,attr"`
	IBCommission  string `xml:"ibCommission,attr"`
	TradeDate     string `xml:"tradeDate,attr"`
	DateTime      string `xml:"dateTime,attr"`
	BuySell       string `xml:"buySell,attr"`
	TransactionID string `xml:"transactionID,attr"`
}

// IBKRParser reads Interactive Brokers Flex Query XML statements. Only
// stock executions are imported; cash conversions and summary lines are
// skipped. Commissions are reported as negative amounts and sells as
// negative quantities, so both are taken as absolute values.
type IBKRParser struct{}

func (IBKRParser) Name() string { return "ibkr" }

func (IBKRParser) CanHandle(filename string, content []byte) bool {
	return hasSuffixFold(filename, ".xml") && bytes.Contains(content, []byte("<FlexQueryResponse"))
}

func (IBKRParser) Parse(_ string, content []byte) ([]Record, []string) {
	var resp flexQueryResponse
	if err := xml.Unmarshal(content, &resp); err != nil {
		return nil, []string{fmt.Sprintf("invalid Flex Query XML: %v", err)}
	}

	var records []Record
	var errs []string
	n := 0
	for _, stmt := range resp.FlexStatements.FlexStatement {
		for _, trade := range stmt.Trades.Trade {
			if !importable(trade) {
				continue
			}
			n++
			rec, err := parseFlexTrade(trade)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Trade %d: %v", n, err))
				continue
			}
			records = append(records, rec)
		}
	}
	return records, errs
}

func importable(t flexTrade) bool {
	if t.AssetCategory != "" && t.AssetCategory != "STK" {
		return false
	}
	return t.LevelOfDetail == "" || t.LevelOfDetail == "EXECUTION"
}

func parseFlexTrade(t flexTrade) (Record, error) {
	if t.Currency != "" && t.Currency != "AUD" {
		return Record{}, fmt.Errorf("%s traded in %s, only AUD is supported", t.Symbol, t.Currency)
	}

	date, clock, err := flexDateTime(t.TradeDate, t.DateTime)
	if err != nil {
		return Record{}, err
	}

	var action string
	switch strings.ToUpper(strings.TrimSpace(t.BuySell)) {
	case "BUY":
		action = "buy"
	case "SELL":
		action = "sell"
	default:
		return Record{}, fmt.Errorf("unsupported buySell %q", t.BuySell)
	}

	qty, err := wholeUnits(t.Quantity)
	if err != nil {
		return Record{}, err
	}
	price, err := decimal.NewFromString(t.TradePrice)
	if err != nil {
		return Record{}, fmt.Errorf("invalid tradePrice %q", t.TradePrice)
	}
	fee := decimal.Zero
	if strings.TrimSpace(t.IBCommission) != "" {
		if fee, err = decimal.NewFromString(t.IBCommission); err != nil {
			return Record{}, fmt.Errorf("invalid ibCommission %q", t.IBCommission)
		}
	}

	ticker := strings.ToUpper(strings.TrimSpace(t.Symbol))
	if ticker == "" {
		return Record{}, fmt.Errorf("symbol is required")
	}

	var note string
	if t.TransactionID != "" {
		note = "IBKR " + t.TransactionID
	}

	return Record{
		Date:         date,
		Time:         clock,
		Action:       action,
		Ticker:       ticker,
		Quantity:     qty,
		Price:        price,
		Value:        price.Mul(decimal.NewFromInt(qty)),
		Fee:          fee.Abs(),
		ContractNote: note,
	}, nil
}

// flexDateTime reads the compact yyyyMMdd and yyyyMMdd;HHmmss forms Flex
// Queries use by default, falling back to ISO dates.
func flexDateTime(tradeDate, dateTime string) (string, string, error) {
	if d, c, ok := strings.Cut(dateTime, ";"); ok {
		day, err1 := time.Parse("20060102", d)
		clock, err2 := time.Parse("150405", c)
		if err1 == nil && err2 == nil {
			return day.Format("2006-01-02"), clock.Format("15:04:05"), nil
		}
	}
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if day, err := time.Parse(layout, tradeDate); err == nil {
			return day.Format("2006-01-02"), "00:00:00", nil
		}
	}
	return "", "", fmt.Errorf("invalid tradeDate %q", tradeDate)
}

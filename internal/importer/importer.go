// Package importer parses broker export files into ledger records.
//
// Parsers are tried in registration order; the first whose CanHandle accepts
// the file parses it. A parser reports per-row problems as messages rather
// than failing on the first one, so a user can fix a whole file at once.
package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnrecognised is returned when no parser accepts a file.
var ErrUnrecognised = errors.New("unrecognised file format")

// Record is one parsed trade, ready to be stored.
type Record struct {
	Date         string // YYYY-MM-DD
	Time         string // HH:MM:SS
	Action       string // buy or sell
	Ticker       string
	Quantity     int64
	Price        decimal.Decimal
	Value        decimal.Decimal
	Fee          decimal.Decimal
	ContractNote string
}

// Parser understands one file format.
type Parser interface {
	Name() string
	CanHandle(filename string, content []byte) bool
	Parse(filename string, content []byte) ([]Record, []string)
}

// Result is the outcome of parsing one file.
type Result struct {
	Parser  string
	Records []Record
	Errors  []string
}

// Registry holds parsers in priority order.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry trying parsers in the given order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// Default returns the registry used by the server: the native template
// first, then Sharesight, Pearler and Interactive Brokers exports.
func Default() *Registry {
	return NewRegistry(NativeParser{}, SharesightParser{}, PearlerParser{}, IBKRParser{})
}

// Parse hands the file to the first parser that accepts it.
func (r *Registry) Parse(filename string, content []byte) (Result, error) {
	for _, p := range r.parsers {
		if !p.CanHandle(filename, content) {
			continue
		}
		records, errs := p.Parse(filename, content)
		return Result{Parser: p.Name(), Records: records, Errors: errs}, nil
	}
	return Result{}, ErrUnrecognised
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/tregeagle/finagle/internal/cgt"
	"github.com/tregeagle/finagle/internal/importer"
	"github.com/tregeagle/finagle/internal/logger"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/report"
)

type reportCmd struct {
	file         string
	fy           string
	matches      bool
	carryForward bool
	workers      int
	places       int
	logLevel     string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the CGT report of a broker export as JSON" }
func (*reportCmd) Usage() string {
	return `finagle-cgt report -file <trades> [-fy YYYY-YYYY] [-matches] [-carry-forward]

  Parses a native CSV, Sharesight XLSX, Pearler CSV or Interactive Brokers
  Flex Query XML file and prints the capital gains of every financial year,
  most recent first.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "broker export to read")
	f.StringVar(&c.fy, "fy", "", "only this financial year, with its lot matches")
	f.BoolVar(&c.matches, "matches", false, "include lot matches for every year")
	f.BoolVar(&c.carryForward, "carry-forward", false, "carry net capital losses into later years")
	f.IntVar(&c.workers, "workers", 4, "tickers matched concurrently")
	f.IntVar(&c.places, "places", report.DefaultDecimalPlaces, "decimal places in amounts")
	f.StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		return subcommands.ExitUsageError
	}

	log := logger.New(logger.Config{Level: c.logLevel, Pretty: true, Output: os.Stderr})
	if err := c.run(ctx, os.Stdout, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errRejected reports a file the importer parsed with row errors.
var errRejected = errors.New("file rejected")

func (c *reportCmd) run(ctx context.Context, out io.Writer, log zerolog.Logger) error {
	var fy cgt.FinancialYear
	if c.fy != "" {
		var err error
		if fy, err = cgt.ParseFinancialYear(c.fy); err != nil {
			return err
		}
	}

	content, err := os.ReadFile(c.file)
	if err != nil {
		return err
	}

	parsed, err := importer.Default().Parse(filepath.Base(c.file), content)
	if err != nil {
		return err
	}
	if len(parsed.Errors) > 0 {
		for _, msg := range parsed.Errors {
			log.Error().Str("file", c.file).Msg(msg)
		}
		return fmt.Errorf("%w: %d problems", errRejected, len(parsed.Errors))
	}
	log.Info().Str("parser", parsed.Parser).Int("records", len(parsed.Records)).Msg("file parsed")

	calc := cgt.NewCalculator(cgt.Options{Workers: c.workers, CarryForwardLosses: c.carryForward})
	rep, err := calc.Calculate(ctx, "cli", ledger(parsed.Records))
	if err != nil {
		return err
	}

	projector := report.NewProjector(c.places)
	var doc model.CGTOverview
	switch {
	case c.fy != "":
		var ok bool
		if doc, ok = projector.Detail(rep, fy); !ok {
			return fmt.Errorf("no disposals in financial year %s", fy)
		}
	case c.matches:
		doc = projector.Full(rep)
	default:
		doc = projector.Overview(rep)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ledger numbers records by their position in the file.
func ledger(records []importer.Record) []cgt.Transaction {
	txs := make([]cgt.Transaction, len(records))
	for i, r := range records {
		txs[i] = cgt.Transaction{
			ID:       fmt.Sprintf("record %d", i+1),
			Ticker:   r.Ticker,
			Action:   r.Action,
			Date:     r.Date,
			Time:     r.Time,
			Quantity: r.Quantity,
			Price:    r.Price.String(),
			Value:    r.Value.String(),
			Fee:      r.Fee.String(),
		}
	}
	return txs
}

// Package cgt computes Australian capital gains tax from a buy/sell ledger.
//
// The pipeline runs in four stages:
//
//	Normalize    raw transactions -> validated per-ticker event streams
//	MatchTicker  event stream -> FIFO lot matches
//	Enrich       lot matches -> raw gain, 50% discount, net gain
//	Aggregate    lot matches -> per financial year summaries
//
// Calculator wires the stages together and matches tickers concurrently.
// All money arithmetic uses github.com/shopspring/decimal; no floats are
// involved at any point, so identical input always produces an identical
// report.
package cgt

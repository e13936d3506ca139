// Package models defines the shared data types for institutional
// holdings tracking: funds, filings, holdings, and per-quarter results.
package models

import "time"

// Fund is one tracked institutional investment manager.
// The registry of funds is static and defined at process start.
type Fund struct {
	Name string `json:"name"`
	CIK  string `json:"cik"` // zero-padded to 10 digits
}

// FilingRecord is one row from a filer's submissions directory.
// Ephemeral: produced by the directory client, never persisted standalone.
type FilingRecord struct {
	Form       string `json:"form"`
	Accession  string `json:"accession"`
	FilingDate string `json:"filing_date"` // YYYY-MM-DD
	Period     string `json:"period"`      // report period end, YYYY-MM-DD
	PrimaryDoc string `json:"primary_doc"`
}

// ChangeClass describes how a holding moved relative to the prior quarter.
type ChangeClass string

const (
	ChangeNew       ChangeClass = "new"
	ChangeIncreased ChangeClass = "increased"
	ChangeReduced   ChangeClass = "reduced"
	ChangeUnchanged ChangeClass = "unchanged"
	ChangeUnknown   ChangeClass = "unknown"
)

// Priority orders classifications for merge conflicts: when two rows of the
// same company (different share classes) disagree, the higher wins.
func (c ChangeClass) Priority() int {
	switch c {
	case ChangeIncreased:
		return 4
	case ChangeReduced:
		return 3
	case ChangeNew:
		return 2
	case ChangeUnchanged:
		return 1
	default:
		return 0
	}
}

// Holding is one position within a fund's quarterly disclosure.
// Values are reported by EDGAR in thousands of dollars.
type Holding struct {
	CUSIP          string      `json:"cusip"`
	Name           string      `json:"name"`
	Ticker         string      `json:"ticker,omitempty"`
	Shares         int64       `json:"shares"`
	ValueThousands int64       `json:"value_thousands"`
	ValueMillions  float64     `json:"value_millions"`
	Rank           int         `json:"rank,omitempty"`
	PctPortfolio   float64     `json:"pct_portfolio"`
	Change         ChangeClass `json:"change,omitempty"`
	ChangePct      *float64    `json:"change_pct,omitempty"`
}

// QuarterSnapshot is the processed holdings state for one fund for one
// report period. Created once per refresh cycle, immutable afterward.
type QuarterSnapshot struct {
	Period             string    `json:"period"`
	FilingDate         string    `json:"filing_date"`
	Holdings           []Holding `json:"holdings"` // top-N by value
	TotalHoldings      int       `json:"total_holdings"`
	TotalValueMillions float64   `json:"total_value_millions"`
}

// FundResult is the per-fund output of one refresh cycle: the latest
// quarter's fields flattened for convenience plus up to four quarters of
// history, newest first. Error is set when the fetch failed entirely so
// callers can tell "no holdings" from "fetch failed".
type FundResult struct {
	CIK                string            `json:"cik"`
	FilingDate         string            `json:"filing_date,omitempty"`
	Period             string            `json:"period_of_report,omitempty"`
	Holdings           []Holding         `json:"holdings,omitempty"`
	TotalHoldings      int               `json:"total_holdings"`
	TotalValueMillions float64           `json:"total_value_millions"`
	Quarters           []QuarterSnapshot `json:"quarters,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// SymbolHolding is one match from a cross-fund symbol scan; matches are
// grouped by fund name in the scan result.
type SymbolHolding struct {
	Period  string  `json:"period"`
	Holding Holding `json:"holding"`
}

// Snapshot is the persisted cache payload: every fund's result plus the
// time the refresh cycle that produced it completed.
type Snapshot struct {
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]*FundResult `json:"data"`
}

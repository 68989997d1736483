// Package types defines core data structures for the route scout.
package types

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// UnknownLabel is reported for offers whose venue is not labeled.
const UnknownLabel = "Unknown"

// Offer is a single conversion offer returned by a quote source.
// Amounts are in atomic units of the respective mint.
type Offer struct {
	Label          string  `json:"label,omitempty"`
	InAmount       uint64  `json:"in_amount"`
	OutAmount      uint64  `json:"out_amount"`
	WorstOutAmount uint64  `json:"worst_out_amount"` // Minimum out under the requested slippage
	PriceImpact    float64 `json:"price_impact"`     // Fraction, 0.01 = 1%
}

// BestOffer is the winning offer of a hop, converted to display units.
type BestOffer struct {
	Index          int     `json:"index"`
	Label          string  `json:"label"`
	InAmount       float64 `json:"in_amount"`
	OutAmount      float64 `json:"out_amount"`
	WorstOutAmount float64 `json:"worst_out_amount"`
	PriceImpactPct float64 `json:"price_impact_pct"`
	Rate           float64 `json:"rate"`
}

// HopQuote is the evaluation of one directed swap between two mints.
type HopQuote struct {
	From       solana.PublicKey `json:"from"`
	To         solana.PublicKey `json:"to"`
	OfferCount int              `json:"offer_count"`
	Best       *BestOffer       `json:"best,omitempty"` // nil when no offers were returned
	Rate       float64          `json:"rate"`           // 0 means the hop is unusable
}

// Usable reports whether the hop produced a positive rate.
func (h *HopQuote) Usable() bool {
	return h != nil && h.Rate > 0
}

// Header returns the hop's report header line.
func (h *HopQuote) Header() string {
	return fmt.Sprintf("Received %d quotes between %s and %s:\n", h.OfferCount, h.From, h.To)
}

// Detail returns the one-line description of the winning offer, or "" when
// the hop has no offers.
func (h *HopQuote) Detail() string {
	if h.Best == nil {
		return ""
	}
	b := h.Best
	return fmt.Sprintf("%d. %v %s for %v %s via %s (worst case with slippage: %v). Impact: %.2f%% (rate: %v)\n",
		b.Index, b.InAmount, h.From, b.OutAmount, h.To, b.Label, b.WorstOutAmount, b.PriceImpactPct, b.Rate)
}

// ScoredRoute is a route together with its valuation and report.
type ScoredRoute struct {
	Path      []solana.PublicKey `json:"path"`
	Hops      []*HopQuote        `json:"hops"`
	Valuation float64            `json:"valuation"` // Product of hop rates
	Report    string             `json:"report"`
}

// FindResult is the outcome of one route search.
type FindResult struct {
	Start      solana.PublicKey `json:"start"`
	End        solana.PublicKey `json:"end"`
	MaxHops    int              `json:"max_hops"`
	Baseline   *ScoredRoute     `json:"baseline"`
	Candidates int              `json:"candidates"`
	Retained   []*ScoredRoute   `json:"retained"`
	Discarded  int              `json:"discarded"`
	StartedAt  time.Time        `json:"started_at"`
	Duration   time.Duration    `json:"duration"`
}

// RunStats holds statistics across repeated searches.
type RunStats struct {
	StartTime       time.Time `json:"start_time"`
	TotalRuns       int64     `json:"total_runs"`
	CandidatesTotal int64     `json:"candidates_total"`
	RetainedTotal   int64     `json:"retained_total"`
	LastRunTime     time.Time `json:"last_run_time"`
	LastRunDuration int64     `json:"last_run_duration_ms"`
	Errors          int64     `json:"errors"`
}

package nexus

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// WarningKind classifies non-fatal conditions surfaced by a run.
type WarningKind string

const (
	WarningMissingConfig       WarningKind = "configuration_missing"
	WarningUnsupportedStrategy WarningKind = "unsupported_strategy"
	WarningCalculationFailure  WarningKind = "calculation_failure"
	WarningSuspectRate         WarningKind = "suspect_rate"
)

// Warning reports a degraded condition for one jurisdiction. Warnings never
// abort the run; unaffected jurisdictions compute normally.
type Warning struct {
	JurisdictionCode string      `json:"jurisdiction_code"`
	Year             int         `json:"year,omitempty"`
	Kind             WarningKind `json:"kind"`
	Message          string      `json:"message"`
}

// Snapshot is the read-only jurisdiction configuration for one run, loaded
// once and treated as immutable so results are reproducible. Map entries are
// the "current" config rows (no superseding end date).
type Snapshot struct {
	JurisdictionCodes []string
	Thresholds        map[string]*domain.ThresholdRule
	Rates             map[string]*domain.TaxRateConfig
	Marketplace       map[string]*domain.MarketplaceFacilitatorRule
	InterestPenalty   map[string]*domain.InterestPenaltyConfig
	PhysicalNexus     map[string]time.Time
}

// Input is everything a run consumes. The engine never touches storage or
// the network; the caller supplies plain values.
type Input struct {
	Transactions []domain.Transaction
	Config       Snapshot
	Cutoff       time.Time
}

// Output is the full regenerated result set plus run warnings, ordered by
// jurisdiction code then year.
type Output struct {
	Results  []domain.YearResult
	Warnings []Warning
}

// Engine computes nexus determinations and liability. Per-jurisdiction work
// shares no mutable state, so it fans out across a bounded worker pool.
type Engine struct {
	workers int
}

// NewEngine creates an engine with the given worker count (minimum 1).
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// Run executes one full analysis: every known jurisdiction appears in the
// output exactly once per year present in its data, or once as a synthesized
// zero-sales row when it has no transactions.
func (e *Engine) Run(in Input) Output {
	byCode := groupByJurisdiction(in.Transactions)

	codes := make([]string, 0, len(in.Config.JurisdictionCodes))
	seen := make(map[string]bool, len(in.Config.JurisdictionCodes))
	for _, code := range in.Config.JurisdictionCodes {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for code := range byCode {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	type slot struct {
		results  []domain.YearResult
		warnings []Warning
	}
	slots := make([]slot, len(codes))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				code := codes[i]
				results, warnings := computeJurisdiction(code, byCode[code], &in.Config, in.Cutoff)
				slots[i] = slot{results: results, warnings: warnings}
			}
		}()
	}
	for i := range codes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var out Output
	for i := range slots {
		out.Results = append(out.Results, slots[i].results...)
		out.Warnings = append(out.Warnings, slots[i].warnings...)
	}
	return out
}

// groupByJurisdiction splits transactions per jurisdiction and sorts each
// slice by date, with ingestion order breaking ties for determinism.
func groupByJurisdiction(txns []domain.Transaction) map[string][]domain.Transaction {
	byCode := make(map[string][]domain.Transaction)
	for i := range txns {
		code := txns[i].JurisdictionCode
		byCode[code] = append(byCode[code], txns[i])
	}
	for code := range byCode {
		slice := byCode[code]
		sort.SliceStable(slice, func(a, b int) bool {
			if !slice[a].Date.Equal(slice[b].Date) {
				return slice[a].Date.Before(slice[b].Date)
			}
			return slice[a].Seq < slice[b].Seq
		})
	}
	return byCode
}

// CheckInvariants verifies the cross-result accounting identities on a result
// set and returns a descriptive error for the first violation. Used by tests
// and the analysis service as a final guard before persisting.
func CheckInvariants(results []domain.YearResult) error {
	for i := range results {
		r := &results[i]
		expected := r.BaseTax.Add(r.Interest).Add(r.PenaltyBreakdown.Total())
		if !r.EstimatedLiability.Equal(expected) {
			return fmt.Errorf("%s/%d: estimated liability %s != base+interest+penalties %s",
				r.JurisdictionCode, r.Year, r.EstimatedLiability, expected)
		}
		if r.ExposureSales.GreaterThan(r.TaxableSales) || r.TaxableSales.GreaterThan(r.GrossSales) {
			return fmt.Errorf("%s/%d: exposure %s <= taxable %s <= gross %s violated",
				r.JurisdictionCode, r.Year, r.ExposureSales, r.TaxableSales, r.GrossSales)
		}
		if r.EstimatedLiability.LessThan(decimal.Zero) {
			return fmt.Errorf("%s/%d: negative liability %s", r.JurisdictionCode, r.Year, r.EstimatedLiability)
		}
	}
	return nil
}

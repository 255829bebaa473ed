package nexus

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// VDAInput carries a baseline result set and the program terms needed to
// reprice it under a voluntary-disclosure scenario. An empty Jurisdictions
// selection covers every jurisdiction in the baseline. Cutoff is the interest
// accrual end date of the underlying run; a zero Cutoff falls back to the
// filing date.
type VDAInput struct {
	Baseline        []domain.YearResult
	Jurisdictions   []string
	FilingDate      time.Time
	Cutoff          time.Time
	Rules           map[string]domain.VDAProgramRules
	InterestConfigs map[string]*domain.InterestPenaltyConfig
}

// VDAJurisdictionOutcome compares one jurisdiction's exposure under a standard
// audit assessment against a voluntary-disclosure agreement.
type VDAJurisdictionOutcome struct {
	JurisdictionCode  string          `json:"jurisdiction_code"`
	StandardLiability decimal.Decimal `json:"standard_liability"`
	BaseTax           decimal.Decimal `json:"base_tax"`
	Interest          decimal.Decimal `json:"interest"`
	Penalties         decimal.Decimal `json:"penalties"`
	VDALiability      decimal.Decimal `json:"vda_liability"`
	Savings           decimal.Decimal `json:"savings"`
	YearsIncluded     []int           `json:"years_included"`
	// YearsTruncated lists years whose interest was recomputed from the
	// lookback boundary instead of the true obligation start.
	YearsTruncated []int `json:"years_truncated,omitempty"`
}

// VDAOutcome is the full scenario comparison across selected jurisdictions.
type VDAOutcome struct {
	FilingDate    time.Time                `json:"filing_date"`
	Jurisdictions []VDAJurisdictionOutcome `json:"jurisdictions"`
	TotalStandard decimal.Decimal          `json:"total_standard"`
	TotalVDA      decimal.Decimal          `json:"total_vda"`
	TotalSavings  decimal.Decimal          `json:"total_savings"`
}

// ComputeVDAScenario reprices a baseline result set under voluntary-disclosure
// program terms. Per jurisdiction: base tax is aggregated across every year,
// the waiver flags zero out interest and penalty components, and a configured
// lookback limit truncates interest accrual only. When a year's obligation
// start predates filing-date minus lookback months, that year's interest is
// recomputed from the lookback boundary; its base tax is untouched, since the
// program limits liability recency, not economic exposure. Jurisdictions with
// no program rules keep their full standard assessment under the scenario.
func ComputeVDAScenario(in VDAInput) VDAOutcome {
	byCode := make(map[string][]domain.YearResult)
	for i := range in.Baseline {
		code := in.Baseline[i].JurisdictionCode
		byCode[code] = append(byCode[code], in.Baseline[i])
	}

	selected := in.Jurisdictions
	if len(selected) == 0 {
		for code := range byCode {
			selected = append(selected, code)
		}
	}
	sort.Strings(selected)

	out := VDAOutcome{
		FilingDate:    in.FilingDate,
		TotalStandard: decimal.Zero,
		TotalVDA:      decimal.Zero,
		TotalSavings:  decimal.Zero,
	}
	for _, code := range selected {
		results := byCode[code]
		if len(results) == 0 {
			continue
		}
		jur := repriceJurisdiction(code, results, in)
		out.TotalStandard = out.TotalStandard.Add(jur.StandardLiability)
		out.TotalVDA = out.TotalVDA.Add(jur.VDALiability)
		out.Jurisdictions = append(out.Jurisdictions, jur)
	}
	out.TotalSavings = out.TotalStandard.Sub(out.TotalVDA)
	return out
}

func repriceJurisdiction(code string, results []domain.YearResult, in VDAInput) VDAJurisdictionOutcome {
	program, hasProgram := in.Rules[code]

	jur := VDAJurisdictionOutcome{
		JurisdictionCode:  code,
		StandardLiability: decimal.Zero,
		BaseTax:           decimal.Zero,
		Interest:          decimal.Zero,
		Penalties:         decimal.Zero,
	}

	var lookbackStart time.Time
	if hasProgram && program.LookbackMonths > 0 {
		lookbackStart = in.FilingDate.AddDate(0, -program.LookbackMonths, 0)
	}
	cutoff := in.Cutoff
	if cutoff.IsZero() {
		cutoff = in.FilingDate
	}

	for i := range results {
		r := &results[i]
		jur.StandardLiability = jur.StandardLiability.Add(r.EstimatedLiability)
		jur.YearsIncluded = append(jur.YearsIncluded, r.Year)

		// Lookback never reduces base tax.
		jur.BaseTax = jur.BaseTax.Add(r.BaseTax)

		jur.Interest = jur.Interest.Add(repriceInterest(r, code, program, hasProgram, lookbackStart, cutoff, &jur, in))

		if !hasProgram || !program.PenaltiesWaived {
			jur.Penalties = jur.Penalties.Add(r.PenaltyBreakdown.Total())
		}
	}

	jur.VDALiability = jur.BaseTax.Add(jur.Interest).Add(jur.Penalties)
	jur.Savings = jur.StandardLiability.Sub(jur.VDALiability)
	return jur
}

// repriceInterest resolves one year's interest under the program: waived,
// recomputed from the truncated start, or kept as assessed. When recomputation
// is impossible (no interest config, or the accrual itself fails) the standard
// interest stands; overstating is safer than silently zeroing.
func repriceInterest(r *domain.YearResult, code string, program domain.VDAProgramRules, hasProgram bool, lookbackStart, cutoff time.Time, jur *VDAJurisdictionOutcome, in VDAInput) decimal.Decimal {
	if hasProgram && program.InterestWaived {
		return decimal.Zero
	}
	if lookbackStart.IsZero() || r.ObligationStart == nil || !r.ObligationStart.Before(lookbackStart) {
		return r.Interest
	}
	cfg := in.InterestConfigs[code]
	if cfg == nil {
		return r.Interest
	}
	recomputed, err := ComputeInterest(r.BaseTax, lookbackStart, cutoff, &cfg.Interest)
	if err != nil {
		return r.Interest
	}
	jur.YearsTruncated = append(jur.YearsTruncated, r.Year)
	return recomputed
}

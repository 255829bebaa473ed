package nexus

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// computeJurisdiction runs the full multi-year determination for a single
// jurisdiction: sticky economic nexus across years, physical-presence merge,
// sales aggregation, and liability accrual. Transactions must be sorted by
// date. A jurisdiction with no transactions still yields one zero-sales row
// for the cutoff year so it is visible in the output.
func computeJurisdiction(code string, txns []domain.Transaction, snap *Snapshot, cutoff time.Time) ([]domain.YearResult, []Warning) {
	var warnings []Warning

	threshold := snap.Thresholds[code]
	rate := snap.Rates[code]
	ipCfg := snap.InterestPenalty[code]
	physicalDate, hasPhysical := snap.PhysicalNexus[code]

	excludeMarketplace := true
	if mkt, ok := snap.Marketplace[code]; ok {
		excludeMarketplace = mkt.ExcludeFromLiability
	}

	var strategy Strategy
	if threshold != nil {
		var known bool
		strategy, known = ForRule(threshold)
		if !known {
			warnings = append(warnings, Warning{
				JurisdictionCode: code,
				Kind:             WarningUnsupportedStrategy,
				Message:          fmt.Sprintf("unknown lookback strategy %q, using %s", threshold.LookbackStrategy, strategy.Name()),
			})
		}
	} else {
		warnings = append(warnings, Warning{
			JurisdictionCode: code,
			Kind:             WarningMissingConfig,
			Message:          "no threshold rule configured, economic nexus not evaluated",
		})
	}
	if threshold != nil && threshold.LookbackStrategy == domain.StrategyFixedAnniversary && !validAnniversary(threshold) {
		warnings = append(warnings, Warning{
			JurisdictionCode: code,
			Kind:             WarningMissingConfig,
			Message:          fmt.Sprintf("fixed-anniversary window misconfigured (month %d, day %d), using a calendar-year window", threshold.AnniversaryMonth, threshold.AnniversaryDay),
		})
	}
	if rate != nil && rate.CombinedRate.GreaterThan(decimal.NewFromInt(1)) {
		warnings = append(warnings, Warning{
			JurisdictionCode: code,
			Kind:             WarningSuspectRate,
			Message:          fmt.Sprintf("combined rate %s exceeds 1; rates are fractions, not percentages", rate.CombinedRate),
		})
	}

	years := distinctYears(txns)
	if len(years) == 0 {
		years = []int{cutoff.Year()}
	}

	rateWarned := false
	var firstEconYear *int
	var firstEconDate *time.Time
	var results []domain.YearResult

	for _, year := range years {
		yearTxns := windowTxns(txns, janFirst(year), janFirst(year+1))
		r := domain.YearResult{
			JurisdictionCode: code,
			Year:             year,
			NexusType:        domain.NexusNone,
			PenaltyBreakdown: domain.PenaltyBreakdown{},
			TransactionCount: len(yearTxns),
		}
		sumYearSales(&r, yearTxns)

		// Economic nexus: once established it is sticky, every later year
		// obligates from January 1 without re-testing the threshold.
		var hasEconomic bool
		var econObligation time.Time
		if firstEconYear != nil && *firstEconYear < year {
			hasEconomic = true
			econObligation = janFirst(year)
			r.NexusDate = firstEconDate
		} else if strategy != nil {
			det := strategy.Evaluate(txns, year, threshold)
			if det.HasNexus {
				hasEconomic = true
				econObligation = det.ObligationStart
				nexusDate := det.NexusDate
				r.NexusDate = &nexusDate
				if firstEconYear == nil {
					y := year
					firstEconYear = &y
					firstEconDate = &nexusDate
				}
			}
		}

		physicalThisYear := hasPhysical && physicalDate.Year() <= year

		switch {
		case hasEconomic && physicalThisYear:
			r.NexusType = domain.NexusBoth
		case hasEconomic:
			r.NexusType = domain.NexusEconomic
		case physicalThisYear:
			r.NexusType = domain.NexusPhysical
		}

		if r.NexusType != domain.NexusNone {
			obligation := obligationStart(hasEconomic, econObligation, physicalThisYear, year)
			r.ObligationStart = &obligation
			if physicalThisYear && r.NexusDate == nil {
				d := dateOnly(physicalDate)
				r.NexusDate = &d
			}
			fn := firstNexusYear(firstEconYear, hasPhysical, physicalDate)
			r.FirstNexusYear = &fn

			if rate == nil {
				if !rateWarned {
					rateWarned = true
					warnings = append(warnings, Warning{
						JurisdictionCode: code,
						Kind:             WarningMissingConfig,
						Message:          "no tax rate configured, liability not computed",
					})
				}
			} else {
				warnings = append(warnings, computeLiability(&r, yearTxns, obligation, cutoff, rate, ipCfg, excludeMarketplace)...)
			}
		}

		r.EstimatedLiability = r.BaseTax.Add(r.Interest).Add(r.PenaltyBreakdown.Total())
		results = append(results, r)
	}
	return results, warnings
}

// sumYearSales fills the per-year sales aggregates from the year's
// transactions. Gross covers every channel; taxable uses the derived taxable
// amount per transaction.
func sumYearSales(r *domain.YearResult, yearTxns []domain.Transaction) {
	gross, taxable := decimal.Zero, decimal.Zero
	direct, marketplace := decimal.Zero, decimal.Zero
	for i := range yearTxns {
		t := &yearTxns[i]
		gross = gross.Add(t.GrossAmount)
		taxable = taxable.Add(t.TaxableAmount())
		switch t.Channel {
		case domain.ChannelMarketplace:
			marketplace = marketplace.Add(t.GrossAmount)
		default:
			direct = direct.Add(t.GrossAmount)
		}
	}
	r.GrossSales = gross.Round(2)
	r.TaxableSales = taxable.Round(2)
	r.ExemptSales = r.GrossSales.Sub(r.TaxableSales)
	r.DirectSales = direct.Round(2)
	r.MarketplaceSales = marketplace.Round(2)
	r.BaseTax = decimal.Zero
	r.Interest = decimal.Zero
	r.ExposureSales = decimal.Zero
}

// obligationStart picks the earliest applicable obligation: a physical
// presence obligates from January 1 of the year, economic nexus from its
// strategy-determined date.
func obligationStart(hasEconomic bool, econObligation time.Time, physicalThisYear bool, year int) time.Time {
	switch {
	case hasEconomic && physicalThisYear:
		if econObligation.Before(janFirst(year)) {
			return econObligation
		}
		return janFirst(year)
	case hasEconomic:
		return econObligation
	default:
		return janFirst(year)
	}
}

func firstNexusYear(firstEconYear *int, hasPhysical bool, physicalDate time.Time) int {
	switch {
	case firstEconYear != nil && hasPhysical:
		if physicalDate.Year() < *firstEconYear {
			return physicalDate.Year()
		}
		return *firstEconYear
	case firstEconYear != nil:
		return *firstEconYear
	default:
		return physicalDate.Year()
	}
}

// computeLiability fills exposure, base tax, interest, and penalties on a
// result that has nexus. Accrual failures zero the affected component and are
// recorded in CalculationErrors rather than aborting the year.
func computeLiability(r *domain.YearResult, yearTxns []domain.Transaction, obligation, cutoff time.Time, rate *domain.TaxRateConfig, ipCfg *domain.InterestPenaltyConfig, excludeMarketplace bool) []Warning {
	exposure := decimal.Zero
	for i := range yearTxns {
		t := &yearTxns[i]
		if t.Date.Before(obligation) {
			continue
		}
		if excludeMarketplace && t.Channel == domain.ChannelMarketplace {
			continue
		}
		exposure = exposure.Add(t.TaxableAmount())
	}
	r.ExposureSales = exposure.Round(2)
	r.BaseTax = r.ExposureSales.Mul(rate.CombinedRate).Round(2)

	var warnings []Warning
	if ipCfg == nil {
		return warnings
	}

	interest, err := ComputeInterest(r.BaseTax, obligation, cutoff, &ipCfg.Interest)
	if err != nil {
		r.CalculationErrors = append(r.CalculationErrors, fmt.Sprintf("interest: %v", err))
		warnings = append(warnings, Warning{
			JurisdictionCode: r.JurisdictionCode,
			Year:             r.Year,
			Kind:             WarningCalculationFailure,
			Message:          fmt.Sprintf("interest accrual failed: %v", err),
		})
		interest = decimal.Zero
	}
	r.Interest = interest

	breakdown, errs := ComputePenalties(r.BaseTax, r.Interest, obligation, cutoff, ipCfg)
	for _, perr := range errs {
		r.CalculationErrors = append(r.CalculationErrors, perr.Error())
		warnings = append(warnings, Warning{
			JurisdictionCode: r.JurisdictionCode,
			Year:             r.Year,
			Kind:             WarningCalculationFailure,
			Message:          perr.Error(),
		})
	}
	r.PenaltyBreakdown = breakdown
	return warnings
}

// distinctYears returns the ascending years present in sorted transactions.
func distinctYears(txns []domain.Transaction) []int {
	var years []int
	for i := range txns {
		y := txns[i].Date.Year()
		if n := len(years); n == 0 || years[n-1] != y {
			years = append(years, y)
		}
	}
	return years
}

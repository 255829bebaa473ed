package nexus

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

var (
	daysPerYear     = decimal.NewFromFloat(365.25)
	daysPerMonthAvg = 30.44
)

// ComputeInterest accrues interest on a tax base from the obligation start to
// the calculation cutoff. When the config carries split rate periods, the
// elapsed window is partitioned at period boundaries and each overlapping
// sub-period accrues independently with its own rate, method, and day count.
//
// Intermediate arithmetic stays in decimal (floats only for fractional
// exponents in the compounding factor); the result is rounded half-up to
// cents at this boundary only.
func ComputeInterest(principal decimal.Decimal, start, cutoff time.Time, cfg *domain.InterestConfig) (decimal.Decimal, error) {
	if cfg == nil {
		return decimal.Zero, nil
	}
	if principal.LessThanOrEqual(decimal.Zero) || !cutoff.After(start) {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	if len(cfg.Periods) > 0 {
		for i := range cfg.Periods {
			p := &cfg.Periods[i]
			subStart, subEnd := clampRange(start, cutoff, p.Start, p.End)
			if !subEnd.After(subStart) {
				continue
			}
			method := p.Method
			if method == "" {
				method = cfg.Method
			}
			accrued, err := accrue(principal, p.AnnualRate, method, daysBetween(subStart, subEnd))
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(accrued)
		}
	} else {
		accrued, err := accrue(principal, cfg.AnnualRate, cfg.Method, daysBetween(start, cutoff))
		if err != nil {
			return decimal.Zero, err
		}
		total = accrued
	}

	if cfg.MinimumAmount != nil && total.LessThan(*cfg.MinimumAmount) {
		total = *cfg.MinimumAmount
	}
	return total.Round(2), nil
}

// accrue computes unrounded interest for a single rate over elapsed days.
func accrue(principal, annualRate decimal.Decimal, method domain.InterestMethod, days int) (decimal.Decimal, error) {
	if days <= 0 {
		return decimal.Zero, nil
	}
	switch method {
	case domain.InterestSimple:
		return principal.Mul(annualRate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear), nil
	case domain.InterestCompoundMonthly:
		rate, _ := annualRate.Float64()
		factor := math.Pow(1+rate/12, float64(days)/daysPerMonthAvg) - 1
		return principal.Mul(decimal.NewFromFloat(factor)), nil
	case domain.InterestCompoundDaily:
		rate, _ := annualRate.Float64()
		factor := math.Pow(1+rate/365, float64(days)) - 1
		return principal.Mul(decimal.NewFromFloat(factor)), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown interest method %q", method)
	}
}

// clampRange intersects [start, cutoff) with a rate period's [from, to).
// A zero "to" means the period is open-ended.
func clampRange(start, cutoff, from, to time.Time) (time.Time, time.Time) {
	lo := start
	if from.After(lo) {
		lo = from
	}
	hi := cutoff
	if !to.IsZero() && to.Before(hi) {
		hi = to
	}
	return lo, hi
}

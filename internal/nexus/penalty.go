package nexus

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// ComputePenalties evaluates every configured penalty rule against the tax
// base and elapsed delinquency, then applies the combined cap if one is
// declared. Each amount is rounded to cents; zero amounts are omitted from
// the breakdown.
//
// A rule that cannot be computed (unknown shape, no matching tier
// configuration) contributes nothing and is reported in the returned error
// list so a zero is never mistaken for "nothing owed".
func ComputePenalties(baseTax, interest decimal.Decimal, start, cutoff time.Time, cfg *domain.InterestPenaltyConfig) (domain.PenaltyBreakdown, []error) {
	breakdown := domain.PenaltyBreakdown{}
	if cfg == nil || len(cfg.Penalties) == 0 {
		return breakdown, nil
	}
	daysLate := daysBetween(start, cutoff)
	if baseTax.LessThanOrEqual(decimal.Zero) || daysLate <= 0 {
		return breakdown, nil
	}
	monthsLate := monthsBetween(start, cutoff)

	var errs []error
	for i := range cfg.Penalties {
		rule := &cfg.Penalties[i]
		amount, err := computePenaltyRule(rule, baseTax, interest, daysLate, monthsLate)
		if err != nil {
			errs = append(errs, fmt.Errorf("penalty %s: %w", rule.Kind, err))
			continue
		}
		amount = amount.Round(2)
		if amount.IsPositive() {
			breakdown[rule.Kind] = amount
		}
	}

	if cfg.CombinedCap != nil {
		applyCombinedCap(breakdown, baseTax, cfg.CombinedCap)
	}
	return breakdown, errs
}

func computePenaltyRule(rule *domain.PenaltyRule, baseTax, interest decimal.Decimal, daysLate, monthsLate int) (decimal.Decimal, error) {
	base := baseTax
	if rule.BaseIncludesInterest {
		base = baseTax.Add(interest)
	}

	switch rule.Shape {
	case domain.ShapeFlat:
		amount := base.Mul(rule.Rate)
		if rule.MaxRate.IsPositive() {
			amount = decimal.Min(amount, base.Mul(rule.MaxRate))
		}
		amount = decimal.Max(amount, rule.MinAmount)
		if rule.ExtraRate.IsPositive() && daysLate > rule.ExtraAfterDays {
			amount = amount.Add(base.Mul(rule.ExtraRate))
		}
		return amount, nil

	case domain.ShapeFlatFee:
		return rule.FlatFee, nil

	case domain.ShapePerPeriod:
		totalRate := rule.RatePerPeriod.Mul(decimal.NewFromInt(int64(periodsElapsed(rule.PeriodUnit, daysLate, monthsLate))))
		if rule.MaxRate.IsPositive() {
			totalRate = decimal.Min(totalRate, rule.MaxRate)
		}
		amount := decimal.Max(base.Mul(totalRate), rule.MinAmount)
		return amount.Add(rule.FlatFee), nil

	case domain.ShapePerDay:
		amount := rule.AmountPerDay.Mul(decimal.NewFromInt(int64(daysLate)))
		if rule.MaxAmount.IsPositive() {
			amount = decimal.Min(amount, rule.MaxAmount)
		}
		return amount, nil

	case domain.ShapeTiered:
		if len(rule.Tiers) == 0 {
			return decimal.Zero, fmt.Errorf("tiered rule has no tiers")
		}
		for _, tier := range rule.Tiers {
			if daysLate >= tier.StartDay && (tier.EndDay == 0 || daysLate < tier.EndDay) {
				return base.Mul(tier.Rate), nil
			}
		}
		return decimal.Zero, nil

	case domain.ShapeBasePlusPerPeriod:
		rate := rule.BaseRate.Add(rule.RatePerPeriod.Mul(decimal.NewFromInt(int64(periodsElapsed(rule.PeriodUnit, daysLate, monthsLate)))))
		if rule.MaxRate.IsPositive() {
			rate = decimal.Min(rate, rule.MaxRate)
		}
		amount := base.Mul(rate)
		for _, step := range rule.EscalatingMins {
			if daysLate >= step.AfterDays {
				amount = decimal.Max(amount, step.Amount)
			}
		}
		return amount, nil

	default:
		return decimal.Zero, fmt.Errorf("unknown penalty shape %q", rule.Shape)
	}
}

func periodsElapsed(unit domain.PeriodUnit, daysLate, monthsLate int) int {
	if unit == domain.PeriodThirtyDay {
		return (daysLate + 29) / 30
	}
	return monthsLate
}

// applyCombinedCap scales the named subset of penalties down proportionally
// when their sum exceeds baseTax × maxCombinedRate, so the subset sums to the
// cap exactly. Any rounding residual lands on the largest member; kinds
// outside the subset are untouched.
func applyCombinedCap(breakdown domain.PenaltyBreakdown, baseTax decimal.Decimal, cap *domain.CombinedCap) {
	subtotal := decimal.Zero
	var members []domain.PenaltyKind
	for _, kind := range cap.Kinds {
		if amount, ok := breakdown[kind]; ok {
			subtotal = subtotal.Add(amount)
			members = append(members, kind)
		}
	}
	limit := baseTax.Mul(cap.MaxCombinedRate).Round(2)
	if len(members) == 0 || subtotal.LessThanOrEqual(limit) {
		return
	}

	largest := members[0]
	for _, kind := range members[1:] {
		if breakdown[kind].GreaterThan(breakdown[largest]) {
			largest = kind
		}
	}
	scaledTotal := decimal.Zero
	for _, kind := range members {
		scaled := breakdown[kind].Mul(limit).Div(subtotal).Round(2)
		breakdown[kind] = scaled
		scaledTotal = scaledTotal.Add(scaled)
	}
	// Push the rounding residual onto the largest member.
	breakdown[largest] = breakdown[largest].Add(limit.Sub(scaledTotal))
}

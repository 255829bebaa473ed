package nexus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

func penaltyCfg(rules ...domain.PenaltyRule) *domain.InterestPenaltyConfig {
	return &domain.InterestPenaltyConfig{Penalties: rules}
}

func TestComputePenalties_FlatRate(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:  domain.PenaltyLateFiling,
		Shape: domain.ShapeFlat,
		Rate:  d("0.05"),
	})

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("50")), "got %s", breakdown[domain.PenaltyLateFiling])
}

func TestComputePenalties_FlatMinimumAndExtra(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:           domain.PenaltyLateFiling,
		Shape:          domain.ShapeFlat,
		Rate:           d("0.05"),
		MinAmount:      d("100"),
		ExtraRate:      d("0.10"),
		ExtraAfterDays: 60,
	})

	// 5% of $1,000 is $50, lifted to the $100 minimum, plus 10% extra once
	// more than 60 days late.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("200")), "got %s", breakdown[domain.PenaltyLateFiling])
}

func TestComputePenalties_FlatFee(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:    domain.PenaltyLateRegistration,
		Shape:   domain.ShapeFlatFee,
		FlatFee: d("50"),
	})

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-02-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateRegistration].Equal(d("50")))
}

func TestComputePenalties_PerPeriodCappedRate(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:          domain.PenaltyLatePayment,
		Shape:         domain.ShapePerPeriod,
		RatePerPeriod: d("0.005"),
		MaxRate:       d("0.25"),
		PeriodUnit:    domain.PeriodMonth,
	})

	// 10 months at 0.5% per month on $1,000.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-11-01"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("50")), "got %s", breakdown[domain.PenaltyLatePayment])

	// 60 months hits the 25% rate cap.
	breakdown, errs = nexus.ComputePenalties(d("1000"), d("0"), day("2019-01-01"), day("2024-01-01"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("250")), "got %s", breakdown[domain.PenaltyLatePayment])
}

func TestComputePenalties_PerPeriodThirtyDayUnit(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:          domain.PenaltyLatePayment,
		Shape:         domain.ShapePerPeriod,
		RatePerPeriod: d("0.01"),
		PeriodUnit:    domain.PeriodThirtyDay,
	})

	// 45 days late rounds up to two 30-day periods.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-02-15"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("20")), "got %s", breakdown[domain.PenaltyLatePayment])
}

func TestComputePenalties_PerDayCappedAmount(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:         domain.PenaltyLateFiling,
		Shape:        domain.ShapePerDay,
		AmountPerDay: d("5"),
		MaxAmount:    d("100"),
	})

	// 31 days at $5/day would be $155, capped at $100.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-02-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("100")), "got %s", breakdown[domain.PenaltyLateFiling])
}

func TestComputePenalties_TieredSelectsBracket(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:  domain.PenaltyLateFiling,
		Shape: domain.ShapeTiered,
		Tiers: []domain.PenaltyTier{
			{StartDay: 1, EndDay: 31, Rate: d("0.02")},
			{StartDay: 31, EndDay: 0, Rate: d("0.05")},
		},
	})

	// 20 days late lands in the first bracket.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-01-21"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("20")), "got %s", breakdown[domain.PenaltyLateFiling])

	// 45 days late lands in the open-ended bracket.
	breakdown, errs = nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-02-15"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("50")), "got %s", breakdown[domain.PenaltyLateFiling])
}

func TestComputePenalties_TieredWithoutTiersIsError(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:  domain.PenaltyLateFiling,
		Shape: domain.ShapeTiered,
	})

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-02-01"), cfg)

	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "no tiers")
	assert.Empty(t, breakdown)
}

func TestComputePenalties_BasePlusPerPeriodWithEscalatingMinimums(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:          domain.PenaltyNegligence,
		Shape:         domain.ShapeBasePlusPerPeriod,
		BaseRate:      d("0.02"),
		RatePerPeriod: d("0.01"),
		MaxRate:       d("0.20"),
		PeriodUnit:    domain.PeriodMonth,
		EscalatingMins: []domain.MinimumStep{
			{AfterDays: 0, Amount: d("25")},
			{AfterDays: 180, Amount: d("500")},
		},
	})

	// 3 months late: 2% + 3×1% = 5% of $1,000, above the $25 floor.
	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-04-01"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyNegligence].Equal(d("50")), "got %s", breakdown[domain.PenaltyNegligence])

	// A year late the computed 14% is overridden by the $500 floor.
	breakdown, errs = nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2024-01-01"), cfg)
	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyNegligence].Equal(d("500")), "got %s", breakdown[domain.PenaltyNegligence])
}

func TestComputePenalties_BaseIncludesInterest(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{
		Kind:                 domain.PenaltyLatePayment,
		Shape:                domain.ShapeFlat,
		Rate:                 d("0.10"),
		BaseIncludesInterest: true,
	})

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("200"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("120")), "got %s", breakdown[domain.PenaltyLatePayment])
}

func TestComputePenalties_UnknownShapeReportedNotZeroed(t *testing.T) {
	cfg := penaltyCfg(
		domain.PenaltyRule{Kind: domain.PenaltyLateFiling, Shape: "exponential", Rate: d("0.05")},
		domain.PenaltyRule{Kind: domain.PenaltyLatePayment, Shape: domain.ShapeFlat, Rate: d("0.05")},
	)

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "unknown penalty shape")
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("50")), "healthy rules still compute")
	assert.NotContains(t, breakdown, domain.PenaltyLateFiling)
}

func TestComputePenalties_NotLateOrNoBase(t *testing.T) {
	cfg := penaltyCfg(domain.PenaltyRule{Kind: domain.PenaltyLateFiling, Shape: domain.ShapeFlat, Rate: d("0.05")})

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-06-01"), day("2023-06-01"), cfg)
	require.Empty(t, errs)
	assert.Empty(t, breakdown)

	breakdown, errs = nexus.ComputePenalties(d("0"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)
	require.Empty(t, errs)
	assert.Empty(t, breakdown)
}

func TestComputePenalties_CombinedCapScalesProportionally(t *testing.T) {
	cfg := penaltyCfg(
		domain.PenaltyRule{Kind: domain.PenaltyLateFiling, Shape: domain.ShapeFlat, Rate: d("0.025")},
		domain.PenaltyRule{Kind: domain.PenaltyLatePayment, Shape: domain.ShapeFlat, Rate: d("0.05")},
		domain.PenaltyRule{Kind: domain.PenaltyLateRegistration, Shape: domain.ShapeFlatFee, FlatFee: d("75")},
	)
	cfg.CombinedCap = &domain.CombinedCap{
		Kinds:           []domain.PenaltyKind{domain.PenaltyLateFiling, domain.PenaltyLatePayment},
		MaxCombinedRate: d("0.05"),
	}

	// Filing $250 + payment $500 exceeds the 5% of $10,000 cap, so the pair
	// is scaled to $500 total; the registration fee sits outside the cap.
	breakdown, errs := nexus.ComputePenalties(d("10000"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("166.67")), "got %s", breakdown[domain.PenaltyLateFiling])
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("333.33")), "got %s", breakdown[domain.PenaltyLatePayment])
	assert.True(t, breakdown[domain.PenaltyLateRegistration].Equal(d("75")))

	capped := breakdown[domain.PenaltyLateFiling].Add(breakdown[domain.PenaltyLatePayment])
	assert.True(t, capped.Equal(d("500")), "capped pair sums to the cap exactly, got %s", capped)
}

func TestComputePenalties_CombinedCapNotBindingLeavesAmounts(t *testing.T) {
	cfg := penaltyCfg(
		domain.PenaltyRule{Kind: domain.PenaltyLateFiling, Shape: domain.ShapeFlat, Rate: d("0.01")},
		domain.PenaltyRule{Kind: domain.PenaltyLatePayment, Shape: domain.ShapeFlat, Rate: d("0.01")},
	)
	cfg.CombinedCap = &domain.CombinedCap{
		Kinds:           []domain.PenaltyKind{domain.PenaltyLateFiling, domain.PenaltyLatePayment},
		MaxCombinedRate: d("0.50"),
	}

	breakdown, errs := nexus.ComputePenalties(d("1000"), d("0"), day("2023-01-01"), day("2023-06-01"), cfg)

	require.Empty(t, errs)
	assert.True(t, breakdown[domain.PenaltyLateFiling].Equal(d("10")))
	assert.True(t, breakdown[domain.PenaltyLatePayment].Equal(d("10")))
}

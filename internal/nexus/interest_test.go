package nexus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

func TestComputeInterest_Simple(t *testing.T) {
	cfg := &domain.InterestConfig{Method: domain.InterestSimple, AnnualRate: d("0.06")}

	// 365 days at 6% simple on $1,000: 1000 * 0.06 * 365/365.25.
	got, err := nexus.ComputeInterest(d("1000"), day("2023-01-01"), day("2024-01-01"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("59.96")), "got %s", got)
}

func TestComputeInterest_CompoundMonthly(t *testing.T) {
	cfg := &domain.InterestConfig{Method: domain.InterestCompoundMonthly, AnnualRate: d("0.12")}

	// 365 days at 12% compounded monthly on $10,000.
	got, err := nexus.ComputeInterest(d("10000"), day("2023-01-01"), day("2024-01-01"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("1267.22")), "got %s", got)
}

func TestComputeInterest_CompoundDaily(t *testing.T) {
	cfg := &domain.InterestConfig{Method: domain.InterestCompoundDaily, AnnualRate: d("0.08")}

	// 100 days at 8% compounded daily on $10,000.
	got, err := nexus.ComputeInterest(d("10000"), day("2023-01-01"), day("2023-04-11"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("221.57")), "got %s", got)
}

func TestComputeInterest_SplitRatePeriods(t *testing.T) {
	cfg := &domain.InterestConfig{
		Method: domain.InterestSimple,
		Periods: []domain.RatePeriod{
			{Start: day("2023-01-01"), End: day("2023-07-01"), AnnualRate: d("0.05")},
			{Start: day("2023-07-01"), AnnualRate: d("0.08")},
		},
	}

	// 181 days at 5% plus 184 days at 8% on $1,000.
	got, err := nexus.ComputeInterest(d("1000"), day("2023-01-01"), day("2024-01-01"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("65.08")), "got %s", got)
}

func TestComputeInterest_SplitPeriodsOutsideWindowIgnored(t *testing.T) {
	cfg := &domain.InterestConfig{
		Method: domain.InterestSimple,
		Periods: []domain.RatePeriod{
			{Start: day("2020-01-01"), End: day("2022-01-01"), AnnualRate: d("0.99")},
			{Start: day("2022-01-01"), AnnualRate: d("0.06")},
		},
	}

	got, err := nexus.ComputeInterest(d("1000"), day("2023-01-01"), day("2024-01-01"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("59.96")), "got %s", got)
}

func TestComputeInterest_MinimumFloor(t *testing.T) {
	cfg := &domain.InterestConfig{
		Method:        domain.InterestSimple,
		AnnualRate:    d("0.06"),
		MinimumAmount: dp("10"),
	}

	got, err := nexus.ComputeInterest(d("5"), day("2023-01-01"), day("2023-02-01"), cfg)

	require.NoError(t, err)
	assert.True(t, got.Equal(d("10")), "got %s", got)
}

func TestComputeInterest_NothingToAccrue(t *testing.T) {
	cfg := &domain.InterestConfig{Method: domain.InterestSimple, AnnualRate: d("0.06")}

	got, err := nexus.ComputeInterest(d("0"), day("2023-01-01"), day("2024-01-01"), cfg)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = nexus.ComputeInterest(d("1000"), day("2024-01-01"), day("2023-01-01"), cfg)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = nexus.ComputeInterest(d("1000"), day("2023-01-01"), day("2024-01-01"), nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestComputeInterest_UnknownMethod(t *testing.T) {
	cfg := &domain.InterestConfig{Method: "weekly", AnnualRate: d("0.06")}

	_, err := nexus.ComputeInterest(d("1000"), day("2023-01-01"), day("2024-01-01"), cfg)

	assert.ErrorContains(t, err, "unknown interest method")
}

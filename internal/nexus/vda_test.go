package nexus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

func baselineResult(code string, year int, baseTax, interest string, penalties domain.PenaltyBreakdown) domain.YearResult {
	obligation := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := domain.YearResult{
		JurisdictionCode: code,
		Year:             year,
		NexusType:        domain.NexusEconomic,
		ObligationStart:  &obligation,
		BaseTax:          d(baseTax),
		Interest:         d(interest),
		PenaltyBreakdown: penalties,
	}
	r.EstimatedLiability = r.BaseTax.Add(r.Interest).Add(r.PenaltyBreakdown.Total())
	return r
}

func simpleInterestConfigs(code, annualRate string) map[string]*domain.InterestPenaltyConfig {
	return map[string]*domain.InterestPenaltyConfig{
		code: {
			JurisdictionCode: code,
			Interest: domain.InterestConfig{
				Method:     domain.InterestSimple,
				AnnualRate: d(annualRate),
			},
		},
	}
}

func TestComputeVDAScenario_PenaltiesWaivedAndLookbackTruncatesInterest(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("CA", 2021, "1000", "200", domain.PenaltyBreakdown{domain.PenaltyLateFiling: d("100")}),
		baselineResult("CA", 2022, "2000", "300", domain.PenaltyBreakdown{domain.PenaltyLateFiling: d("150")}),
	}
	// 2022's obligation starts after the lookback boundary, so only 2021 is
	// repriced.
	laterStart := day("2022-07-01")
	baseline[1].ObligationStart = &laterStart

	// Filing June 30, 2024 with a 24-month lookback reaches back to June 30,
	// 2022. 2021's interest is recomputed from that boundary; its base tax
	// stays in the assessment.
	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:      baseline,
		Jurisdictions: []string{"CA"},
		FilingDate:    day("2024-06-30"),
		Rules: map[string]domain.VDAProgramRules{
			"CA": {PenaltiesWaived: true, LookbackMonths: 24},
		},
		InterestConfigs: simpleInterestConfigs("CA", "0.10"),
	})

	require.Len(t, out.Jurisdictions, 1)
	jur := out.Jurisdictions[0]

	assert.True(t, jur.StandardLiability.Equal(d("3750")), "standard %s", jur.StandardLiability)
	assert.Equal(t, []int{2021, 2022}, jur.YearsIncluded)
	assert.Equal(t, []int{2021}, jur.YearsTruncated)
	assert.True(t, jur.BaseTax.Equal(d("3000")), "lookback never reduces base tax, got %s", jur.BaseTax)

	// 2021: 1000 at 10% simple over the 731 days from 2022-06-30 to the
	// filing date is 200.14; 2022 keeps its assessed 300.
	assert.True(t, jur.Interest.Equal(d("500.14")), "interest %s", jur.Interest)
	assert.True(t, jur.Penalties.IsZero())
	assert.True(t, jur.VDALiability.Equal(d("3500.14")), "vda %s", jur.VDALiability)
	assert.True(t, jur.Savings.Equal(d("249.86")), "savings %s", jur.Savings)

	assert.True(t, out.TotalStandard.Equal(d("3750")))
	assert.True(t, out.TotalVDA.Equal(d("3500.14")))
	assert.True(t, out.TotalSavings.Equal(d("249.86")))
}

func TestComputeVDAScenario_LookbackWithoutInterestConfigKeepsAssessment(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("CA", 2021, "1000", "200", nil),
	}

	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:      baseline,
		Jurisdictions: []string{"CA"},
		FilingDate:    day("2024-06-30"),
		Rules: map[string]domain.VDAProgramRules{
			"CA": {LookbackMonths: 24},
		},
	})

	require.Len(t, out.Jurisdictions, 1)
	jur := out.Jurisdictions[0]
	assert.True(t, jur.BaseTax.Equal(d("1000")))
	assert.True(t, jur.Interest.Equal(d("200")), "interest stands without a config to recompute from, got %s", jur.Interest)
	assert.Empty(t, jur.YearsTruncated)
}

func TestComputeVDAScenario_InterestWaivedToo(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("NY", 2022, "2000", "300", domain.PenaltyBreakdown{domain.PenaltyLatePayment: d("150")}),
	}

	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:      baseline,
		Jurisdictions: []string{"NY"},
		FilingDate:    day("2024-06-30"),
		Rules: map[string]domain.VDAProgramRules{
			"NY": {PenaltiesWaived: true, InterestWaived: true},
		},
	})

	require.Len(t, out.Jurisdictions, 1)
	jur := out.Jurisdictions[0]
	assert.True(t, jur.VDALiability.Equal(d("2000")), "only base tax remains, got %s", jur.VDALiability)
	assert.True(t, jur.Savings.Equal(d("450")))
}

func TestComputeVDAScenario_NoProgramRulesKeepsStandardAssessment(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("TX", 2021, "1000", "200", domain.PenaltyBreakdown{domain.PenaltyLateFiling: d("100")}),
		baselineResult("TX", 2022, "2000", "300", nil),
	}

	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:      baseline,
		Jurisdictions: []string{"TX"},
		FilingDate:    day("2024-06-30"),
	})

	require.Len(t, out.Jurisdictions, 1)
	jur := out.Jurisdictions[0]
	assert.True(t, jur.VDALiability.Equal(jur.StandardLiability))
	assert.True(t, jur.Savings.IsZero())
	assert.Equal(t, []int{2021, 2022}, jur.YearsIncluded)
}

func TestComputeVDAScenario_EmptySelectionCoversAllJurisdictions(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("CA", 2022, "1000", "0", nil),
		baselineResult("NY", 2022, "2000", "0", nil),
	}

	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:   baseline,
		FilingDate: day("2024-06-30"),
	})

	require.Len(t, out.Jurisdictions, 2)
	assert.Equal(t, "CA", out.Jurisdictions[0].JurisdictionCode)
	assert.Equal(t, "NY", out.Jurisdictions[1].JurisdictionCode)
	assert.True(t, out.TotalStandard.Equal(d("3000")))
}

func TestComputeVDAScenario_SelectedJurisdictionWithoutResultsSkipped(t *testing.T) {
	baseline := []domain.YearResult{
		baselineResult("CA", 2022, "1000", "0", nil),
	}

	out := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:      baseline,
		Jurisdictions: []string{"CA", "ZZ"},
		FilingDate:    day("2024-06-30"),
	})

	require.Len(t, out.Jurisdictions, 1)
	assert.Equal(t, "CA", out.Jurisdictions[0].JurisdictionCode)
}

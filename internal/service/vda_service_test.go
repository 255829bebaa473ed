package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
	"saltscope/internal/service"
	"saltscope/mocks"
)

func newVDAService() (service.VDAScenarioService, *mocks.MockAnalysisRepo, *mocks.MockYearResultRepo, *mocks.MockVDAScenarioRepo, *mocks.MockJurisdictionRepo) {
	analysisRepo := new(mocks.MockAnalysisRepo)
	resultRepo := new(mocks.MockYearResultRepo)
	scenarioRepo := new(mocks.MockVDAScenarioRepo)
	jurisRepo := new(mocks.MockJurisdictionRepo)
	svc := service.NewVDAScenarioService(analysisRepo, resultRepo, scenarioRepo, jurisRepo)
	return svc, analysisRepo, resultRepo, scenarioRepo, jurisRepo
}

func vdaBaseline(analysisID uuid.UUID) []domain.YearResult {
	return []domain.YearResult{
		{
			AnalysisID:         analysisID,
			JurisdictionCode:   "CA",
			Year:               2022,
			NexusType:          domain.NexusEconomic,
			BaseTax:            decimal.NewFromInt(1000),
			Interest:           decimal.NewFromInt(100),
			EstimatedLiability: decimal.NewFromInt(1150),
		},
		{
			AnalysisID:         analysisID,
			JurisdictionCode:   "TX",
			Year:               2022,
			NexusType:          domain.NexusEconomic,
			BaseTax:            decimal.NewFromInt(500),
			Interest:           decimal.NewFromInt(50),
			EstimatedLiability: decimal.NewFromInt(600),
		},
	}
}

func caInterestConfig() *domain.InterestPenaltyConfig {
	return &domain.InterestPenaltyConfig{
		JurisdictionCode: "CA",
		Interest: domain.InterestConfig{
			Method:     domain.InterestSimple,
			AnnualRate: decimal.RequireFromString("0.08"),
		},
	}
}

func TestVDAService_Create_Success(t *testing.T) {
	svc, analysisRepo, resultRepo, scenarioRepo, jurisRepo := newVDAService()
	tenantID := uuid.New()
	analysisID := uuid.New()
	creatorID := uuid.New()

	analysisRepo.On("GetByID", mock.Anything, tenantID, analysisID).
		Return(&domain.Analysis{ID: analysisID, TenantID: tenantID}, nil)
	resultRepo.On("ListByAnalysis", mock.Anything, analysisID).Return(vdaBaseline(analysisID), nil)
	jurisRepo.On("GetVDAProgramRules", mock.Anything, "CA").
		Return(&domain.VDAProgramRules{PenaltiesWaived: true, InterestWaived: false, LookbackMonths: 36}, nil)
	jurisRepo.On("GetInterestPenaltyConfig", mock.Anything, "CA").Return(caInterestConfig(), nil)
	jurisRepo.On("GetVDAProgramRules", mock.Anything, "TX").Return(nil, domain.ErrNotFound)
	scenarioRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.VDAScenario")).Return(nil)

	scenario, err := svc.Create(context.Background(), service.CreateVDAScenarioInput{
		TenantID:   tenantID,
		AnalysisID: analysisID,
		Name:       "All states VDA",
		FilingDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:  creatorID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "All states VDA", scenario.Name)
	assert.Equal(t, analysisID, scenario.AnalysisID)
	assert.NotEmpty(t, scenario.Outcome)

	var input map[string]interface{}
	assert.NoError(t, json.Unmarshal(scenario.Input, &input))
	assert.Equal(t, "2025-03-01", input["filing_date"])

	scenarioRepo.AssertExpectations(t)
	jurisRepo.AssertExpectations(t)
}

func TestVDAService_Create_LookbackKeepsBaseTaxAndTruncatesInterest(t *testing.T) {
	svc, analysisRepo, resultRepo, scenarioRepo, jurisRepo := newVDAService()
	tenantID := uuid.New()
	analysisID := uuid.New()
	cutoff := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	earlyStart := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	lateStart := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	baseline := []domain.YearResult{
		{
			AnalysisID:         analysisID,
			JurisdictionCode:   "CA",
			Year:               2021,
			NexusType:          domain.NexusEconomic,
			ObligationStart:    &earlyStart,
			BaseTax:            decimal.NewFromInt(1000),
			Interest:           decimal.NewFromInt(200),
			EstimatedLiability: decimal.NewFromInt(1200),
		},
		{
			AnalysisID:         analysisID,
			JurisdictionCode:   "CA",
			Year:               2022,
			NexusType:          domain.NexusEconomic,
			ObligationStart:    &lateStart,
			BaseTax:            decimal.NewFromInt(2000),
			Interest:           decimal.NewFromInt(300),
			EstimatedLiability: decimal.NewFromInt(2300),
		},
	}

	analysisRepo.On("GetByID", mock.Anything, tenantID, analysisID).
		Return(&domain.Analysis{ID: analysisID, TenantID: tenantID, CutoffDate: cutoff}, nil)
	resultRepo.On("ListByAnalysis", mock.Anything, analysisID).Return(baseline, nil)
	jurisRepo.On("GetVDAProgramRules", mock.Anything, "CA").
		Return(&domain.VDAProgramRules{LookbackMonths: 24}, nil)
	jurisRepo.On("GetInterestPenaltyConfig", mock.Anything, "CA").Return(caInterestConfig(), nil)
	scenarioRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.VDAScenario")).Return(nil)

	scenario, err := svc.Create(context.Background(), service.CreateVDAScenarioInput{
		TenantID:          tenantID,
		AnalysisID:        analysisID,
		Name:              "CA lookback",
		FilingDate:        time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		JurisdictionCodes: []string{"CA"},
	})

	require.NoError(t, err)

	var outcome nexus.VDAOutcome
	require.NoError(t, json.Unmarshal(scenario.Outcome, &outcome))
	require.Len(t, outcome.Jurisdictions, 1)
	jur := outcome.Jurisdictions[0]

	assert.True(t, jur.BaseTax.Equal(decimal.NewFromInt(3000)), "lookback must not reduce base tax, got %s", jur.BaseTax)
	assert.Equal(t, []int{2021}, jur.YearsTruncated)
	// 2021 repriced: 1000 at 8% simple over the 731 days from 2022-06-30 to
	// the run cutoff is 160.11; 2022 keeps its assessed 300.
	assert.True(t, jur.Interest.Equal(decimal.RequireFromString("460.11")), "interest %s", jur.Interest)
	assert.True(t, jur.VDALiability.Equal(decimal.RequireFromString("3460.11")), "vda %s", jur.VDALiability)
}

func TestVDAService_Create_NoResults(t *testing.T) {
	svc, analysisRepo, resultRepo, scenarioRepo, _ := newVDAService()
	tenantID := uuid.New()
	analysisID := uuid.New()

	analysisRepo.On("GetByID", mock.Anything, tenantID, analysisID).
		Return(&domain.Analysis{ID: analysisID}, nil)
	resultRepo.On("ListByAnalysis", mock.Anything, analysisID).Return([]domain.YearResult{}, nil)

	scenario, err := svc.Create(context.Background(), service.CreateVDAScenarioInput{
		TenantID:   tenantID,
		AnalysisID: analysisID,
		Name:       "Empty",
		FilingDate: time.Now(),
	})

	assert.Nil(t, scenario)
	assert.ErrorIs(t, err, domain.ErrNoResults)
	scenarioRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVDAService_Create_SelectionLimitsRuleLookups(t *testing.T) {
	svc, analysisRepo, resultRepo, scenarioRepo, jurisRepo := newVDAService()
	tenantID := uuid.New()
	analysisID := uuid.New()

	analysisRepo.On("GetByID", mock.Anything, tenantID, analysisID).
		Return(&domain.Analysis{ID: analysisID}, nil)
	resultRepo.On("ListByAnalysis", mock.Anything, analysisID).Return(vdaBaseline(analysisID), nil)
	jurisRepo.On("GetVDAProgramRules", mock.Anything, "CA").
		Return(&domain.VDAProgramRules{PenaltiesWaived: true}, nil)
	scenarioRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.VDAScenario")).Return(nil)

	_, err := svc.Create(context.Background(), service.CreateVDAScenarioInput{
		TenantID:          tenantID,
		AnalysisID:        analysisID,
		Name:              "CA only",
		FilingDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		JurisdictionCodes: []string{"CA"},
	})

	assert.NoError(t, err)
	jurisRepo.AssertNotCalled(t, "GetVDAProgramRules", mock.Anything, "TX")
	jurisRepo.AssertNotCalled(t, "GetInterestPenaltyConfig", mock.Anything, mock.Anything)
}

func TestVDAService_Delete_TenantChecked(t *testing.T) {
	svc, analysisRepo, _, scenarioRepo, _ := newVDAService()
	tenantID := uuid.New()
	analysisID := uuid.New()
	scenarioID := uuid.New()

	analysisRepo.On("GetByID", mock.Anything, tenantID, analysisID).Return(nil, domain.ErrNotFound)

	err := svc.Delete(context.Background(), tenantID, analysisID, scenarioID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	scenarioRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

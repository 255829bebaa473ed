package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
	"saltscope/internal/port"
)

// CreateVDAScenarioInput is the DTO for creating a VDA comparison. An empty
// jurisdiction selection covers every jurisdiction in the baseline results.
type CreateVDAScenarioInput struct {
	TenantID          uuid.UUID
	AnalysisID        uuid.UUID
	Name              string
	FilingDate        time.Time
	JurisdictionCodes []string
	CreatedBy         uuid.UUID
}

// VDAScenarioService defines the voluntary-disclosure comparison contract.
type VDAScenarioService interface {
	Create(ctx context.Context, input CreateVDAScenarioInput) (*domain.VDAScenario, error)
	GetByID(ctx context.Context, tenantID, analysisID, scenarioID uuid.UUID) (*domain.VDAScenario, error)
	List(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.VDAScenario, error)
	Delete(ctx context.Context, tenantID, analysisID, scenarioID uuid.UUID) error
}

type vdaService struct {
	analysisRepo port.AnalysisRepository
	resultRepo   port.YearResultRepository
	scenarioRepo port.VDAScenarioRepository
	jurisRepo    port.JurisdictionRepository
}

// NewVDAScenarioService creates a new VDAScenarioService implementation.
func NewVDAScenarioService(
	analysisRepo port.AnalysisRepository,
	resultRepo port.YearResultRepository,
	scenarioRepo port.VDAScenarioRepository,
	jurisRepo port.JurisdictionRepository,
) VDAScenarioService {
	return &vdaService{
		analysisRepo: analysisRepo,
		resultRepo:   resultRepo,
		scenarioRepo: scenarioRepo,
		jurisRepo:    jurisRepo,
	}
}

func (s *vdaService) Create(ctx context.Context, input CreateVDAScenarioInput) (*domain.VDAScenario, error) {
	analysis, err := s.analysisRepo.GetByID(ctx, input.TenantID, input.AnalysisID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.resultRepo.ListByAnalysis(ctx, input.AnalysisID)
	if err != nil {
		return nil, fmt.Errorf("loading results: %w", err)
	}
	if len(baseline) == 0 {
		return nil, domain.ErrNoResults
	}

	rules, interestCfgs, err := s.loadProgramRules(ctx, baseline, input.JurisdictionCodes)
	if err != nil {
		return nil, err
	}

	outcome := nexus.ComputeVDAScenario(nexus.VDAInput{
		Baseline:        baseline,
		Jurisdictions:   input.JurisdictionCodes,
		FilingDate:      input.FilingDate,
		Cutoff:          analysis.CutoffDate,
		Rules:           rules,
		InterestConfigs: interestCfgs,
	})

	inputJSON, err := json.Marshal(map[string]interface{}{
		"filing_date":        input.FilingDate.Format("2006-01-02"),
		"jurisdiction_codes": input.JurisdictionCodes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling scenario input: %w", err)
	}
	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("marshaling scenario outcome: %w", err)
	}

	scenario := &domain.VDAScenario{
		ID:         uuid.New(),
		AnalysisID: input.AnalysisID,
		Name:       input.Name,
		FilingDate: input.FilingDate,
		Input:      inputJSON,
		Outcome:    outcomeJSON,
		CreatedBy:  input.CreatedBy,
	}
	if err := s.scenarioRepo.Create(ctx, scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// loadProgramRules fetches VDA program terms for every jurisdiction the
// scenario touches, and the interest config for any program with a lookback
// limit so truncated interest can be recomputed. Jurisdictions without a
// program are simply absent from the map; repricing keeps their standard
// liability.
func (s *vdaService) loadProgramRules(ctx context.Context, baseline []domain.YearResult, selection []string) (map[string]domain.VDAProgramRules, map[string]*domain.InterestPenaltyConfig, error) {
	codes := make(map[string]bool)
	if len(selection) > 0 {
		for _, code := range selection {
			codes[code] = true
		}
	} else {
		for i := range baseline {
			codes[baseline[i].JurisdictionCode] = true
		}
	}

	rules := make(map[string]domain.VDAProgramRules, len(codes))
	interestCfgs := make(map[string]*domain.InterestPenaltyConfig)
	for code := range codes {
		r, err := s.jurisRepo.GetVDAProgramRules(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("loading VDA program rules for %s: %w", code, err)
		}
		rules[code] = *r

		if r.LookbackMonths > 0 {
			cfg, err := s.jurisRepo.GetInterestPenaltyConfig(ctx, code)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, nil, fmt.Errorf("loading interest config for %s: %w", code, err)
			}
			interestCfgs[code] = cfg
		}
	}
	return rules, interestCfgs, nil
}

func (s *vdaService) GetByID(ctx context.Context, tenantID, analysisID, scenarioID uuid.UUID) (*domain.VDAScenario, error) {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	return s.scenarioRepo.GetByID(ctx, analysisID, scenarioID)
}

func (s *vdaService) List(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.VDAScenario, error) {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	return s.scenarioRepo.ListByAnalysis(ctx, analysisID)
}

func (s *vdaService) Delete(ctx context.Context, tenantID, analysisID, scenarioID uuid.UUID) error {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return err
	}
	return s.scenarioRepo.Delete(ctx, analysisID, scenarioID)
}

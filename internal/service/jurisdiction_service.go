package service

import (
	"context"
	"errors"
	"fmt"

	"saltscope/internal/domain"
	"saltscope/internal/port"
)

// JurisdictionConfig bundles everything currently configured for one
// jurisdiction. Pieces a jurisdiction has no row for are nil.
type JurisdictionConfig struct {
	Code            string                             `json:"code"`
	Threshold       *domain.ThresholdRule              `json:"threshold,omitempty"`
	TaxRate         *domain.TaxRateConfig              `json:"tax_rate,omitempty"`
	Marketplace     *domain.MarketplaceFacilitatorRule `json:"marketplace,omitempty"`
	InterestPenalty *domain.InterestPenaltyConfig      `json:"interest_penalty,omitempty"`
	VDAProgram      *domain.VDAProgramRules            `json:"vda_program,omitempty"`
}

// JurisdictionService defines the jurisdiction configuration contract.
type JurisdictionService interface {
	List(ctx context.Context) ([]domain.Jurisdiction, error)
	GetConfig(ctx context.Context, code string) (*JurisdictionConfig, error)

	UpsertJurisdiction(ctx context.Context, j *domain.Jurisdiction) error
	UpsertThresholdRule(ctx context.Context, rule *domain.ThresholdRule) error
	UpsertTaxRate(ctx context.Context, rate *domain.TaxRateConfig) error
	UpsertMarketplaceRule(ctx context.Context, rule *domain.MarketplaceFacilitatorRule) error
	UpsertInterestPenaltyConfig(ctx context.Context, cfg *domain.InterestPenaltyConfig) error
	UpsertVDAProgramRules(ctx context.Context, code string, rules *domain.VDAProgramRules) error
}

type jurisdictionService struct {
	repo port.JurisdictionRepository
}

// NewJurisdictionService creates a new JurisdictionService implementation.
func NewJurisdictionService(repo port.JurisdictionRepository) JurisdictionService {
	return &jurisdictionService{repo: repo}
}

func (s *jurisdictionService) List(ctx context.Context) ([]domain.Jurisdiction, error) {
	return s.repo.ListJurisdictions(ctx)
}

func (s *jurisdictionService) GetConfig(ctx context.Context, code string) (*JurisdictionConfig, error) {
	cfg := &JurisdictionConfig{Code: code}

	threshold, err := s.repo.GetThresholdRule(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading threshold rule: %w", err)
	}
	if err == nil {
		cfg.Threshold = threshold
	}

	rate, err := s.repo.GetTaxRate(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading tax rate: %w", err)
	}
	if err == nil {
		cfg.TaxRate = rate
	}

	mkt, err := s.repo.GetMarketplaceRule(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading marketplace rule: %w", err)
	}
	if err == nil {
		cfg.Marketplace = mkt
	}

	ip, err := s.repo.GetInterestPenaltyConfig(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading interest/penalty config: %w", err)
	}
	if err == nil {
		cfg.InterestPenalty = ip
	}

	vda, err := s.repo.GetVDAProgramRules(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("loading VDA program rules: %w", err)
	}
	if err == nil {
		cfg.VDAProgram = vda
	}

	// Every piece missing means the jurisdiction itself is unknown
	if cfg.Threshold == nil && cfg.TaxRate == nil && cfg.Marketplace == nil &&
		cfg.InterestPenalty == nil && cfg.VDAProgram == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

func (s *jurisdictionService) UpsertJurisdiction(ctx context.Context, j *domain.Jurisdiction) error {
	return s.repo.UpsertJurisdiction(ctx, j)
}

func (s *jurisdictionService) UpsertThresholdRule(ctx context.Context, rule *domain.ThresholdRule) error {
	return s.repo.UpsertThresholdRule(ctx, rule)
}

func (s *jurisdictionService) UpsertTaxRate(ctx context.Context, rate *domain.TaxRateConfig) error {
	return s.repo.UpsertTaxRate(ctx, rate)
}

func (s *jurisdictionService) UpsertMarketplaceRule(ctx context.Context, rule *domain.MarketplaceFacilitatorRule) error {
	return s.repo.UpsertMarketplaceRule(ctx, rule)
}

func (s *jurisdictionService) UpsertInterestPenaltyConfig(ctx context.Context, cfg *domain.InterestPenaltyConfig) error {
	return s.repo.UpsertInterestPenaltyConfig(ctx, cfg)
}

func (s *jurisdictionService) UpsertVDAProgramRules(ctx context.Context, code string, rules *domain.VDAProgramRules) error {
	return s.repo.UpsertVDAProgramRules(ctx, code, rules)
}

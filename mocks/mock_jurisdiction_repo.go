package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

// MockJurisdictionRepo is a mock implementation of port.JurisdictionRepository.
type MockJurisdictionRepo struct {
	mock.Mock
}

func (m *MockJurisdictionRepo) ListJurisdictions(ctx context.Context) ([]domain.Jurisdiction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Jurisdiction), args.Error(1)
}

func (m *MockJurisdictionRepo) GetThresholdRule(ctx context.Context, code string) (*domain.ThresholdRule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ThresholdRule), args.Error(1)
}

func (m *MockJurisdictionRepo) GetTaxRate(ctx context.Context, code string) (*domain.TaxRateConfig, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRateConfig), args.Error(1)
}

func (m *MockJurisdictionRepo) GetMarketplaceRule(ctx context.Context, code string) (*domain.MarketplaceFacilitatorRule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceFacilitatorRule), args.Error(1)
}

func (m *MockJurisdictionRepo) GetInterestPenaltyConfig(ctx context.Context, code string) (*domain.InterestPenaltyConfig, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestPenaltyConfig), args.Error(1)
}

func (m *MockJurisdictionRepo) GetVDAProgramRules(ctx context.Context, code string) (*domain.VDAProgramRules, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VDAProgramRules), args.Error(1)
}

func (m *MockJurisdictionRepo) UpsertJurisdiction(ctx context.Context, j *domain.Jurisdiction) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) UpsertThresholdRule(ctx context.Context, rule *domain.ThresholdRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) UpsertTaxRate(ctx context.Context, rate *domain.TaxRateConfig) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) UpsertMarketplaceRule(ctx context.Context, rule *domain.MarketplaceFacilitatorRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) UpsertInterestPenaltyConfig(ctx context.Context, cfg *domain.InterestPenaltyConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) UpsertVDAProgramRules(ctx context.Context, code string, rules *domain.VDAProgramRules) error {
	args := m.Called(ctx, code, rules)
	return args.Error(0)
}

func (m *MockJurisdictionRepo) LoadSnapshot(ctx context.Context) (*nexus.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nexus.Snapshot), args.Error(1)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
	"saltscope/internal/service"
	"saltscope/mocks"
)

func TestJurisdictionService_GetConfig_PartialConfig(t *testing.T) {
	repo := new(mocks.MockJurisdictionRepo)
	svc := service.NewJurisdictionService(repo)

	revenue := decimal.NewFromInt(100000)
	threshold := &domain.ThresholdRule{
		JurisdictionCode: "CA",
		RevenueThreshold: &revenue,
		Operator:         domain.OperatorOr,
		LookbackStrategy: domain.StrategyCurrentOrPreviousYear,
		EffectiveFrom:    time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	rate := &domain.TaxRateConfig{
		JurisdictionCode: "CA",
		CombinedRate:     decimal.RequireFromString("0.0825"),
	}

	repo.On("GetThresholdRule", mock.Anything, "CA").Return(threshold, nil)
	repo.On("GetTaxRate", mock.Anything, "CA").Return(rate, nil)
	repo.On("GetMarketplaceRule", mock.Anything, "CA").Return(nil, domain.ErrNotFound)
	repo.On("GetInterestPenaltyConfig", mock.Anything, "CA").Return(nil, domain.ErrNotFound)
	repo.On("GetVDAProgramRules", mock.Anything, "CA").Return(nil, domain.ErrNotFound)

	cfg, err := svc.GetConfig(context.Background(), "CA")

	assert.NoError(t, err)
	assert.Equal(t, "CA", cfg.Code)
	assert.Equal(t, threshold, cfg.Threshold)
	assert.Equal(t, rate, cfg.TaxRate)
	assert.Nil(t, cfg.Marketplace)
	assert.Nil(t, cfg.InterestPenalty)
	assert.Nil(t, cfg.VDAProgram)
}

func TestJurisdictionService_GetConfig_UnknownJurisdiction(t *testing.T) {
	repo := new(mocks.MockJurisdictionRepo)
	svc := service.NewJurisdictionService(repo)

	repo.On("GetThresholdRule", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound)
	repo.On("GetTaxRate", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound)
	repo.On("GetMarketplaceRule", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound)
	repo.On("GetInterestPenaltyConfig", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound)
	repo.On("GetVDAProgramRules", mock.Anything, "ZZ").Return(nil, domain.ErrNotFound)

	cfg, err := svc.GetConfig(context.Background(), "ZZ")

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

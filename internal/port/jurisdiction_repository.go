package port

import (
	"context"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

// JurisdictionRepository defines the contract for the jurisdiction
// configuration tables: thresholds, rates, marketplace rules, interest and
// penalty rules, and VDA program terms.
type JurisdictionRepository interface {
	ListJurisdictions(ctx context.Context) ([]domain.Jurisdiction, error)
	GetThresholdRule(ctx context.Context, code string) (*domain.ThresholdRule, error)
	GetTaxRate(ctx context.Context, code string) (*domain.TaxRateConfig, error)
	GetMarketplaceRule(ctx context.Context, code string) (*domain.MarketplaceFacilitatorRule, error)
	GetInterestPenaltyConfig(ctx context.Context, code string) (*domain.InterestPenaltyConfig, error)
	GetVDAProgramRules(ctx context.Context, code string) (*domain.VDAProgramRules, error)

	UpsertJurisdiction(ctx context.Context, j *domain.Jurisdiction) error
	UpsertThresholdRule(ctx context.Context, rule *domain.ThresholdRule) error
	UpsertTaxRate(ctx context.Context, rate *domain.TaxRateConfig) error
	UpsertMarketplaceRule(ctx context.Context, rule *domain.MarketplaceFacilitatorRule) error
	UpsertInterestPenaltyConfig(ctx context.Context, cfg *domain.InterestPenaltyConfig) error
	UpsertVDAProgramRules(ctx context.Context, code string, rules *domain.VDAProgramRules) error

	// LoadSnapshot reads the full current configuration in one pass. A run
	// works off this immutable copy so config edits mid-run cannot skew
	// results.
	LoadSnapshot(ctx context.Context) (*nexus.Snapshot, error)
}

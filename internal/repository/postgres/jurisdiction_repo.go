package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
	"saltscope/internal/port"
)

type jurisdictionRepo struct {
	db *sqlx.DB
}

// NewJurisdictionRepo creates a new PostgreSQL-backed JurisdictionRepository.
func NewJurisdictionRepo(db *sqlx.DB) port.JurisdictionRepository {
	return &jurisdictionRepo{db: db}
}

func (r *jurisdictionRepo) ListJurisdictions(ctx context.Context) ([]domain.Jurisdiction, error) {
	var jurisdictions []domain.Jurisdiction
	err := r.db.SelectContext(ctx, &jurisdictions,
		"SELECT * FROM jurisdictions ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.ListJurisdictions: %w", err)
	}
	return jurisdictions, nil
}

func (r *jurisdictionRepo) GetThresholdRule(ctx context.Context, code string) (*domain.ThresholdRule, error) {
	var rule domain.ThresholdRule
	err := r.db.GetContext(ctx, &rule,
		`SELECT * FROM threshold_rules
		 WHERE jurisdiction_code = $1 AND effective_to IS NULL`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jurisdictionRepo.GetThresholdRule: %w", err)
	}
	return &rule, nil
}

func (r *jurisdictionRepo) GetTaxRate(ctx context.Context, code string) (*domain.TaxRateConfig, error) {
	var rate domain.TaxRateConfig
	err := r.db.GetContext(ctx, &rate,
		`SELECT * FROM tax_rates
		 WHERE jurisdiction_code = $1 AND effective_to IS NULL`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jurisdictionRepo.GetTaxRate: %w", err)
	}
	return &rate, nil
}

func (r *jurisdictionRepo) GetMarketplaceRule(ctx context.Context, code string) (*domain.MarketplaceFacilitatorRule, error) {
	var rule domain.MarketplaceFacilitatorRule
	err := r.db.GetContext(ctx, &rule,
		"SELECT * FROM marketplace_rules WHERE jurisdiction_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jurisdictionRepo.GetMarketplaceRule: %w", err)
	}
	return &rule, nil
}

// jsonConfigRow scans the JSONB-backed configuration tables.
type jsonConfigRow struct {
	JurisdictionCode string `db:"jurisdiction_code"`
	Config           []byte `db:"config"`
}

func (r *jurisdictionRepo) GetInterestPenaltyConfig(ctx context.Context, code string) (*domain.InterestPenaltyConfig, error) {
	var row jsonConfigRow
	err := r.db.GetContext(ctx, &row,
		"SELECT jurisdiction_code, config FROM interest_penalty_configs WHERE jurisdiction_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jurisdictionRepo.GetInterestPenaltyConfig: %w", err)
	}
	var cfg domain.InterestPenaltyConfig
	if err := json.Unmarshal(row.Config, &cfg); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.GetInterestPenaltyConfig unmarshal: %w", err)
	}
	cfg.JurisdictionCode = row.JurisdictionCode
	return &cfg, nil
}

func (r *jurisdictionRepo) GetVDAProgramRules(ctx context.Context, code string) (*domain.VDAProgramRules, error) {
	var row jsonConfigRow
	err := r.db.GetContext(ctx, &row,
		"SELECT jurisdiction_code, config FROM vda_program_rules WHERE jurisdiction_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jurisdictionRepo.GetVDAProgramRules: %w", err)
	}
	var rules domain.VDAProgramRules
	if err := json.Unmarshal(row.Config, &rules); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.GetVDAProgramRules unmarshal: %w", err)
	}
	return &rules, nil
}

func (r *jurisdictionRepo) UpsertJurisdiction(ctx context.Context, j *domain.Jurisdiction) error {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jurisdictions (code, name, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`,
		j.Code, j.Name, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertJurisdiction: %w", err)
	}
	return nil
}

// UpsertThresholdRule closes the current rule version, if any, and inserts the
// new one as current. History stays queryable by effective range.
func (r *jurisdictionRepo) UpsertThresholdRule(ctx context.Context, rule *domain.ThresholdRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertThresholdRule begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE threshold_rules SET effective_to = $1
		 WHERE jurisdiction_code = $2 AND effective_to IS NULL`,
		rule.EffectiveFrom, rule.JurisdictionCode); err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertThresholdRule close: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO threshold_rules
		 (jurisdiction_code, revenue_threshold, transaction_threshold, operator, lookback_strategy,
		  anniversary_month, anniversary_day, effective_from, effective_to)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL)`,
		rule.JurisdictionCode, rule.RevenueThreshold, rule.TransactionThreshold,
		rule.Operator, rule.LookbackStrategy, rule.AnniversaryMonth, rule.AnniversaryDay,
		rule.EffectiveFrom); err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertThresholdRule insert: %w", err)
	}
	return tx.Commit()
}

// UpsertTaxRate versions rates the same way threshold rules are versioned.
func (r *jurisdictionRepo) UpsertTaxRate(ctx context.Context, rate *domain.TaxRateConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertTaxRate begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE tax_rates SET effective_to = $1
		 WHERE jurisdiction_code = $2 AND effective_to IS NULL`,
		rate.EffectiveFrom, rate.JurisdictionCode); err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertTaxRate close: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tax_rates (jurisdiction_code, combined_rate, effective_from, effective_to)
		 VALUES ($1, $2, $3, NULL)`,
		rate.JurisdictionCode, rate.CombinedRate, rate.EffectiveFrom); err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertTaxRate insert: %w", err)
	}
	return tx.Commit()
}

func (r *jurisdictionRepo) UpsertMarketplaceRule(ctx context.Context, rule *domain.MarketplaceFacilitatorRule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO marketplace_rules (jurisdiction_code, exclude_from_liability)
		 VALUES ($1, $2)
		 ON CONFLICT (jurisdiction_code) DO UPDATE SET exclude_from_liability = EXCLUDED.exclude_from_liability`,
		rule.JurisdictionCode, rule.ExcludeFromLiability)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertMarketplaceRule: %w", err)
	}
	return nil
}

func (r *jurisdictionRepo) UpsertInterestPenaltyConfig(ctx context.Context, cfg *domain.InterestPenaltyConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertInterestPenaltyConfig marshal: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO interest_penalty_configs (jurisdiction_code, config, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (jurisdiction_code) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		cfg.JurisdictionCode, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertInterestPenaltyConfig: %w", err)
	}
	return nil
}

func (r *jurisdictionRepo) UpsertVDAProgramRules(ctx context.Context, code string, rules *domain.VDAProgramRules) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertVDAProgramRules marshal: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO vda_program_rules (jurisdiction_code, config, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (jurisdiction_code) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		code, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("jurisdictionRepo.UpsertVDAProgramRules: %w", err)
	}
	return nil
}

func (r *jurisdictionRepo) LoadSnapshot(ctx context.Context) (*nexus.Snapshot, error) {
	snap := &nexus.Snapshot{
		Thresholds:      map[string]*domain.ThresholdRule{},
		Rates:           map[string]*domain.TaxRateConfig{},
		Marketplace:     map[string]*domain.MarketplaceFacilitatorRule{},
		InterestPenalty: map[string]*domain.InterestPenaltyConfig{},
		PhysicalNexus:   map[string]time.Time{},
	}

	jurisdictions, err := r.ListJurisdictions(ctx)
	if err != nil {
		return nil, err
	}
	for _, j := range jurisdictions {
		snap.JurisdictionCodes = append(snap.JurisdictionCodes, j.Code)
	}

	var thresholds []domain.ThresholdRule
	if err := r.db.SelectContext(ctx, &thresholds,
		"SELECT * FROM threshold_rules WHERE effective_to IS NULL"); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadSnapshot thresholds: %w", err)
	}
	for i := range thresholds {
		snap.Thresholds[thresholds[i].JurisdictionCode] = &thresholds[i]
	}

	var rates []domain.TaxRateConfig
	if err := r.db.SelectContext(ctx, &rates,
		"SELECT * FROM tax_rates WHERE effective_to IS NULL"); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadSnapshot rates: %w", err)
	}
	for i := range rates {
		snap.Rates[rates[i].JurisdictionCode] = &rates[i]
	}

	var marketplace []domain.MarketplaceFacilitatorRule
	if err := r.db.SelectContext(ctx, &marketplace,
		"SELECT * FROM marketplace_rules"); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadSnapshot marketplace: %w", err)
	}
	for i := range marketplace {
		snap.Marketplace[marketplace[i].JurisdictionCode] = &marketplace[i]
	}

	var configs []jsonConfigRow
	if err := r.db.SelectContext(ctx, &configs,
		"SELECT jurisdiction_code, config FROM interest_penalty_configs"); err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadSnapshot interest penalty: %w", err)
	}
	for _, row := range configs {
		var cfg domain.InterestPenaltyConfig
		if err := json.Unmarshal(row.Config, &cfg); err != nil {
			return nil, fmt.Errorf("jurisdictionRepo.LoadSnapshot unmarshal %s: %w", row.JurisdictionCode, err)
		}
		cfg.JurisdictionCode = row.JurisdictionCode
		snap.InterestPenalty[row.JurisdictionCode] = &cfg
	}

	return snap, nil
}

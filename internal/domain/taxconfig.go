package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction is one taxing jurisdiction known to the system.
type Jurisdiction struct {
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ThresholdRule is a jurisdiction's economic-nexus threshold, versioned by
// effective date range. At least one of the two thresholds is present.
type ThresholdRule struct {
	JurisdictionCode     string            `db:"jurisdiction_code" json:"jurisdiction_code"`
	RevenueThreshold     *decimal.Decimal  `db:"revenue_threshold" json:"revenue_threshold,omitempty"`
	TransactionThreshold *int              `db:"transaction_threshold" json:"transaction_threshold,omitempty"`
	Operator             ThresholdOperator `db:"operator" json:"operator"`
	LookbackStrategy     string            `db:"lookback_strategy" json:"lookback_strategy"`
	// Fixed-anniversary strategies measure a 12-month window ending on this
	// month/day each year. Ignored by the other strategies.
	AnniversaryMonth int        `db:"anniversary_month" json:"anniversary_month,omitempty"`
	AnniversaryDay   int        `db:"anniversary_day" json:"anniversary_day,omitempty"`
	EffectiveFrom    time.Time  `db:"effective_from" json:"effective_from"`
	EffectiveTo      *time.Time `db:"effective_to" json:"effective_to,omitempty"`
}

// TaxRateConfig is the single effective combined rate for a jurisdiction.
// The rate is a fraction (0.0825 means 8.25%), never a percentage; it is
// applied to exposure sales exactly as stored.
type TaxRateConfig struct {
	JurisdictionCode string          `db:"jurisdiction_code" json:"jurisdiction_code"`
	CombinedRate     decimal.Decimal `db:"combined_rate" json:"combined_rate"`
	EffectiveFrom    time.Time       `db:"effective_from" json:"effective_from"`
	EffectiveTo      *time.Time      `db:"effective_to" json:"effective_to,omitempty"`
}

// MarketplaceFacilitatorRule controls whether marketplace-channel sales are
// excluded from exposure (the facilitator is presumed to remit). Exclusion is
// the default when a jurisdiction has no rule row.
type MarketplaceFacilitatorRule struct {
	JurisdictionCode     string `db:"jurisdiction_code" json:"jurisdiction_code"`
	ExcludeFromLiability bool   `db:"exclude_from_liability" json:"exclude_from_liability"`
}

// RatePeriod is one slice of a split-rate interest configuration. End is
// exclusive. A zero Method falls back to the parent config's method.
type RatePeriod struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Method     InterestMethod  `json:"method,omitempty"`
}

// InterestConfig describes how a jurisdiction accrues interest on unpaid tax.
type InterestConfig struct {
	Method        InterestMethod   `json:"method"`
	AnnualRate    decimal.Decimal  `json:"annual_rate"`
	Periods       []RatePeriod     `json:"periods,omitempty"`
	MinimumAmount *decimal.Decimal `json:"minimum_amount,omitempty"`
}

// PenaltyTier is one [StartDay, EndDay) bracket of a tiered penalty.
// EndDay zero means open-ended.
type PenaltyTier struct {
	StartDay int             `json:"start_day"`
	EndDay   int             `json:"end_day"`
	Rate     decimal.Decimal `json:"rate"`
}

// MinimumStep is an escalating minimum that takes effect once days-late
// reaches AfterDays.
type MinimumStep struct {
	AfterDays int             `json:"after_days"`
	Amount    decimal.Decimal `json:"amount"`
}

// PenaltyRule is one penalty a jurisdiction may assess. Shape selects the
// formula; only the fields that shape reads are meaningful.
type PenaltyRule struct {
	Kind                 PenaltyKind     `json:"kind"`
	Shape                PenaltyShape    `json:"shape"`
	BaseIncludesInterest bool            `json:"base_includes_interest,omitempty"`
	Rate                 decimal.Decimal `json:"rate,omitempty"`
	MaxRate              decimal.Decimal `json:"max_rate,omitempty"`
	MinAmount            decimal.Decimal `json:"min_amount,omitempty"`
	FlatFee              decimal.Decimal `json:"flat_fee,omitempty"`
	RatePerPeriod        decimal.Decimal `json:"rate_per_period,omitempty"`
	PeriodUnit           PeriodUnit      `json:"period_unit,omitempty"`
	AmountPerDay         decimal.Decimal `json:"amount_per_day,omitempty"`
	MaxAmount            decimal.Decimal `json:"max_amount,omitempty"`
	Tiers                []PenaltyTier   `json:"tiers,omitempty"`
	BaseRate             decimal.Decimal `json:"base_rate,omitempty"`
	ExtraRate            decimal.Decimal `json:"extra_rate,omitempty"`
	ExtraAfterDays       int             `json:"extra_after_days,omitempty"`
	EscalatingMins       []MinimumStep   `json:"escalating_mins,omitempty"`
}

// CombinedCap limits the sum of the named penalty kinds to a fraction of the
// tax base; members are scaled down proportionally when exceeded.
type CombinedCap struct {
	Kinds           []PenaltyKind   `json:"kinds"`
	MaxCombinedRate decimal.Decimal `json:"max_combined_rate"`
}

// InterestPenaltyConfig bundles a jurisdiction's interest and penalty rules.
type InterestPenaltyConfig struct {
	JurisdictionCode string         `json:"jurisdiction_code"`
	Interest         InterestConfig `json:"interest"`
	Penalties        []PenaltyRule  `json:"penalties,omitempty"`
	CombinedCap      *CombinedCap   `json:"combined_cap,omitempty"`
}

// VDAProgramRules are a jurisdiction's voluntary-disclosure program terms.
type VDAProgramRules struct {
	PenaltiesWaived bool `json:"penalties_waived"`
	InterestWaived  bool `json:"interest_waived"`
	LookbackMonths  int  `json:"lookback_months"`
}

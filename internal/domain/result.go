package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PenaltyBreakdown maps penalty kind to its assessed amount. Stored as JSONB.
type PenaltyBreakdown map[PenaltyKind]decimal.Decimal

// Total sums all penalty components.
func (b PenaltyBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

// Value implements driver.Valuer for JSONB storage.
func (b PenaltyBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB storage.
func (b *PenaltyBreakdown) Scan(src interface{}) error {
	if src == nil {
		*b = PenaltyBreakdown{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		if s, sok := src.(string); sok {
			data = []byte(s)
		} else {
			return fmt.Errorf("PenaltyBreakdown.Scan: unsupported type %T", src)
		}
	}
	return json.Unmarshal(data, b)
}

// StringList is a JSONB-backed list of strings.
type StringList []string

// Value implements driver.Valuer for JSONB storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		if s, sok := src.(string); sok {
			data = []byte(s)
		} else {
			return fmt.Errorf("StringList.Scan: unsupported type %T", src)
		}
	}
	return json.Unmarshal(data, l)
}

// YearResult is one jurisdiction-year outcome of a run. The full set is
// discarded and regenerated on every run.
//
// Invariants: EstimatedLiability = BaseTax + Interest + PenaltyBreakdown.Total()
// and ExposureSales <= TaxableSales <= GrossSales.
type YearResult struct {
	ID               uuid.UUID `db:"id" json:"id"`
	AnalysisID       uuid.UUID `db:"analysis_id" json:"analysis_id"`
	JurisdictionCode string    `db:"jurisdiction_code" json:"jurisdiction_code"`
	Year             int       `db:"year" json:"year"`

	NexusType       NexusType  `db:"nexus_type" json:"nexus_type"`
	NexusDate       *time.Time `db:"nexus_date" json:"nexus_date,omitempty"`
	ObligationStart *time.Time `db:"obligation_start" json:"obligation_start,omitempty"`
	FirstNexusYear  *int       `db:"first_nexus_year" json:"first_nexus_year,omitempty"`

	GrossSales       decimal.Decimal `db:"gross_sales" json:"gross_sales"`
	ExemptSales      decimal.Decimal `db:"exempt_sales" json:"exempt_sales"`
	TaxableSales     decimal.Decimal `db:"taxable_sales" json:"taxable_sales"`
	ExposureSales    decimal.Decimal `db:"exposure_sales" json:"exposure_sales"`
	DirectSales      decimal.Decimal `db:"direct_sales" json:"direct_sales"`
	MarketplaceSales decimal.Decimal `db:"marketplace_sales" json:"marketplace_sales"`
	TransactionCount int             `db:"transaction_count" json:"transaction_count"`

	BaseTax            decimal.Decimal  `db:"base_tax" json:"base_tax"`
	Interest           decimal.Decimal  `db:"interest" json:"interest"`
	PenaltyBreakdown   PenaltyBreakdown `db:"penalty_breakdown" json:"penalty_breakdown"`
	EstimatedLiability decimal.Decimal  `db:"estimated_liability" json:"estimated_liability"`

	// CalculationErrors is non-empty when an accrual computation failed and
	// its amount was zeroed; a zero here is not "nothing owed".
	CalculationErrors StringList `db:"calculation_errors" json:"calculation_errors,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// VDAScenario is a saved voluntary-disclosure comparison for an analysis.
type VDAScenario struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	AnalysisID uuid.UUID       `db:"analysis_id" json:"analysis_id"`
	Name       string          `db:"name" json:"name"`
	FilingDate time.Time       `db:"filing_date" json:"filing_date"`
	Input      json.RawMessage `db:"input" json:"input"`
	Outcome    json.RawMessage `db:"outcome" json:"outcome"`
	CreatedBy  uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents an isolated organizational tenant (an accounting firm or
// a self-serve business).
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded sales export.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Analysis is one nexus study for a business: a set of transactions plus the
// result rows of the most recent run.
type Analysis struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	TenantID     uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	Name         string         `db:"name" json:"name"`
	BusinessName string         `db:"business_name" json:"business_name"`
	Status       AnalysisStatus `db:"status" json:"status"`
	CutoffDate   time.Time      `db:"cutoff_date" json:"cutoff_date"`
	RunError     string         `db:"run_error" json:"run_error"`
	CreatedBy    uuid.UUID      `db:"created_by" json:"created_by"`
	CompletedAt  *time.Time     `db:"completed_at" json:"completed_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable historical sale. The taxable amount is always
// derived, never stored.
type Transaction struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	AnalysisID       uuid.UUID        `db:"analysis_id" json:"analysis_id"`
	Seq              int              `db:"seq" json:"seq"`
	Date             time.Time        `db:"txn_date" json:"date"`
	JurisdictionCode string           `db:"jurisdiction_code" json:"jurisdiction_code"`
	GrossAmount      decimal.Decimal  `db:"gross_amount" json:"gross_amount"`
	Channel          Channel          `db:"channel" json:"channel"`
	ExemptAmount     *decimal.Decimal `db:"exempt_amount" json:"exempt_amount,omitempty"`
	Taxable          *bool            `db:"taxable" json:"taxable,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}

// TaxableAmount derives the taxable portion of the sale: gross minus any
// explicit exemption clamped to [0, gross]; zero when explicitly flagged
// non-taxable; gross otherwise.
func (t *Transaction) TaxableAmount() decimal.Decimal {
	if t.ExemptAmount != nil {
		taxable := t.GrossAmount.Sub(*t.ExemptAmount)
		if taxable.IsNegative() {
			return decimal.Zero
		}
		if taxable.GreaterThan(t.GrossAmount) {
			return t.GrossAmount
		}
		return taxable
	}
	if t.Taxable != nil && !*t.Taxable {
		return decimal.Zero
	}
	return t.GrossAmount
}

// PhysicalNexusRecord forces nexus in a jurisdiction regardless of economic
// thresholds, supplied by the client (employees, inventory, offices).
type PhysicalNexusRecord struct {
	ID               uuid.UUID `db:"id" json:"id"`
	AnalysisID       uuid.UUID `db:"analysis_id" json:"analysis_id"`
	JurisdictionCode string    `db:"jurisdiction_code" json:"jurisdiction_code"`
	EstablishedDate  time.Time `db:"established_date" json:"established_date"`
	Note             string    `db:"note" json:"note"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

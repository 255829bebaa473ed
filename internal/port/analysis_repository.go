package port

import (
	"context"

	"github.com/google/uuid"

	"saltscope/internal/domain"
)

// AnalysisRepository defines the contract for analysis persistence.
// All query methods include tenantID for tenant isolation.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error)
	Update(ctx context.Context, analysis *domain.Analysis) error
	// SetRunning transitions a draft/completed/failed analysis to running.
	// Returns domain.ErrAnalysisRunning when a run is already in flight.
	SetRunning(ctx context.Context, tenantID, analysisID uuid.UUID) error
	Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error
}

// TransactionRepository defines the contract for the immutable transaction
// store behind an analysis.
type TransactionRepository interface {
	// BulkInsert writes an imported batch in one round trip, preserving the
	// sequence numbers assigned at ingestion.
	BulkInsert(ctx context.Context, txns []domain.Transaction) error
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.Transaction, error)
	CountByAnalysis(ctx context.Context, analysisID uuid.UUID) (int, error)
	DeleteByAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

// PhysicalNexusRepository stores client-declared physical presence per
// analysis.
type PhysicalNexusRepository interface {
	Create(ctx context.Context, record *domain.PhysicalNexusRecord) error
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error)
	Delete(ctx context.Context, analysisID, recordID uuid.UUID) error
}

// YearResultRepository stores the regenerated per-jurisdiction-year results of
// an analysis run.
type YearResultRepository interface {
	// ReplaceForAnalysis atomically deletes the previous result set and
	// inserts the new one.
	ReplaceForAnalysis(ctx context.Context, analysisID uuid.UUID, results []domain.YearResult) error
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.YearResult, error)
	ListByJurisdiction(ctx context.Context, analysisID uuid.UUID, code string) ([]domain.YearResult, error)
}

// VDAScenarioRepository stores saved voluntary-disclosure comparisons.
type VDAScenarioRepository interface {
	Create(ctx context.Context, scenario *domain.VDAScenario) error
	GetByID(ctx context.Context, analysisID, scenarioID uuid.UUID) (*domain.VDAScenario, error)
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.VDAScenario, error)
	Delete(ctx context.Context, analysisID, scenarioID uuid.UUID) error
}

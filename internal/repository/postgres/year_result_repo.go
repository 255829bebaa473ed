package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"saltscope/internal/domain"
	"saltscope/internal/port"
)

type yearResultRepo struct {
	db *sqlx.DB
}

// NewYearResultRepo creates a new PostgreSQL-backed YearResultRepository.
func NewYearResultRepo(db *sqlx.DB) port.YearResultRepository {
	return &yearResultRepo{db: db}
}

func (r *yearResultRepo) ReplaceForAnalysis(ctx context.Context, analysisID uuid.UUID, results []domain.YearResult) error {
	now := time.Now().UTC()
	for i := range results {
		if results[i].ID == uuid.Nil {
			results[i].ID = uuid.New()
		}
		results[i].AnalysisID = analysisID
		results[i].CreatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("yearResultRepo.ReplaceForAnalysis begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM year_results WHERE analysis_id = $1", analysisID); err != nil {
		return fmt.Errorf("yearResultRepo.ReplaceForAnalysis delete: %w", err)
	}

	query := `INSERT INTO year_results
		(id, analysis_id, jurisdiction_code, year, nexus_type, nexus_date, obligation_start, first_nexus_year,
		 gross_sales, exempt_sales, taxable_sales, exposure_sales, direct_sales, marketplace_sales, transaction_count,
		 base_tax, interest, penalty_breakdown, estimated_liability, calculation_errors, created_at)
		VALUES (:id, :analysis_id, :jurisdiction_code, :year, :nexus_type, :nexus_date, :obligation_start, :first_nexus_year,
		 :gross_sales, :exempt_sales, :taxable_sales, :exposure_sales, :direct_sales, :marketplace_sales, :transaction_count,
		 :base_tax, :interest, :penalty_breakdown, :estimated_liability, :calculation_errors, :created_at)`

	for start := 0; start < len(results); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(results) {
			end = len(results)
		}
		if _, err := tx.NamedExecContext(ctx, query, results[start:end]); err != nil {
			return fmt.Errorf("yearResultRepo.ReplaceForAnalysis insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("yearResultRepo.ReplaceForAnalysis commit: %w", err)
	}
	return nil
}

func (r *yearResultRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.YearResult, error) {
	var results []domain.YearResult
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM year_results WHERE analysis_id = $1
		 ORDER BY jurisdiction_code, year`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("yearResultRepo.ListByAnalysis: %w", err)
	}
	return results, nil
}

func (r *yearResultRepo) ListByJurisdiction(ctx context.Context, analysisID uuid.UUID, code string) ([]domain.YearResult, error) {
	var results []domain.YearResult
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM year_results WHERE analysis_id = $1 AND jurisdiction_code = $2
		 ORDER BY year`, analysisID, code)
	if err != nil {
		return nil, fmt.Errorf("yearResultRepo.ListByJurisdiction: %w", err)
	}
	return results, nil
}

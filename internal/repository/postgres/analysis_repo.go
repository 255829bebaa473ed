package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"saltscope/internal/domain"
	"saltscope/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, analysis *domain.Analysis) error {
	now := time.Now().UTC()
	analysis.CreatedAt = now
	analysis.UpdatedAt = now

	query := `INSERT INTO analyses
		(id, tenant_id, name, business_name, status, cutoff_date, run_error, created_by, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID, analysis.TenantID, analysis.Name, analysis.BusinessName,
		analysis.Status, analysis.CutoffDate, analysis.RunError, analysis.CreatedBy,
		analysis.CompletedAt, analysis.CreatedAt, analysis.UpdatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	var analysis domain.Analysis
	err := r.db.GetContext(ctx, &analysis,
		"SELECT * FROM analyses WHERE id = $1 AND tenant_id = $2", analysisID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM analyses WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByTenant count: %w", err)
	}

	var analyses []domain.Analysis
	err = r.db.SelectContext(ctx, &analyses,
		`SELECT * FROM analyses WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByTenant: %w", err)
	}
	return analyses, total, nil
}

func (r *analysisRepo) Update(ctx context.Context, analysis *domain.Analysis) error {
	analysis.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE analyses
		 SET name = $1, business_name = $2, status = $3, cutoff_date = $4,
		     run_error = $5, completed_at = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9`,
		analysis.Name, analysis.BusinessName, analysis.Status, analysis.CutoffDate,
		analysis.RunError, analysis.CompletedAt, analysis.UpdatedAt,
		analysis.ID, analysis.TenantID)
	if err != nil {
		return fmt.Errorf("analysisRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

// SetRunning is the run-claim gate: the status predicate makes concurrent run
// requests race on a single row update, so only one wins.
func (r *analysisRepo) SetRunning(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET status = $1, run_error = '', updated_at = $2
		 WHERE id = $3 AND tenant_id = $4 AND status != $1`,
		domain.AnalysisStatusRunning, time.Now().UTC(), analysisID, tenantID)
	if err != nil {
		return fmt.Errorf("analysisRepo.SetRunning: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the analysis does not exist or a run is already in flight.
		if _, err := r.GetByID(ctx, tenantID, analysisID); err != nil {
			return err
		}
		return domain.ErrAnalysisRunning
	}
	return nil
}

func (r *analysisRepo) Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM analyses WHERE id = $1 AND tenant_id = $2", analysisID, tenantID)
	if err != nil {
		return fmt.Errorf("analysisRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

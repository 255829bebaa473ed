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

type physicalNexusRepo struct {
	db *sqlx.DB
}

// NewPhysicalNexusRepo creates a new PostgreSQL-backed PhysicalNexusRepository.
func NewPhysicalNexusRepo(db *sqlx.DB) port.PhysicalNexusRepository {
	return &physicalNexusRepo{db: db}
}

func (r *physicalNexusRepo) Create(ctx context.Context, record *domain.PhysicalNexusRecord) error {
	record.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO physical_nexus_records (id, analysis_id, jurisdiction_code, established_date, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.AnalysisID, record.JurisdictionCode,
		record.EstablishedDate, record.Note, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("physicalNexusRepo.Create: %w", err)
	}
	return nil
}

func (r *physicalNexusRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error) {
	var records []domain.PhysicalNexusRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM physical_nexus_records WHERE analysis_id = $1
		 ORDER BY jurisdiction_code, established_date`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("physicalNexusRepo.ListByAnalysis: %w", err)
	}
	return records, nil
}

func (r *physicalNexusRepo) Delete(ctx context.Context, analysisID, recordID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM physical_nexus_records WHERE id = $1 AND analysis_id = $2",
		recordID, analysisID)
	if err != nil {
		return fmt.Errorf("physicalNexusRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

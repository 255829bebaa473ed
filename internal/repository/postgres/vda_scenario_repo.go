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

type vdaScenarioRepo struct {
	db *sqlx.DB
}

// NewVDAScenarioRepo creates a new PostgreSQL-backed VDAScenarioRepository.
func NewVDAScenarioRepo(db *sqlx.DB) port.VDAScenarioRepository {
	return &vdaScenarioRepo{db: db}
}

func (r *vdaScenarioRepo) Create(ctx context.Context, scenario *domain.VDAScenario) error {
	scenario.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vda_scenarios (id, analysis_id, name, filing_date, input, outcome, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		scenario.ID, scenario.AnalysisID, scenario.Name, scenario.FilingDate,
		scenario.Input, scenario.Outcome, scenario.CreatedBy, scenario.CreatedAt)
	if err != nil {
		return fmt.Errorf("vdaScenarioRepo.Create: %w", err)
	}
	return nil
}

func (r *vdaScenarioRepo) GetByID(ctx context.Context, analysisID, scenarioID uuid.UUID) (*domain.VDAScenario, error) {
	var scenario domain.VDAScenario
	err := r.db.GetContext(ctx, &scenario,
		"SELECT * FROM vda_scenarios WHERE id = $1 AND analysis_id = $2", scenarioID, analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("vdaScenarioRepo.GetByID: %w", err)
	}
	return &scenario, nil
}

func (r *vdaScenarioRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.VDAScenario, error) {
	var scenarios []domain.VDAScenario
	err := r.db.SelectContext(ctx, &scenarios,
		`SELECT * FROM vda_scenarios WHERE analysis_id = $1
		 ORDER BY created_at DESC`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("vdaScenarioRepo.ListByAnalysis: %w", err)
	}
	return scenarios, nil
}

func (r *vdaScenarioRepo) Delete(ctx context.Context, analysisID, scenarioID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM vda_scenarios WHERE id = $1 AND analysis_id = $2", scenarioID, analysisID)
	if err != nil {
		return fmt.Errorf("vdaScenarioRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

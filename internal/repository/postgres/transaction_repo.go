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

type transactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionRepository.
func NewTransactionRepo(db *sqlx.DB) port.TransactionRepository {
	return &transactionRepo{db: db}
}

// insertBatchSize keeps each multi-row INSERT under the postgres parameter
// limit (9 columns per row, 65535 parameters max).
const insertBatchSize = 5000

func (r *transactionRepo) BulkInsert(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range txns {
		txns[i].CreatedAt = now
	}

	query := `INSERT INTO transactions
		(id, analysis_id, seq, txn_date, jurisdiction_code, gross_amount, channel, exempt_amount, taxable, created_at)
		VALUES (:id, :analysis_id, :seq, :txn_date, :jurisdiction_code, :gross_amount, :channel, :exempt_amount, :taxable, :created_at)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transactionRepo.BulkInsert begin: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(txns); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(txns) {
			end = len(txns)
		}
		if _, err := tx.NamedExecContext(ctx, query, txns[start:end]); err != nil {
			return fmt.Errorf("transactionRepo.BulkInsert batch %d: %w", start/insertBatchSize, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transactionRepo.BulkInsert commit: %w", err)
	}
	return nil
}

func (r *transactionRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := r.db.SelectContext(ctx, &txns,
		`SELECT * FROM transactions WHERE analysis_id = $1
		 ORDER BY txn_date, seq`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.ListByAnalysis: %w", err)
	}
	return txns, nil
}

func (r *transactionRepo) CountByAnalysis(ctx context.Context, analysisID uuid.UUID) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM transactions WHERE analysis_id = $1", analysisID)
	if err != nil {
		return 0, fmt.Errorf("transactionRepo.CountByAnalysis: %w", err)
	}
	return total, nil
}

func (r *transactionRepo) DeleteByAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE analysis_id = $1", analysisID)
	if err != nil {
		return fmt.Errorf("transactionRepo.DeleteByAnalysis: %w", err)
	}
	return nil
}

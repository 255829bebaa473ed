package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
)

// MockTransactionRepo is a mock implementation of port.TransactionRepository.
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) BulkInsert(ctx context.Context, txns []domain.Transaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockTransactionRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.Transaction, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) CountByAnalysis(ctx context.Context, analysisID uuid.UUID) (int, error) {
	args := m.Called(ctx, analysisID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepo) DeleteByAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	args := m.Called(ctx, analysisID)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
)

// MockYearResultRepo is a mock implementation of port.YearResultRepository.
type MockYearResultRepo struct {
	mock.Mock
}

func (m *MockYearResultRepo) ReplaceForAnalysis(ctx context.Context, analysisID uuid.UUID, results []domain.YearResult) error {
	args := m.Called(ctx, analysisID, results)
	return args.Error(0)
}

func (m *MockYearResultRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.YearResult, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearResult), args.Error(1)
}

func (m *MockYearResultRepo) ListByJurisdiction(ctx context.Context, analysisID uuid.UUID, code string) ([]domain.YearResult, error) {
	args := m.Called(ctx, analysisID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearResult), args.Error(1)
}

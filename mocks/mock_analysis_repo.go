package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
)

// MockAnalysisRepo is a mock implementation of port.AnalysisRepository.
type MockAnalysisRepo struct {
	mock.Mock
}

func (m *MockAnalysisRepo) Create(ctx context.Context, analysis *domain.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepo) GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	args := m.Called(ctx, tenantID, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Analysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisRepo) Update(ctx context.Context, analysis *domain.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepo) SetRunning(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	args := m.Called(ctx, tenantID, analysisID)
	return args.Error(0)
}

func (m *MockAnalysisRepo) Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	args := m.Called(ctx, tenantID, analysisID)
	return args.Error(0)
}

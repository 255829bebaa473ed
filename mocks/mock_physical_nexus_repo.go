package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
)

// MockPhysicalNexusRepo is a mock implementation of port.PhysicalNexusRepository.
type MockPhysicalNexusRepo struct {
	mock.Mock
}

func (m *MockPhysicalNexusRepo) Create(ctx context.Context, record *domain.PhysicalNexusRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPhysicalNexusRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhysicalNexusRecord), args.Error(1)
}

func (m *MockPhysicalNexusRepo) Delete(ctx context.Context, analysisID, recordID uuid.UUID) error {
	args := m.Called(ctx, analysisID, recordID)
	return args.Error(0)
}

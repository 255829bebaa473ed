package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
)

// MockVDAScenarioRepo is a mock implementation of port.VDAScenarioRepository.
type MockVDAScenarioRepo struct {
	mock.Mock
}

func (m *MockVDAScenarioRepo) Create(ctx context.Context, scenario *domain.VDAScenario) error {
	args := m.Called(ctx, scenario)
	return args.Error(0)
}

func (m *MockVDAScenarioRepo) GetByID(ctx context.Context, analysisID, scenarioID uuid.UUID) (*domain.VDAScenario, error) {
	args := m.Called(ctx, analysisID, scenarioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VDAScenario), args.Error(1)
}

func (m *MockVDAScenarioRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.VDAScenario, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VDAScenario), args.Error(1)
}

func (m *MockVDAScenarioRepo) Delete(ctx context.Context, analysisID, scenarioID uuid.UUID) error {
	args := m.Called(ctx, analysisID, scenarioID)
	return args.Error(0)
}

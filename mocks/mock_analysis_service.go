package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"saltscope/internal/domain"
	"saltscope/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Create(ctx context.Context, input service.CreateAnalysisInput) (*domain.Analysis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	args := m.Called(ctx, tenantID, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Analysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) Update(ctx context.Context, tenantID, analysisID uuid.UUID, input service.UpdateAnalysisInput) (*domain.Analysis, error) {
	args := m.Called(ctx, tenantID, analysisID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	args := m.Called(ctx, tenantID, analysisID)
	return args.Error(0)
}

func (m *MockAnalysisService) ImportFile(ctx context.Context, input service.ImportFileInput) (*service.ImportSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportSummary), args.Error(1)
}

func (m *MockAnalysisService) AddPhysicalNexus(ctx context.Context, input service.AddPhysicalNexusInput) (*domain.PhysicalNexusRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhysicalNexusRecord), args.Error(1)
}

func (m *MockAnalysisService) ListPhysicalNexus(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error) {
	args := m.Called(ctx, tenantID, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhysicalNexusRecord), args.Error(1)
}

func (m *MockAnalysisService) DeletePhysicalNexus(ctx context.Context, tenantID, analysisID, recordID uuid.UUID) error {
	args := m.Called(ctx, tenantID, analysisID, recordID)
	return args.Error(0)
}

func (m *MockAnalysisService) Run(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	args := m.Called(ctx, tenantID, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) ListResults(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.YearResult, error) {
	args := m.Called(ctx, tenantID, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearResult), args.Error(1)
}

func (m *MockAnalysisService) ListResultsByJurisdiction(ctx context.Context, tenantID, analysisID uuid.UUID, code string) ([]domain.YearResult, error) {
	args := m.Called(ctx, tenantID, analysisID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearResult), args.Error(1)
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saltscope/internal/config"
	"saltscope/internal/domain"
	"saltscope/internal/ingest"
	"saltscope/internal/nexus"
	"saltscope/internal/port"
)

// CreateAnalysisInput is the DTO for creating an analysis.
type CreateAnalysisInput struct {
	TenantID     uuid.UUID
	Name         string
	BusinessName string
	CutoffDate   time.Time
	CreatedBy    uuid.UUID
}

// UpdateAnalysisInput is the DTO for updating a draft analysis.
type UpdateAnalysisInput struct {
	Name         *string    `json:"name"`
	BusinessName *string    `json:"business_name"`
	CutoffDate   *time.Time `json:"cutoff_date"`
}

// ImportFileInput is the DTO for importing an uploaded sales export into an
// analysis.
type ImportFileInput struct {
	TenantID   uuid.UUID
	AnalysisID uuid.UUID
	FileID     uuid.UUID
}

// ImportSummary reports the outcome of a transaction import.
type ImportSummary struct {
	Imported int               `json:"imported"`
	Skipped  []ingest.RowError `json:"skipped,omitempty"`
}

// AddPhysicalNexusInput is the DTO for declaring physical presence.
type AddPhysicalNexusInput struct {
	TenantID         uuid.UUID
	AnalysisID       uuid.UUID
	JurisdictionCode string
	EstablishedDate  time.Time
	Note             string
}

// AnalysisService defines the analysis lifecycle contract: create, import
// transactions, declare physical nexus, run, and read results.
type AnalysisService interface {
	Create(ctx context.Context, input CreateAnalysisInput) (*domain.Analysis, error)
	GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error)
	Update(ctx context.Context, tenantID, analysisID uuid.UUID, input UpdateAnalysisInput) (*domain.Analysis, error)
	Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error

	ImportFile(ctx context.Context, input ImportFileInput) (*ImportSummary, error)

	AddPhysicalNexus(ctx context.Context, input AddPhysicalNexusInput) (*domain.PhysicalNexusRecord, error)
	ListPhysicalNexus(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error)
	DeletePhysicalNexus(ctx context.Context, tenantID, analysisID, recordID uuid.UUID) error

	// Run kicks off a background run and returns the analysis in running
	// state. Results replace the previous set wholesale on success.
	Run(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error)

	ListResults(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.YearResult, error)
	ListResultsByJurisdiction(ctx context.Context, tenantID, analysisID uuid.UUID, code string) ([]domain.YearResult, error)
}

type analysisService struct {
	analysisRepo port.AnalysisRepository
	txnRepo      port.TransactionRepository
	physRepo     port.PhysicalNexusRepository
	resultRepo   port.YearResultRepository
	jurisRepo    port.JurisdictionRepository
	fileRepo     port.FileMetaRepository
	userRepo     port.UserRepository
	storage      port.ObjectStorage
	email        port.EmailSender
	engine       *nexus.Engine
	cfg          config.EngineConfig
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	analysisRepo port.AnalysisRepository,
	txnRepo port.TransactionRepository,
	physRepo port.PhysicalNexusRepository,
	resultRepo port.YearResultRepository,
	jurisRepo port.JurisdictionRepository,
	fileRepo port.FileMetaRepository,
	userRepo port.UserRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	engine *nexus.Engine,
	cfg config.EngineConfig,
) AnalysisService {
	return &analysisService{
		analysisRepo: analysisRepo,
		txnRepo:      txnRepo,
		physRepo:     physRepo,
		resultRepo:   resultRepo,
		jurisRepo:    jurisRepo,
		fileRepo:     fileRepo,
		userRepo:     userRepo,
		storage:      storage,
		email:        email,
		engine:       engine,
		cfg:          cfg,
	}
}

func (s *analysisService) Create(ctx context.Context, input CreateAnalysisInput) (*domain.Analysis, error) {
	cutoff := input.CutoffDate
	if cutoff.IsZero() {
		cutoff = time.Now().UTC()
	}

	analysis := &domain.Analysis{
		ID:           uuid.New(),
		TenantID:     input.TenantID,
		Name:         input.Name,
		BusinessName: input.BusinessName,
		Status:       domain.AnalysisStatusDraft,
		CutoffDate:   cutoff,
		CreatedBy:    input.CreatedBy,
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *analysisService) GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	return s.analysisRepo.GetByID(ctx, tenantID, analysisID)
}

func (s *analysisService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Analysis, int, error) {
	return s.analysisRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *analysisService) Update(ctx context.Context, tenantID, analysisID uuid.UUID, input UpdateAnalysisInput) (*domain.Analysis, error) {
	analysis, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID)
	if err != nil {
		return nil, err
	}
	if analysis.Status == domain.AnalysisStatusRunning {
		return nil, domain.ErrAnalysisRunning
	}

	if input.Name != nil {
		analysis.Name = *input.Name
	}
	if input.BusinessName != nil {
		analysis.BusinessName = *input.BusinessName
	}
	if input.CutoffDate != nil {
		analysis.CutoffDate = *input.CutoffDate
	}

	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *analysisService) Delete(ctx context.Context, tenantID, analysisID uuid.UUID) error {
	analysis, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID)
	if err != nil {
		return err
	}
	if analysis.Status == domain.AnalysisStatusRunning {
		return domain.ErrAnalysisRunning
	}
	return s.analysisRepo.Delete(ctx, tenantID, analysisID)
}

// ImportFile replaces the analysis transaction set with the contents of an
// uploaded sales export. Bad rows are skipped and reported, never fatal.
func (s *analysisService) ImportFile(ctx context.Context, input ImportFileInput) (*ImportSummary, error) {
	analysis, err := s.analysisRepo.GetByID(ctx, input.TenantID, input.AnalysisID)
	if err != nil {
		return nil, err
	}
	if analysis.Status == domain.AnalysisStatusRunning {
		return nil, domain.ErrAnalysisRunning
	}

	meta, err := s.fileRepo.GetByID(ctx, input.TenantID, input.FileID)
	if err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}
	if meta.Status != domain.FileStatusUploaded && meta.Status != domain.FileStatusImported {
		return nil, domain.ErrFileNotImportable
	}

	body, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer body.Close()

	parsed, err := ingest.ParseFile(body, meta.FileType, input.AnalysisID, s.cfg.MaxImportRows)
	if err != nil {
		return nil, err
	}

	log.Printf("analysisService.ImportFile: parsed %d transactions (%d skipped) from file %s for analysis %s",
		len(parsed.Transactions), len(parsed.Skipped), input.FileID, input.AnalysisID)

	if err := s.txnRepo.DeleteByAnalysis(ctx, input.AnalysisID); err != nil {
		return nil, fmt.Errorf("clearing previous transactions: %w", err)
	}
	if err := s.txnRepo.BulkInsert(ctx, parsed.Transactions); err != nil {
		return nil, fmt.Errorf("inserting transactions: %w", err)
	}

	if err := s.fileRepo.UpdateStatus(ctx, input.TenantID, input.FileID, domain.FileStatusImported); err != nil {
		log.Printf("analysisService.ImportFile: failed to mark file %s imported: %v", input.FileID, err)
	}

	return &ImportSummary{
		Imported: len(parsed.Transactions),
		Skipped:  parsed.Skipped,
	}, nil
}

func (s *analysisService) AddPhysicalNexus(ctx context.Context, input AddPhysicalNexusInput) (*domain.PhysicalNexusRecord, error) {
	if _, err := s.analysisRepo.GetByID(ctx, input.TenantID, input.AnalysisID); err != nil {
		return nil, err
	}

	record := &domain.PhysicalNexusRecord{
		ID:               uuid.New(),
		AnalysisID:       input.AnalysisID,
		JurisdictionCode: input.JurisdictionCode,
		EstablishedDate:  input.EstablishedDate,
		Note:             input.Note,
	}
	if err := s.physRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *analysisService) ListPhysicalNexus(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.PhysicalNexusRecord, error) {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	return s.physRepo.ListByAnalysis(ctx, analysisID)
}

func (s *analysisService) DeletePhysicalNexus(ctx context.Context, tenantID, analysisID, recordID uuid.UUID) error {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return err
	}
	return s.physRepo.Delete(ctx, analysisID, recordID)
}

func (s *analysisService) Run(ctx context.Context, tenantID, analysisID uuid.UUID) (*domain.Analysis, error) {
	analysis, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID)
	if err != nil {
		return nil, err
	}

	count, err := s.txnRepo.CountByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNoTransactions
	}

	if err := s.analysisRepo.SetRunning(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	analysis.Status = domain.AnalysisStatusRunning
	analysis.RunError = ""

	// Copy before launching goroutine so the caller's value is independent
	// of background work
	result := *analysis

	go s.runInBackground(tenantID, analysisID)

	return &result, nil
}

func (s *analysisService) runInBackground(tenantID, analysisID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("analysisService.runInBackground: starting run for analysis %s", analysisID)

	analysis, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID)
	if err != nil {
		log.Printf("analysisService.runInBackground: failed to get analysis %s: %v", analysisID, err)
		return
	}

	txns, err := s.txnRepo.ListByAnalysis(ctx, analysisID)
	if err != nil {
		s.failRun(ctx, analysis, fmt.Sprintf("loading transactions: %v", err))
		return
	}

	snap, err := s.jurisRepo.LoadSnapshot(ctx)
	if err != nil {
		s.failRun(ctx, analysis, fmt.Sprintf("loading jurisdiction config: %v", err))
		return
	}

	physical, err := s.physRepo.ListByAnalysis(ctx, analysisID)
	if err != nil {
		s.failRun(ctx, analysis, fmt.Sprintf("loading physical nexus records: %v", err))
		return
	}
	mergePhysicalNexus(snap, physical)

	out := s.engine.Run(nexus.Input{
		Transactions: txns,
		Config:       *snap,
		Cutoff:       analysis.CutoffDate,
	})
	for _, w := range out.Warnings {
		log.Printf("analysisService.runInBackground: analysis %s warning [%s] %s: %s",
			analysisID, w.Kind, w.JurisdictionCode, w.Message)
	}

	if err := nexus.CheckInvariants(out.Results); err != nil {
		s.failRun(ctx, analysis, fmt.Sprintf("result invariant violated: %v", err))
		return
	}

	if err := s.resultRepo.ReplaceForAnalysis(ctx, analysisID, out.Results); err != nil {
		s.failRun(ctx, analysis, fmt.Sprintf("saving results: %v", err))
		return
	}

	now := time.Now().UTC()
	analysis.Status = domain.AnalysisStatusCompleted
	analysis.RunError = ""
	analysis.CompletedAt = &now
	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		log.Printf("analysisService.runInBackground: failed to mark analysis %s completed: %v", analysisID, err)
		return
	}

	log.Printf("analysisService.runInBackground: analysis %s completed with %d result rows", analysisID, len(out.Results))

	s.notifyCompleted(ctx, analysis, out.Results)
}

// mergePhysicalNexus folds client-declared presence into the config snapshot,
// keeping the earliest established date per jurisdiction.
func mergePhysicalNexus(snap *nexus.Snapshot, records []domain.PhysicalNexusRecord) {
	if snap.PhysicalNexus == nil {
		snap.PhysicalNexus = make(map[string]time.Time, len(records))
	}
	for _, rec := range records {
		existing, ok := snap.PhysicalNexus[rec.JurisdictionCode]
		if !ok || rec.EstablishedDate.Before(existing) {
			snap.PhysicalNexus[rec.JurisdictionCode] = rec.EstablishedDate
		}
	}
}

// notifyCompleted emails the analysis creator. Failures are logged and never
// affect the completed run.
func (s *analysisService) notifyCompleted(ctx context.Context, analysis *domain.Analysis, results []domain.YearResult) {
	user, err := s.userRepo.GetByID(ctx, analysis.TenantID, analysis.CreatedBy)
	if err != nil {
		log.Printf("analysisService.notifyCompleted: failed to look up creator of %s: %v", analysis.ID, err)
		return
	}

	summary := summarizeResults(analysis, results)
	if err := s.email.SendAnalysisCompletedEmail(ctx, user.Email, user.FullName, summary); err != nil {
		log.Printf("analysisService.notifyCompleted: failed to send email for %s: %v", analysis.ID, err)
	}
}

func summarizeResults(analysis *domain.Analysis, results []domain.YearResult) port.AnalysisCompletedEmail {
	total := decimal.Zero
	seen := make(map[string]bool)
	withNexus := make(map[string]bool)
	for i := range results {
		r := &results[i]
		seen[r.JurisdictionCode] = true
		if r.NexusType != domain.NexusNone {
			withNexus[r.JurisdictionCode] = true
		}
		total = total.Add(r.EstimatedLiability)
	}
	return port.AnalysisCompletedEmail{
		AnalysisName:       analysis.Name,
		BusinessName:       analysis.BusinessName,
		JurisdictionsTotal: len(seen),
		JurisdictionsNexus: len(withNexus),
		TotalLiability:     "$" + total.StringFixed(2),
	}
}

func (s *analysisService) failRun(ctx context.Context, analysis *domain.Analysis, errMsg string) {
	log.Printf("analysisService.failRun: analysis %s failed: %s", analysis.ID, errMsg)
	analysis.Status = domain.AnalysisStatusFailed
	analysis.RunError = errMsg
	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		log.Printf("analysisService.failRun: failed to update status for %s: %v", analysis.ID, err)
	}
}

func (s *analysisService) ListResults(ctx context.Context, tenantID, analysisID uuid.UUID) ([]domain.YearResult, error) {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByAnalysis(ctx, analysisID)
}

func (s *analysisService) ListResultsByJurisdiction(ctx context.Context, tenantID, analysisID uuid.UUID, code string) ([]domain.YearResult, error) {
	if _, err := s.analysisRepo.GetByID(ctx, tenantID, analysisID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByJurisdiction(ctx, analysisID, code)
}

package noop

import (
	"context"
	"log"

	"saltscope/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendAnalysisCompletedEmail(_ context.Context, toEmail, toName string, summary port.AnalysisCompletedEmail) error {
	log.Printf("[NOOP EMAIL] Analysis completed notice for %s (%s): %q, %d/%d jurisdictions with nexus, total %s",
		toName, toEmail, summary.AnalysisName, summary.JurisdictionsNexus, summary.JurisdictionsTotal, summary.TotalLiability)
	return nil
}

package port

import "context"

// AnalysisCompletedEmail carries the figures for a run-completion notice.
type AnalysisCompletedEmail struct {
	AnalysisName       string
	BusinessName       string
	JurisdictionsTotal int
	JurisdictionsNexus int
	TotalLiability     string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendAnalysisCompletedEmail(ctx context.Context, toEmail, toName string, summary AnalysisCompletedEmail) error
}

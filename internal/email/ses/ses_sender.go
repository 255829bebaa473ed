package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"saltscope/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendAnalysisCompletedEmail(ctx context.Context, toEmail, toName string, summary port.AnalysisCompletedEmail) error {
	subject := fmt.Sprintf("Nexus analysis %q is ready", summary.AnalysisName)
	htmlBody := buildCompletedHTML(toName, s.frontendURL, summary)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nThe nexus analysis %q for %s has finished.\n\nJurisdictions reviewed: %d\nJurisdictions with nexus: %d\nTotal estimated liability: %s\n\nView the full results at %s\n\nSaltScope Team",
		toName, summary.AnalysisName, summary.BusinessName,
		summary.JurisdictionsTotal, summary.JurisdictionsNexus, summary.TotalLiability,
		s.frontendURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildCompletedHTML(name, frontendURL string, summary port.AnalysisCompletedEmail) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your nexus analysis is ready</h2>
  <p>Hi %s,</p>
  <p>The analysis <strong>%s</strong> for %s has finished running.</p>
  <ul>
    <li>Jurisdictions reviewed: %d</li>
    <li>Jurisdictions with nexus: %d</li>
    <li>Total estimated liability: %s</li>
  </ul>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Results</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">SaltScope - Sales Tax Nexus Analysis</p>
</body>
</html>`, name, summary.AnalysisName, summary.BusinessName,
		summary.JurisdictionsTotal, summary.JurisdictionsNexus, summary.TotalLiability,
		frontendURL)
}

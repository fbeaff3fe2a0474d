package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"snapdocs/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReviewNotification(ctx context.Context, toEmail string, n port.ReviewNotification) error {
	subject := fmt.Sprintf("Document needs review: %s", n.Filename)
	htmlBody := buildReviewHTML(n)
	textBody := fmt.Sprintf(
		"A scanned document was flagged for human review.\n\nDocument: %s\nID: %s\nType: %s\nConfidence: %.2f (%s)\n\nSnapDocs",
		n.Filename, n.DocumentID, n.DocumentType, n.ConfidenceScore, n.ConfidenceLevel)

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

func buildReviewHTML(n port.ReviewNotification) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Document flagged for review</h2>
  <p>A scanned document did not reach high confidence and needs a human pass:</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Document</td><td style="padding: 4px 0;">%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">ID</td><td style="padding: 4px 0;">%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Detected type</td><td style="padding: 4px 0;">%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Confidence</td><td style="padding: 4px 0;">%.2f (%s)</td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">SnapDocs - Document Scanning Service</p>
</body>
</html>`, n.Filename, n.DocumentID, n.DocumentType, n.ConfidenceScore, n.ConfidenceLevel)
}

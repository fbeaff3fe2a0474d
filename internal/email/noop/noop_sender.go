package noop

import (
	"context"
	"log"

	"snapdocs/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReviewNotification(_ context.Context, toEmail string, n port.ReviewNotification) error {
	log.Printf("[NOOP EMAIL] Review notification to %s: document %s (%s) type=%s confidence=%.2f (%s)",
		toEmail, n.Filename, n.DocumentID, n.DocumentType, n.ConfidenceScore, n.ConfidenceLevel)
	return nil
}

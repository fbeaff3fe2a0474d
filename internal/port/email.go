package port

import "context"

// ReviewNotification carries what a reviewer needs to pick up a flagged scan.
type ReviewNotification struct {
	DocumentID      string
	Filename        string
	DocumentType    string
	ConfidenceLevel string
	ConfidenceScore float64
}

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendReviewNotification(ctx context.Context, toEmail string, n ReviewNotification) error
}

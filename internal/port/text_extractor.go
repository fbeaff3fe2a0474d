package port

import (
	"context"

	"snapdocs/internal/domain"
)

// TextExtractor converts an uploaded file into raw text (direct read for
// plain text, OCR for PDFs and images).
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, fileType domain.FileType) (string, error)
}

package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"snapdocs/internal/domain"
)

// DocumentRepository defines the contract for stored-document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.StoredDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error)
	List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result json.RawMessage, status domain.WorkflowStatus) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkflowStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

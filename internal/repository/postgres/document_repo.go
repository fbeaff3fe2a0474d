package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"snapdocs/internal/domain"
	"snapdocs/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.StoredDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, filename, file_size, file_type, object_key,
		result, status, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Filename, doc.FileSize, doc.FileType, doc.ObjectKey,
		doc.Result, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	var doc domain.StoredDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents")
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.StoredDocument
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateResult(ctx context.Context, id uuid.UUID, result json.RawMessage, status domain.WorkflowStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET result = $1, status = $2, updated_at = $3
		 WHERE id = $4`,
		result, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateResult: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkflowStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $1, updated_at = $2
		 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

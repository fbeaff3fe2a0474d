package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"snapdocs/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.StoredDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredDocument), args.Error(1)
}

func (m *MockDocumentRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredDocument), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepo) UpdateResult(ctx context.Context, id uuid.UUID, result json.RawMessage, status domain.WorkflowStatus) error {
	args := m.Called(ctx, id, result, status)
	return args.Error(0)
}

func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkflowStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

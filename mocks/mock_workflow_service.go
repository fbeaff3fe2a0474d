package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"snapdocs/internal/domain"
	"snapdocs/internal/service"
)

// MockWorkflowService is a mock implementation of service.WorkflowService.
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Run(ctx context.Context, input service.WorkflowInput) (*service.WorkflowOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WorkflowOutcome), args.Error(1)
}

func (m *MockWorkflowService) RunBatch(ctx context.Context, inputs []service.WorkflowInput) (*service.BatchWorkflowOutcome, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchWorkflowOutcome), args.Error(1)
}

func (m *MockWorkflowService) Get(ctx context.Context, id uuid.UUID) (*service.StoredDocumentView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoredDocumentView), args.Error(1)
}

func (m *MockWorkflowService) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredDocument), args.Int(1), args.Error(2)
}

func (m *MockWorkflowService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkflowService) Status(ctx context.Context, id uuid.UUID) (domain.WorkflowStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.WorkflowStatus), args.Error(1)
}

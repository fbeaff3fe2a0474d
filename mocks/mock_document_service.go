package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snapdocs/internal/domain"
	"snapdocs/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Process(ctx context.Context, input service.ProcessInput) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

func (m *MockDocumentService) ProcessBatch(ctx context.Context, inputs []service.ProcessInput) (*domain.BatchResult, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockDocumentService) ValidateFile(filename string, size int64) (*domain.FileInfo, error) {
	args := m.Called(filename, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileInfo), args.Error(1)
}

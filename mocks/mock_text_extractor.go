package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snapdocs/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, content []byte, fileType domain.FileType) (string, error) {
	args := m.Called(ctx, content, fileType)
	return args.String(0), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompletionBackend is a mock implementation of port.CompletionBackend.
type MockCompletionBackend struct {
	mock.Mock
	BackendName string
}

func (m *MockCompletionBackend) Name() string {
	return m.BackendName
}

func (m *MockCompletionBackend) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-finder/internal/llm"
)

// MockProvider is a mock implementation of llm.Provider
type MockProvider struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(llm.CompletionResponse), args.Error(1)
}

// Name mocks the Name method
func (m *MockProvider) Name() string {
	return "mock"
}

// Package llm provides a small interface over OpenAI-compatible completion
// services.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role
	Content string
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// CompletionRequest represents a request to the completion service.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	// MaxTokens caps the output; zero sends no cap.
	MaxTokens int
}

// CompletionResponse represents the completion service response.
type CompletionResponse struct {
	Content      string
	FinishReason string
	Model        string
	Usage        Usage
}

// Provider is the core abstraction over completion backends.
type Provider interface {
	// Complete sends one request. Implementations do not retry.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds each request; zero leaves it to the HTTP client.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// APIError is a failure reported by the completion service with an HTTP
// status. Transport failures are returned as plain wrapped errors.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

package types

import (
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/version"
)

// SearchRequest represents the request body for a recipe search
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse represents a found and formatted recipe
type SearchResponse struct {
	Recipe *service.Result `json:"recipe"`
	// FormattedHTML is the formatted recipe rendered to sanitized HTML
	FormattedHTML string `json:"formatted_html"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status string       `json:"status"`
	Build  version.Info `json:"build"`
}

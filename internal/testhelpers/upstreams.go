// Package testhelpers holds fixtures shared by package and integration tests.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pageza/recipe-finder/config"
)

const (
	SpoonacularKey = "spoon-key"
	OpenAIKey      = "openai-key"
)

// MargheritaDetail is the detail payload served for recipe 42.
const MargheritaDetail = `{
  "id": 42,
  "title": "Margherita Pizza",
  "extendedIngredients": [{"original": "200g mozzarella"}],
  "analyzedInstructions": [{"steps": [{"step": "Preheat oven."}]}]
}`

// DefaultCompletion is the text returned by the completion stand-in.
const DefaultCompletion = "# Margherita Pizza\n\n- 200g mozzarella\n\n1. Preheat oven."

// Completion is one request seen by the completion stand-in.
type Completion struct {
	Prompt      string
	Temperature float64
	MaxTokens   *int
}

// Upstreams stands in for the recipe API and the completion service.
type Upstreams struct {
	Recipes    *httptest.Server
	Completion *httptest.Server

	// SearchBody is served for every search request.
	SearchBody  string
	SearchCalls atomic.Int32
	DetailCalls atomic.Int32

	mu          sync.Mutex
	completions []Completion
}

// NewUpstreams starts both stand-ins; they stop when the test ends.
func NewUpstreams(t *testing.T, searchBody string) *Upstreams {
	t.Helper()
	u := &Upstreams{SearchBody: searchBody}

	u.Recipes = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != SpoonacularKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"failure","code":401,"message":"invalid key"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/recipes/complexSearch":
			u.SearchCalls.Add(1)
			_, _ = w.Write([]byte(u.SearchBody))
		case "/recipes/42/information":
			u.DetailCalls.Add(1)
			_, _ = w.Write([]byte(MargheritaDetail))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(u.Recipes.Close)

	u.Completion = httptest.NewServer(http.HandlerFunc(u.serveCompletion))
	t.Cleanup(u.Completion.Close)

	return u
}

func (u *Upstreams) serveCompletion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Temperature float64 `json:"temperature"`
		MaxTokens   *int    `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	u.mu.Lock()
	u.completions = append(u.completions, Completion{
		Prompt:      body.Messages[len(body.Messages)-1].Content,
		Temperature: body.Temperature,
		MaxTokens:   body.MaxTokens,
	})
	u.mu.Unlock()

	reply := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   config.DefaultLLMModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": DefaultCompletion},
		}},
		"usage": map[string]any{"prompt_tokens": 50, "completion_tokens": 20, "total_tokens": 70},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

// Completions returns the completion requests received so far.
func (u *Upstreams) Completions() []Completion {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Completion(nil), u.completions...)
}

// Config returns a configuration pointing every client at the stand-ins.
func (u *Upstreams) Config() *config.Config {
	return &config.Config{
		Environment:        config.Test,
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		SpoonacularAPIKey:  SpoonacularKey,
		SpoonacularBaseURL: u.Recipes.URL,
		LLMProvider:        "openai",
		LLMBaseURL:         u.Completion.URL + "/",
		LLMModel:           config.DefaultLLMModel,
		LLMTemperature:     config.DefaultTemperature,
		OpenAIAPIKey:       OpenAIKey,
		PromptVariant:      "sorted",
		CacheEnabled:       true,
		CacheTTL:           time.Hour,
		CacheCapacity:      16,
		LogLevel:           "debug",
		LogFormat:          "json",
	}
}

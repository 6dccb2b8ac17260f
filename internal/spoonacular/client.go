// Package spoonacular talks to the Spoonacular recipe API.
package spoonacular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/cache"
	"github.com/pageza/recipe-finder/internal/recipe"
)

// RecipeID is the identifier of a recipe on the API, kept as text.
type RecipeID string

const (
	searchPath = "/recipes/complexSearch"

	maxBodyBytes = 10 << 20
	maxErrorBody = 200
)

// Client resolves queries to recipes and fetches their detail.
type Client struct {
	cfg        *config.Config
	baseURL    string
	httpClient *http.Client
	memo       *cache.Memo
	logger     *zap.Logger
}

// NewClient creates a client. memo may be nil to disable memoization.
func NewClient(cfg *config.Config, memo *cache.Memo, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		baseURL:    cfg.SpoonacularBaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		memo:       memo,
		logger:     logger.Named("spoonacular"),
	}
}

// ResolveIdentifier returns the id of the first recipe matching query.
// It fails with RecipeNotFound when the search has no results or the first
// result has a zero or empty id.
func (c *Client) ResolveIdentifier(ctx context.Context, query string) (RecipeID, error) {
	const op = "spoonacular.search"

	key, err := c.cfg.RequireSpoonacularKey()
	if err != nil {
		return "", err
	}

	params := url.Values{
		"query":  {query},
		"number": {"1"},
		"apiKey": {key},
	}
	body, err := c.fetch(ctx, op, cache.Key("search", query, key), searchPath, params)
	if err != nil {
		return "", err
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() || len(results.Array()) == 0 {
		return "", notFound(op, query)
	}

	// A zero or empty id names no recipe.
	id := results.Get("0.id")
	switch id.Type {
	case gjson.Number:
		if id.Float() == 0 {
			return "", notFound(op, query)
		}
		return RecipeID(id.Raw), nil
	case gjson.String:
		if id.String() == "" {
			return "", notFound(op, query)
		}
		return RecipeID(id.String()), nil
	}
	return "", apperr.Newf(apperr.KindUpstreamResponse, op, "first search result has no usable id")
}

func notFound(op, query string) error {
	return &apperr.Error{
		Kind:    apperr.KindRecipeNotFound,
		Op:      op,
		Message: fmt.Sprintf("no recipe matches %q", query),
	}
}

// FetchDetail returns the full detail record of a recipe.
func (c *Client) FetchDetail(ctx context.Context, id RecipeID) (recipe.Detail, error) {
	const op = "spoonacular.detail"

	key, err := c.cfg.RequireSpoonacularKey()
	if err != nil {
		return recipe.Detail{}, err
	}

	path := "/recipes/" + url.PathEscape(string(id)) + "/information"
	params := url.Values{
		"apiKey":           {key},
		"includeNutrition": {"false"},
	}
	body, err := c.fetch(ctx, op, cache.Key("detail", string(id), key), path, params)
	if err != nil {
		return recipe.Detail{}, err
	}

	detail, err := recipe.NewDetail(body)
	if err != nil {
		return recipe.Detail{}, apperr.New(apperr.KindUpstreamResponse, op, err)
	}
	return detail, nil
}

// fetch serves a GET through the memo. A caller that stops waiting on a
// shared load gets its own context error, classified here as transport.
func (c *Client) fetch(ctx context.Context, op, key, path string, params url.Values) ([]byte, error) {
	body, err := c.memo.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, op, path, params)
	})
	if err != nil && apperr.KindOf(err) == apperr.KindUnknown &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, apperr.New(apperr.KindUpstreamTransport, op, err)
	}
	return body, err
}

// get issues one GET request and returns the body if it is a JSON object.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.New(apperr.KindUpstreamTransport, op, redact(err, c.baseURL+path))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.New(apperr.KindUpstreamTransport, op, redact(err, c.baseURL+path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.New(apperr.KindUpstreamTransport, op, fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug("upstream response",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("size", humanize.Bytes(uint64(len(body)))),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.Error{
			Kind:    apperr.KindUpstreamResponse,
			Op:      op,
			Status:  resp.StatusCode,
			Message: "unexpected response: " + truncate(body, maxErrorBody),
		}
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, &apperr.Error{
			Kind:    apperr.KindUpstreamResponse,
			Op:      op,
			Status:  resp.StatusCode,
			Message: "response body is not a JSON object",
		}
	}
	return body, nil
}

// redact drops the query string, which carries the API key, from URL errors.
func redact(err error, endpoint string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: endpoint, Err: uerr.Err}
	}
	return err
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}

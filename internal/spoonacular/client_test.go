package spoonacular

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/cache"
)

const apiKey = "spoon-key"

type stubAPI struct {
	searchBody   string
	searchStatus int
	detailBody   string
	detailStatus int

	searchCalls atomic.Int32
	detailCalls atomic.Int32
	lastQuery   atomic.Value
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/recipes/complexSearch":
		s.searchCalls.Add(1)
		s.lastQuery.Store(r.URL.Query())
		writeStub(w, s.searchStatus, s.searchBody)
	case "/recipes/716429/information":
		s.detailCalls.Add(1)
		s.lastQuery.Store(r.URL.Query())
		writeStub(w, s.detailStatus, s.detailBody)
	default:
		http.NotFound(w, r)
	}
}

func writeStub(w http.ResponseWriter, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, api *stubAPI, memo *cache.Memo) *Client {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	cfg := &config.Config{SpoonacularAPIKey: apiKey, SpoonacularBaseURL: ts.URL}
	return NewClient(cfg, memo, zaptest.NewLogger(t))
}

func TestResolveIdentifier(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[{"id":716429,"title":"Margherita Pizza"}],"totalResults":1}`}
	c := newTestClient(t, api, nil)

	id, err := c.ResolveIdentifier(context.Background(), "margherita pizza")
	require.NoError(t, err)
	assert.Equal(t, RecipeID("716429"), id)

	q := api.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"margherita pizza"}, q["query"])
	assert.Equal(t, []string{"1"}, q["number"])
	assert.Equal(t, []string{apiKey}, q["apiKey"])
}

func TestResolveIdentifierStringID(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[{"id":"abc-1"}]}`}
	c := newTestClient(t, api, nil)

	id, err := c.ResolveIdentifier(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, RecipeID("abc-1"), id)
}

func TestResolveIdentifierNoResults(t *testing.T) {
	for name, body := range map[string]string{
		"empty results":   `{"results":[],"totalResults":0}`,
		"missing results": `{"status":"ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			api := &stubAPI{searchBody: body}
			c := newTestClient(t, api, nil)

			_, err := c.ResolveIdentifier(context.Background(), "qwertyuiop")
			require.ErrorIs(t, err, apperr.ErrRecipeNotFound)
			assert.Equal(t, int32(0), api.detailCalls.Load())
		})
	}
}

func TestResolveIdentifierResultWithoutID(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[{"title":"nameless"}]}`}
	c := newTestClient(t, api, nil)

	_, err := c.ResolveIdentifier(context.Background(), "x")
	assert.ErrorIs(t, err, apperr.ErrUpstreamResponse)
}

func TestResolveIdentifierZeroID(t *testing.T) {
	for name, body := range map[string]string{
		"number": `{"results":[{"id":0}]}`,
		"string": `{"results":[{"id":""}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			api := &stubAPI{searchBody: body}
			c := newTestClient(t, api, nil)

			_, err := c.ResolveIdentifier(context.Background(), "x")
			assert.ErrorIs(t, err, apperr.ErrRecipeNotFound)
		})
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	api := &stubAPI{searchStatus: http.StatusPaymentRequired, searchBody: `{"status":"failure","code":402,"message":"quota used"}`}
	c := newTestClient(t, api, nil)

	_, err := c.ResolveIdentifier(context.Background(), "pizza")
	require.ErrorIs(t, err, apperr.ErrUpstreamResponse)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusPaymentRequired, e.Status)
	assert.Contains(t, err.Error(), "quota used")
	assert.NotContains(t, err.Error(), apiKey)
}

func TestUpstreamInvalidBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json": `<html>oops</html>`,
		"array":    `[1,2,3]`,
	} {
		t.Run(name, func(t *testing.T) {
			api := &stubAPI{searchBody: body}
			c := newTestClient(t, api, nil)

			_, err := c.ResolveIdentifier(context.Background(), "pizza")
			assert.ErrorIs(t, err, apperr.ErrUpstreamResponse)
		})
	}
}

func TestTransportErrorHidesKey(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := NewClient(&config.Config{SpoonacularAPIKey: apiKey, SpoonacularBaseURL: ts.URL}, nil, zaptest.NewLogger(t))

	_, err := c.ResolveIdentifier(context.Background(), "pizza")
	require.ErrorIs(t, err, apperr.ErrUpstreamTransport)
	assert.NotContains(t, err.Error(), apiKey)
}

func TestContextCancelIsTransportError(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[]}`}
	c := newTestClient(t, api, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ResolveIdentifier(ctx, "pizza")
	require.ErrorIs(t, err, apperr.ErrUpstreamTransport)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestContextCancelWithMemoIsTransportError(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[{"id":716429}]}`}
	c := newTestClient(t, api, cache.NewMemo(cache.NewMemoryStore(8, time.Minute), zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ResolveIdentifier(ctx, "pizza")
	require.ErrorIs(t, err, apperr.ErrUpstreamTransport)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(0), api.searchCalls.Load())
}

func TestMissingKey(t *testing.T) {
	api := &stubAPI{searchBody: `{"results":[]}`}
	ts := httptest.NewServer(api)
	defer ts.Close()

	c := NewClient(&config.Config{SpoonacularBaseURL: ts.URL}, nil, nil)

	_, err := c.ResolveIdentifier(context.Background(), "pizza")
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	_, err = c.FetchDetail(context.Background(), "716429")
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Equal(t, int32(0), api.searchCalls.Load())
}

func TestFetchDetail(t *testing.T) {
	api := &stubAPI{detailBody: `{"id":716429,"title":"Margherita Pizza","image":"https://img.example/p.jpg"}`}
	c := newTestClient(t, api, nil)

	d, err := c.FetchDetail(context.Background(), "716429")
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", d.Title())

	q := api.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"false"}, q["includeNutrition"])
	assert.Equal(t, []string{apiKey}, q["apiKey"])
}

func TestFetchDetailNotFound(t *testing.T) {
	api := &stubAPI{detailStatus: http.StatusNotFound, detailBody: `{"status":"failure"}`}
	c := newTestClient(t, api, nil)

	_, err := c.FetchDetail(context.Background(), "716429")
	assert.ErrorIs(t, err, apperr.ErrUpstreamResponse)
}

func TestMemoizedCallsHitUpstreamOnce(t *testing.T) {
	api := &stubAPI{
		searchBody: `{"results":[{"id":716429}]}`,
		detailBody: `{"id":716429,"title":"Margherita Pizza"}`,
	}
	memo := cache.NewMemo(cache.NewMemoryStore(16, time.Hour), zaptest.NewLogger(t))
	c := newTestClient(t, api, memo)

	for i := 0; i < 3; i++ {
		id, err := c.ResolveIdentifier(context.Background(), "margherita pizza")
		require.NoError(t, err)
		_, err = c.FetchDetail(context.Background(), id)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), api.searchCalls.Load())
	assert.Equal(t, int32(1), api.detailCalls.Load())
}

func TestFailedCallsAreNotMemoized(t *testing.T) {
	api := &stubAPI{searchStatus: http.StatusInternalServerError, searchBody: `{}`}
	memo := cache.NewMemo(cache.NewMemoryStore(16, time.Hour), nil)
	c := newTestClient(t, api, memo)

	_, err := c.ResolveIdentifier(context.Background(), "pizza")
	require.Error(t, err)
	_, err = c.ResolveIdentifier(context.Background(), "pizza")
	require.Error(t, err)

	assert.Equal(t, int32(2), api.searchCalls.Load())
}

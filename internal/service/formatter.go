package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/apperr"
	"github.com/pageza/recipe-finder/internal/llm"
	"github.com/pageza/recipe-finder/internal/prompt"
	"github.com/pageza/recipe-finder/internal/recipe"
)

// RecipeFormatter builds a prompt from a recipe record and asks the
// completion service to lay it out. The reply is returned unchanged.
type RecipeFormatter struct {
	cfg         *config.Config
	variant     prompt.Variant
	temperature float64
	logger      *zap.Logger

	once        sync.Once
	provider    llm.Provider
	providerErr error
}

// NewRecipeFormatter creates a formatter whose provider is built from cfg
// on first use, so a missing API key is reported by the first Format call.
func NewRecipeFormatter(cfg *config.Config, logger *zap.Logger) *RecipeFormatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeFormatter{
		cfg:         cfg,
		variant:     prompt.Variant(cfg.PromptVariant),
		temperature: cfg.LLMTemperature,
		logger:      logger.Named("formatter"),
	}
}

// NewRecipeFormatterWithProvider creates a formatter that uses provider.
func NewRecipeFormatterWithProvider(cfg *config.Config, provider llm.Provider, logger *zap.Logger) *RecipeFormatter {
	f := NewRecipeFormatter(cfg, logger)
	f.once.Do(func() { f.provider = provider })
	return f
}

func (f *RecipeFormatter) getProvider() (llm.Provider, error) {
	f.once.Do(func() {
		key, err := f.cfg.RequireOpenAIKey()
		if err != nil {
			f.providerErr = err
			return
		}
		f.provider, f.providerErr = llm.NewProvider(f.cfg.LLMProvider, llm.ProviderConfig{
			APIKey:  key,
			BaseURL: f.cfg.LLMBaseURL,
			Model:   f.cfg.LLMModel,
			Timeout: f.cfg.HTTPTimeout,
		})
		if f.providerErr != nil {
			f.providerErr = apperr.New(apperr.KindConfiguration, "formatter.provider", f.providerErr)
		}
	})
	return f.provider, f.providerErr
}

// Format renders rec into the configured prompt and sends one completion
// request with no output cap.
func (f *RecipeFormatter) Format(ctx context.Context, rec recipe.Record) (string, error) {
	const op = "formatter.format"

	tpl, values, err := prompt.Build(f.variant, rec)
	if err != nil {
		return "", err
	}
	text, err := tpl.Render(values)
	if err != nil {
		return "", err
	}

	provider, err := f.getProvider()
	if err != nil {
		return "", err
	}

	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: text}},
		Temperature: f.temperature,
	})
	if err != nil {
		f.logger.Warn("completion failed", zap.String("provider", provider.Name()), zap.Error(err))
		return "", completionError(op, err)
	}

	f.logger.Info("recipe formatted",
		zap.String("provider", provider.Name()),
		zap.String("model", resp.Model),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return resp.Content, nil
}

func completionError(op string, err error) error {
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		return &apperr.Error{Kind: apperr.KindCompletionService, Op: op, Message: "completion request failed", Err: err}
	}

	var msg string
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		msg = "completion service rejected the API key"
	case http.StatusTooManyRequests:
		msg = "completion service rate limit reached"
	default:
		msg = fmt.Sprintf("completion service returned %s", http.StatusText(apiErr.StatusCode))
	}
	return &apperr.Error{
		Kind:    apperr.KindCompletionService,
		Op:      op,
		Status:  apiErr.StatusCode,
		Message: msg,
		Err:     err,
	}
}

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

var (
	promptVariants = map[string]bool{"sorted": true, "fixed": true}
	llmProviders   = map[string]bool{"openai": true, "openrouter": true}
	logLevels      = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats     = map[string]bool{"json": true, "console": true}
)

// ValidateConfig checks the structural settings. API keys are deliberately
// left out: a missing key is reported when the component first needs it.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{"SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}
	if cfg.SpoonacularBaseURL == "" {
		errs = append(errs, ValidationError{"SPOONACULAR_BASE_URL", "must not be empty"})
	}
	if !llmProviders[cfg.LLMProvider] {
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("unknown provider %q (available: openai, openrouter)", cfg.LLMProvider)})
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		errs = append(errs, ValidationError{"LLM_TEMPERATURE", "must be between 0 and 2"})
	}
	if !promptVariants[cfg.PromptVariant] {
		errs = append(errs, ValidationError{"PROMPT_VARIANT", fmt.Sprintf("unknown variant %q (available: sorted, fixed)", cfg.PromptVariant)})
	}
	if cfg.HTTPTimeout < 0 {
		errs = append(errs, ValidationError{"HTTP_TIMEOUT", "must not be negative"})
	}
	if cfg.CacheEnabled {
		if cfg.CacheTTL <= 0 {
			errs = append(errs, ValidationError{"CACHE_TTL", "must be positive when the cache is enabled"})
		}
		if cfg.CacheCapacity <= 0 {
			errs = append(errs, ValidationError{"CACHE_CAPACITY", "must be positive when the cache is enabled"})
		}
	}
	if !logLevels[cfg.LogLevel] {
		errs = append(errs, ValidationError{"LOG_LEVEL", fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}
	if !logFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{"LOG_FORMAT", fmt.Sprintf("unknown format %q", cfg.LogFormat)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

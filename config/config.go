package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pageza/recipe-finder/internal/apperr"
)

// Config holds all configuration for the application.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Recipe API configuration
	SpoonacularAPIKey  string
	SpoonacularBaseURL string

	// Completion service configuration
	LLMProvider    string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float64
	OpenAIAPIKey   string
	PromptVariant  string

	// HTTPTimeout applies to upstream calls; zero keeps the client default
	HTTPTimeout time.Duration

	// Memo cache configuration
	CacheEnabled  bool
	CacheTTL      time.Duration
	CacheCapacity int
	RedisURL      string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

const (
	DefaultSpoonacularBaseURL = "https://api.spoonacular.com"
	DefaultLLMModel           = "gpt-4o-mini"
	DefaultTemperature        = 0.5
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("spoonacular_base_url", DefaultSpoonacularBaseURL)
	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_base_url", "")
	v.SetDefault("llm_model", DefaultLLMModel)
	v.SetDefault("llm_temperature", DefaultTemperature)
	v.SetDefault("prompt_variant", "sorted")
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_ttl", "1h")
	v.SetDefault("cache_capacity", 256)
	v.SetDefault("redis_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// LoadConfig builds a Config from environment variables, applying defaults
// and validating everything except the API keys, which are checked at first use.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	env := GetEnvironment()
	cfg := &Config{
		Environment:        env,
		ServerPort:         v.GetString("server_port"),
		ServerHost:         v.GetString("server_host"),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
		SpoonacularBaseURL: strings.TrimRight(v.GetString("spoonacular_base_url"), "/"),
		LLMProvider:        strings.ToLower(v.GetString("llm_provider")),
		LLMBaseURL:         v.GetString("llm_base_url"),
		LLMModel:           v.GetString("llm_model"),
		LLMTemperature:     v.GetFloat64("llm_temperature"),
		PromptVariant:      strings.ToLower(v.GetString("prompt_variant")),
		HTTPTimeout:        v.GetDuration("http_timeout"),
		CacheEnabled:       v.GetBool("cache_enabled"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		CacheCapacity:      v.GetInt("cache_capacity"),
		RedisURL:           v.GetString("redis_url"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFormat:          strings.ToLower(v.GetString("log_format")),
	}

	var err error
	if cfg.SpoonacularAPIKey, err = lookupCredential(v, env, "SPOONACULAR_API_KEY", "spoonacular_api_key"); err != nil {
		return nil, err
	}
	if cfg.OpenAIAPIKey, err = lookupCredential(v, env, "OPENAI_API_KEY", "openai_api_key"); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RequireSpoonacularKey returns the recipe API key or a configuration error
func (c *Config) RequireSpoonacularKey() (string, error) {
	if c.SpoonacularAPIKey == "" {
		return "", apperr.Newf(apperr.KindConfiguration, "config", "SPOONACULAR_API_KEY is not set")
	}
	return c.SpoonacularAPIKey, nil
}

// RequireOpenAIKey returns the completion API key or a configuration error
func (c *Config) RequireOpenAIKey() (string, error) {
	if c.OpenAIAPIKey == "" {
		return "", apperr.Newf(apperr.KindConfiguration, "config", "OPENAI_API_KEY is not set")
	}
	return c.OpenAIAPIKey, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookupCredential resolves a credential from, in order: the environment
// variable, a file named by <NAME>_FILE, and the Docker secrets directory.
// A missing credential is not an error here.
func lookupCredential(v *viper.Viper, env Environment, name, secret string) (string, error) {
	if value := strings.TrimSpace(v.GetString(strings.ToLower(name))); value != "" {
		return value, nil
	}

	if path := os.Getenv(name + "_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s_FILE: %w", name, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if env.UsesSecretsDir() {
		return readSecret(secret), nil
	}
	return "", nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

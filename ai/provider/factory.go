// Package provider selects and constructs the model client to use for a
// given configuration.
package provider

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/drivernote/drivernote/ai"
	"github.com/drivernote/drivernote/ai/anthropic"
	"github.com/drivernote/drivernote/ai/local"
	"github.com/drivernote/drivernote/config"
	"github.com/drivernote/drivernote/errors"
)

// Provider represents an LLM provider type
type Provider string

const (
	// ProviderLocal uses local inference (Ollama, LocalAI)
	ProviderLocal Provider = "local"
	// ProviderAnthropic uses the direct Anthropic API
	ProviderAnthropic Provider = "anthropic"
	// ProviderAuto automatically selects based on configuration
	ProviderAuto Provider = "auto"
)

// ClientConfig holds common configuration for creating model clients
type ClientConfig struct {
	DB            *sql.DB
	Logger        *zap.SugaredLogger
	OperationType string
	EntityType    string
	EntityID      string
}

// NewClient creates a model client based on configuration (auto-selection)
// Priority: LocalInference (if enabled) → Anthropic (if API key set)
func NewClient(cfg *config.Config, clientCfg ClientConfig) (ai.Client, error) {
	return NewClientWithProvider(cfg, ProviderAuto, clientCfg)
}

// NewClientWithProvider creates a model client for a specific provider
// Use ProviderAuto to let the factory decide based on configuration
func NewClientWithProvider(cfg *config.Config, provider Provider, clientCfg ClientConfig) (ai.Client, error) {
	switch provider {
	case ProviderLocal:
		return newLocalClient(cfg, clientCfg), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg, clientCfg), nil
	case ProviderAuto:
		return autoSelectClient(cfg, clientCfg)
	default:
		return nil, errors.Newf("unknown provider %q", provider)
	}
}

// autoSelectClient automatically selects the best available provider
func autoSelectClient(cfg *config.Config, clientCfg ClientConfig) (ai.Client, error) {
	// Priority 1: Local inference if enabled
	if cfg.LocalInference.Enabled {
		return newLocalClient(cfg, clientCfg), nil
	}

	// Priority 2: Anthropic if API key is set
	if cfg.Anthropic.APIKey != "" {
		return newAnthropicClient(cfg, clientCfg), nil
	}

	return nil, errors.WithHint(
		errors.New("no model provider configured"),
		"enable local_inference or set DRIVERNOTE_ANTHROPIC_API_KEY",
	)
}

// newLocalClient creates a local inference client
func newLocalClient(cfg *config.Config, clientCfg ClientConfig) ai.Client {
	return local.NewClient(local.Config{
		BaseURL:        cfg.LocalInference.BaseURL,
		Model:          cfg.LocalInference.Model,
		ContextSize:    cfg.LocalInference.ContextSize,
		TimeoutSeconds: cfg.LocalInference.TimeoutSeconds,
		Logger:         clientCfg.Logger,
	})
}

// newAnthropicClient creates an Anthropic API client
func newAnthropicClient(cfg *config.Config, clientCfg ClientConfig) ai.Client {
	return anthropic.NewClient(anthropic.Config{
		APIKey:            cfg.Anthropic.APIKey,
		Model:             cfg.Anthropic.Model,
		Temperature:       cfg.Anthropic.Temperature,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
		Logger:            clientCfg.Logger,
		DB:                clientCfg.DB,
		OperationType:     clientCfg.OperationType,
		EntityType:        clientCfg.EntityType,
		EntityID:          clientCfg.EntityID,
	})
}

// ParseProvider converts a string to a Provider type
func ParseProvider(s string) (Provider, error) {
	switch s {
	case "local", "ollama", "localai":
		return ProviderLocal, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "auto", "":
		return ProviderAuto, nil
	default:
		return "", errors.Newf("unknown provider: %s (valid: local, anthropic, auto)", s)
	}
}

// Verify interfaces are implemented
var _ ai.Client = (*anthropic.Client)(nil)
var _ ai.Client = (*local.Client)(nil)

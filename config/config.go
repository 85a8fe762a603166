// Package config provides layered configuration for drivernote.
//
// Precedence (lowest to highest): defaults < user file (~/.drivernote/config.toml)
// < project file (drivernote.toml, found by walking up from the working
// directory) < DRIVERNOTE_* environment variables.
package config

// Config represents the core drivernote configuration
type Config struct {
	Repo           RepoConfig           `mapstructure:"repo"`
	Note           NoteConfig           `mapstructure:"note"`
	LocalInference LocalInferenceConfig `mapstructure:"local_inference"`
	Anthropic      AnthropicConfig      `mapstructure:"anthropic"`
}

// RepoConfig locates the feature repository
type RepoConfig struct {
	Path string `mapstructure:"path"` // Directory containing feature_store.yaml
}

// NoteConfig configures note generation
type NoteConfig struct {
	Provider     string `mapstructure:"provider"`      // local, anthropic, auto
	TemplatePath string `mapstructure:"template_path"` // Optional override for the built-in note template
}

// LocalInferenceConfig configures local model inference
// Supports Ollama, LocalAI, or any OpenAI-compatible local server
type LocalInferenceConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	ContextSize    int    `mapstructure:"context_size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AnthropicConfig configures the direct Anthropic API client
type AnthropicConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
}

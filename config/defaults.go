package config

import (
	"github.com/spf13/viper"
)

// Default file permissions for the user config directory
const DefaultDirPermissions = 0o755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Feature repository defaults
	v.SetDefault("repo.path", ".")

	// Note generation defaults
	v.SetDefault("note.provider", "auto")
	v.SetDefault("note.template_path", "")

	// Local Inference (Ollama) defaults
	v.SetDefault("local_inference.enabled", false)
	v.SetDefault("local_inference.base_url", "http://localhost:11434")
	v.SetDefault("local_inference.model", "llama3.2:3b")
	v.SetDefault("local_inference.context_size", 16384)
	v.SetDefault("local_inference.timeout_seconds", 3600)

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-3-5-haiku-latest") // Cost-effective default
	v.SetDefault("anthropic.temperature", 0.2)                 // Deterministic
	v.SetDefault("anthropic.max_tokens", 1000)                 // Token limit
	v.SetDefault("anthropic.requests_per_minute", 30)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("anthropic.api_key", "DRIVERNOTE_ANTHROPIC_API_KEY")
}

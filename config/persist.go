package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/drivernote/drivernote/errors"
)

// fileConfig mirrors Config with toml tags for serialization.
// Viper reads mapstructure tags; go-toml writes these.
type fileConfig struct {
	Repo           fileRepoConfig           `toml:"repo"`
	Note           fileNoteConfig           `toml:"note"`
	LocalInference fileLocalInferenceConfig `toml:"local_inference"`
	Anthropic      fileAnthropicConfig      `toml:"anthropic"`
}

type fileRepoConfig struct {
	Path string `toml:"path"`
}

type fileNoteConfig struct {
	Provider     string `toml:"provider"`
	TemplatePath string `toml:"template_path,omitempty"`
}

type fileLocalInferenceConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	ContextSize    int    `toml:"context_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type fileAnthropicConfig struct {
	// APIKey is deliberately not persisted; set DRIVERNOTE_ANTHROPIC_API_KEY instead.
	Model             string  `toml:"model"`
	Temperature       float64 `toml:"temperature"`
	MaxTokens         int     `toml:"max_tokens"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
}

// Save writes the configuration to the given path as TOML, creating a
// rotating backup of any existing file first.
func Save(cfg *Config, configPath string) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if err := createBackup(configPath); err != nil {
		return err
	}

	fc := fileConfig{
		Repo: fileRepoConfig{Path: cfg.Repo.Path},
		Note: fileNoteConfig{
			Provider:     cfg.Note.Provider,
			TemplatePath: cfg.Note.TemplatePath,
		},
		LocalInference: fileLocalInferenceConfig{
			Enabled:        cfg.LocalInference.Enabled,
			BaseURL:        cfg.LocalInference.BaseURL,
			Model:          cfg.LocalInference.Model,
			ContextSize:    cfg.LocalInference.ContextSize,
			TimeoutSeconds: cfg.LocalInference.TimeoutSeconds,
		},
		Anthropic: fileAnthropicConfig{
			Model:             cfg.Anthropic.Model,
			Temperature:       cfg.Anthropic.Temperature,
			MaxTokens:         cfg.Anthropic.MaxTokens,
			RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
		},
	}

	data, err := toml.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config to %s", configPath)
	}

	return nil
}

// createBackup copies an existing config to <path>.back before modification
func createBackup(configPath string) error {
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil // No file to backup
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(configPath+".back", content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create config backup")
	}

	return nil
}

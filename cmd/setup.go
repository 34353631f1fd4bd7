package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/doc-suggester/core/config"
	"github.com/chainguard-dev/doc-suggester/core/providers"
	"github.com/chainguard-dev/doc-suggester/core/storage"
)

// env holds everything a subcommand needs before it starts talking to
// the outside world.
type env struct {
	cfg    *config.Config
	layout *storage.Layout
}

func loadEnv() (*env, error) {
	dirs := storage.ResolveDirs()

	configDir := flagConfigDir
	if configDir == "" {
		configDir = dirs.Config
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = dirs.Data
	}
	if err := storage.EnsureDir(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	layout := storage.NewLayout(dataDir)
	if flagDataDir == "" {
		layout.Cache = filepath.Join(dirs.Cache, "llgen")
	}
	return &env{cfg: cfg, layout: layout}, nil
}

// suggestProvider builds the provider the suggestion loop runs on,
// selected by config.
func (e *env) suggestProvider() (providers.Provider, error) {
	switch e.cfg.Suggest.Provider {
	case "openai":
		return providers.NewOpenAIProvider(providers.OpenAIConfig{
			BaseConfig: providers.BaseConfig{
				APIKey:    os.Getenv("OPENAI_API_KEY"),
				Model:     e.cfg.Suggest.Model,
				MaxTokens: e.cfg.Suggest.MaxTokens,
			},
		})
	default:
		return providers.NewAnthropicProvider(providers.AnthropicConfig{
			BaseConfig: providers.BaseConfig{
				APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
				Model:     e.cfg.Suggest.Model,
				MaxTokens: e.cfg.Suggest.MaxTokens,
			},
		})
	}
}

// synopsisProvider is always Anthropic; synopses use a small fast model
// independent of the suggestion provider.
func (e *env) synopsisProvider() (providers.Provider, error) {
	return providers.NewAnthropicProvider(providers.AnthropicConfig{
		BaseConfig: providers.BaseConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     e.cfg.Synopsis.Model,
			MaxTokens: e.cfg.Synopsis.MaxTokens,
		},
	})
}

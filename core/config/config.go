// Package config loads doc-suggester configuration from YAML with defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Suggest  SuggestConfig  `yaml:"suggest"`
	Synopsis SynopsisConfig `yaml:"synopsis"`
	Blogs    BlogsConfig    `yaml:"blogs"`
	Labs     LabsConfig     `yaml:"labs"`
	Docs     DocsConfig     `yaml:"docs"`
}

type SuggestConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTurns  int    `yaml:"max_turns"`
	MaxTokens int    `yaml:"max_tokens"`
}

type SynopsisConfig struct {
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	Concurrency int    `yaml:"concurrency"`
}

type BlogsConfig struct {
	StaleDays int `yaml:"stale_days"`
}

type LabsConfig struct {
	StaleDays int `yaml:"stale_days"`
}

type DocsConfig struct {
	Image string `yaml:"image"`
}

func Default() *Config {
	return &Config{
		Suggest: SuggestConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-6",
			MaxTurns:  20,
			MaxTokens: 4096,
		},
		Synopsis: SynopsisConfig{
			Model:       "claude-haiku-4-5-20251001",
			MaxTokens:   200,
			Concurrency: 10,
		},
		Blogs: BlogsConfig{StaleDays: 7},
		Labs:  LabsConfig{StaleDays: 30},
		Docs:  DocsConfig{Image: "ghcr.io/chainguard-dev/ai-docs:latest"},
	}
}

// Load reads config.yaml from configDir, merging it over defaults.
// A missing file is not an error; a malformed one is.
func Load(configDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Suggest.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("suggest.provider must be anthropic or openai, got %q", c.Suggest.Provider)
	}
	if c.Suggest.MaxTurns <= 0 {
		return fmt.Errorf("suggest.max_turns must be positive")
	}
	if c.Synopsis.Concurrency <= 0 {
		return fmt.Errorf("synopsis.concurrency must be positive")
	}
	if c.Blogs.StaleDays < 0 || c.Labs.StaleDays < 0 {
		return fmt.Errorf("stale_days must not be negative")
	}
	return nil
}

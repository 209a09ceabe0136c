// Package config loads commitgen configuration from YAML, layering a
// per-repository override over user-level settings and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RepoConfigName is the per-repository override file, looked up at the
// repository root.
const RepoConfigName = ".commitgen.yaml"

// Config holds the message formatting and refinement settings.
type Config struct {
	// Style selects the header format: "conventional" or "emoji".
	Style string `yaml:"style"`
	// LowercaseFirstLetter lower-cases the first letter of the description.
	LowercaseFirstLetter *bool `yaml:"lowercase_first_letter"`
	// RemovePeriod strips a trailing period from the description.
	RemovePeriod *bool `yaml:"remove_period"`
	// DescriptionMaxLength bounds the generated header length.
	DescriptionMaxLength int `yaml:"description_max_length"`
	// ContextLines is the diff context requested in full analysis mode.
	ContextLines int `yaml:"context_lines"`

	// Ollama settings for the optional description refiner.
	OllamaModel       string  `yaml:"ollama_model"`
	OllamaTemperature float64 `yaml:"ollama_temperature"`
}

// Default returns the built-in configuration.
func Default() *Config {
	yes := true
	return &Config{
		Style:                "conventional",
		LowercaseFirstLetter: &yes,
		RemovePeriod:         &yes,
		DescriptionMaxLength: 72,
		ContextLines:         3,
		OllamaModel:          "qwen2.5:14b",
		OllamaTemperature:    0.1,
	}
}

// Load builds the effective configuration for a repository: defaults, then
// the user config file, then the repository's own override. Missing files
// are fine; malformed YAML is not.
func Load(repoPath string) (*Config, error) {
	cfg := Default()

	if userPath, err := userConfigPath(); err == nil {
		if err := mergeFile(cfg, userPath); err != nil {
			return nil, err
		}
	}
	if repoPath != "" {
		if err := mergeFile(cfg, filepath.Join(repoPath, RepoConfigName)); err != nil {
			return nil, err
		}
	}

	if cfg.Style != "conventional" && cfg.Style != "emoji" {
		return nil, fmt.Errorf("invalid style %q: must be conventional or emoji", cfg.Style)
	}
	return cfg, nil
}

func userConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "commitgen", "config.yaml"), nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %v", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config %s: %v", path, err)
	}
	merge(cfg, &overlay)
	return nil
}

func merge(dst, src *Config) {
	if src.Style != "" {
		dst.Style = src.Style
	}
	if src.LowercaseFirstLetter != nil {
		dst.LowercaseFirstLetter = src.LowercaseFirstLetter
	}
	if src.RemovePeriod != nil {
		dst.RemovePeriod = src.RemovePeriod
	}
	if src.DescriptionMaxLength > 0 {
		dst.DescriptionMaxLength = src.DescriptionMaxLength
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if src.OllamaModel != "" {
		dst.OllamaModel = src.OllamaModel
	}
	if src.OllamaTemperature > 0 {
		dst.OllamaTemperature = src.OllamaTemperature
	}
}

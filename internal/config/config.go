// Package config loads engine configuration from an optional YAML file with
// environment overrides.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration.
type Config struct {
	// DataDir holds one subdirectory per project.
	DataDir string `yaml:"data_dir"`

	Model struct {
		Name    string `yaml:"name"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"model"`

	Embedding struct {
		Provider string `yaml:"provider"` // "ollama" | "openai" | "" (disabled)
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"embedding"`

	Debug bool `yaml:"debug"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tutor-engine", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TUTOR_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TUTOR_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("TUTOR_MODEL_URL"); v != "" {
		cfg.Model.BaseURL = v
	}
	if v := os.Getenv("TUTOR_EMBED_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("TUTOR_EMBED_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("TUTOR_EMBED_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if os.Getenv("TUTOR_DEBUG") == "1" {
		cfg.Debug = true
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		home, _ := os.UserHomeDir()
		cfg.DataDir = filepath.Join(home, ".tutor-engine", "projects")
	}
}

// ProjectDir returns the directory for a named project.
func (c Config) ProjectDir(name string) string {
	return filepath.Join(c.DataDir, name)
}

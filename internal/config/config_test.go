package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TUTOR_DATA_DIR", "TUTOR_MODEL", "TUTOR_MODEL_URL",
		"TUTOR_EMBED_PROVIDER", "TUTOR_EMBED_MODEL", "TUTOR_EMBED_URL",
		"TUTOR_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir == "" {
		t.Error("expected a default data dir")
	}
	if cfg.Debug {
		t.Error("debug should default off")
	}
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `data_dir: /srv/tutor
model:
  name: deepseek-chat
  base_url: https://api.deepseek.com/v1
embedding:
  provider: ollama
  model: nomic-embed-text
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/tutor" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
	if cfg.Model.Name != "deepseek-chat" {
		t.Errorf("model = %q", cfg.Model.Name)
	}
	if cfg.Embedding.Provider != "ollama" || cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if !cfg.Debug {
		t.Error("debug should be on")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_dir: /from/file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TUTOR_DATA_DIR", "/from/env")
	t.Setenv("TUTOR_DEBUG", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("data_dir = %q, want env override", cfg.DataDir)
	}
	if !cfg.Debug {
		t.Error("TUTOR_DEBUG=1 should enable debug")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestProjectDir(t *testing.T) {
	var cfg Config
	cfg.DataDir = "/data"
	if got := cfg.ProjectDir("cs154"); got != filepath.Join("/data", "cs154") {
		t.Errorf("got %q", got)
	}
}

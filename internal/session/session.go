// Package session ties one project's resources together for the duration of
// a single engine invocation: store, evidence index, embedder, model client,
// logger, and diagnostics. There are no process-wide singletons; everything
// hangs off the Session and is torn down with it.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rcliao/tutor-engine/internal/config"
	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/embedding"
	"github.com/rcliao/tutor-engine/internal/evidence"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/store"
)

// Session is the explicit per-project context object passed to components.
type Session struct {
	Project  string
	Dir      string
	Store    *store.SQLiteStore
	Evidence *evidence.Store
	Embedder embedding.Embedder
	Log      *zap.Logger
	Dev      *devlog.Log

	cfg    config.Config
	client llm.Client
}

// Open creates a session for the named project. The project directory and
// database are created on first use.
func Open(cfg config.Config, project string) (*Session, error) {
	if project == "" {
		return nil, fmt.Errorf("project name required")
	}
	dir := cfg.ProjectDir(project)

	st, err := store.NewSQLiteStore(filepath.Join(dir, "tutor.db"))
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", project, err)
	}

	emb := newEmbedder(cfg)

	logger := zap.NewNop()
	if cfg.Debug {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	return &Session{
		Project:  project,
		Dir:      dir,
		Store:    st,
		Evidence: evidence.New(st, emb),
		Embedder: emb,
		Log:      logger,
		Dev:      devlog.New(),
		cfg:      cfg,
	}, nil
}

// newEmbedder builds the configured embedding provider, nil when disabled.
func newEmbedder(cfg config.Config) embedding.Embedder {
	switch cfg.Embedding.Provider {
	case "ollama":
		model := cfg.Embedding.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return embedding.NewOllamaEmbedder(model)
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.BaseURL, os.Getenv("OPENAI_API_KEY"), cfg.Embedding.Model, 0)
	default:
		return nil
	}
}

// Model returns the chat model client, creating it on first use. Commands
// that never call the model never need credentials.
func (s *Session) Model() (llm.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	key := os.Getenv(llm.APIKeyEnv)
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	base := s.cfg.Model.BaseURL
	if base == "" {
		base = llm.DefaultBaseURL
	}
	client, err := llm.NewOpenAIClient(llm.Options{
		APIKey:  key,
		BaseURL: base,
		Model:   s.cfg.Model.Name,
	})
	if err != nil {
		return nil, err
	}
	s.client = client
	return s.client, nil
}

// SetModel overrides the model client. Used by tests.
func (s *Session) SetModel(c llm.Client) {
	s.client = c
}

// Close releases the session's resources.
func (s *Session) Close() error {
	if s.Log != nil {
		s.Log.Sync()
	}
	return s.Store.Close()
}

// Exists reports whether a project has been initialized under cfg.
func Exists(cfg config.Config, project string) bool {
	_, err := os.Stat(filepath.Join(cfg.ProjectDir(project), "tutor.db"))
	return err == nil
}

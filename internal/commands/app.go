package commands

import (
	"fmt"

	"github.com/csheth/shadowscribe/internal/config"
	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/llm"
	"github.com/csheth/shadowscribe/internal/lock"
	"github.com/csheth/shadowscribe/internal/store/jsonfile"
	"github.com/csheth/shadowscribe/internal/store/memory"
	"github.com/csheth/shadowscribe/internal/store/sqlite"
)

// App holds the services shared by every command. It is filled in by the
// root Before hook; commands keep a pointer to it from registration time.
type App struct {
	Config *config.Config
	Diary  *diary.Diary
	// Pages is the file-backed store to watch for outside edits. Nil when
	// the backend has no single file to watch.
	Pages *jsonfile.Store
	// Lock holds the privacy combination. Nil when no lock path is configured.
	Lock *lock.File

	closer func() error
}

// NewApp returns an App over store. closer may be nil.
func NewApp(cfg *config.Config, store diary.Store, closer func() error) *App {
	app := &App{
		Config: cfg,
		Diary:  diary.New(store),
		closer: closer,
	}
	if pages, ok := store.(*jsonfile.Store); ok {
		app.Pages = pages
	}
	if cfg != nil && cfg.Lock.Path != "" {
		app.Lock = lock.NewFile(cfg.Lock.Path)
	}
	return app
}

// OpenApp opens the store selected by cfg.Store.
func OpenApp(cfg *config.Config) (*App, error) {
	switch cfg.Store.Backend {
	case config.BackendJSONFile:
		return NewApp(cfg, jsonfile.New(cfg.Store.Path), nil), nil
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return NewApp(cfg, db, db.Close), nil
	case config.BackendMemory:
		return NewApp(cfg, memory.New(), nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Shadow builds the LLM client configured for the diary.
func (a *App) Shadow() (llm.Client, error) {
	return llm.New(llm.Config{
		Provider: llm.Provider(a.Config.LLM.Provider),
		Model:    a.Config.LLM.Model,
		Endpoint: a.Config.LLM.Endpoint,
	})
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer()
}

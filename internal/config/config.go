// Package config handles configuration loading and validation for shadowscribe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// LLM providers. An empty provider lets the llm package decide from the environment.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds the application configuration.
type Config struct {
	Store   StoreConfig  `yaml:"store"`
	Editor  EditorConfig `yaml:"editor"`
	Book    BookConfig   `yaml:"book"`
	LLM     LLMConfig    `yaml:"llm"`
	Lock    LockConfig   `yaml:"lock"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// StoreConfig selects where pages live.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // defaults to a file under DataDir
}

// EditorConfig tunes the ghost-text editor.
type EditorConfig struct {
	Pause time.Duration `yaml:"pause"` // idle time before a whisper is requested
}

// BookConfig tunes spreads and the page-turn animation.
type BookConfig struct {
	FlipDuration  time.Duration `yaml:"flip_duration"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	PreviewLength int           `yaml:"preview_length"`
	DateLayout    string        `yaml:"date_layout"`
}

// LLMConfig configures the shadow voice.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LockConfig locates the privacy combination.
type LockConfig struct {
	Path string `yaml:"path"` // defaults to lock.yaml under DataDir
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendJSONFile,
		},
		Editor: EditorConfig{
			Pause: 3 * time.Second,
		},
		Book: BookConfig{
			FlipDuration:  time.Second,
			FrameInterval: 50 * time.Millisecond,
			PreviewLength: 30,
			DateLayout:    "January 2, 2006",
		},
		LLM: LLMConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads configuration from the config path and applies defaults. A
// missing file yields the defaults.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Store.Path == "" && c.DataDir != "" {
		switch c.Store.Backend {
		case BackendJSONFile:
			c.Store.Path = filepath.Join(c.DataDir, "pages.json")
		case BackendSQLite:
			c.Store.Path = filepath.Join(c.DataDir, "diary.db")
		}
	}
	if c.Lock.Path == "" && c.DataDir != "" {
		c.Lock.Path = filepath.Join(c.DataDir, "lock.yaml")
	}
	if c.Editor.Pause == 0 {
		c.Editor.Pause = defaults.Editor.Pause
	}
	if c.Book.FlipDuration == 0 {
		c.Book.FlipDuration = defaults.Book.FlipDuration
	}
	if c.Book.FrameInterval == 0 {
		c.Book.FrameInterval = defaults.Book.FrameInterval
	}
	if c.Book.PreviewLength == 0 {
		c.Book.PreviewLength = defaults.Book.PreviewLength
	}
	if c.Book.DateLayout == "" {
		c.Book.DateLayout = defaults.Book.DateLayout
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = defaults.LLM.Timeout
	}
}

package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/hay-kot/criterio"
)

var (
	validBackends  = []string{BackendJSONFile, BackendSQLite, BackendMemory}
	validProviders = []string{"", ProviderOllama, ProviderOpenAI, ProviderNone}
)

// Validate checks that the configuration is structurally valid and reports
// every offending field at once.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if !slices.Contains(validBackends, c.Store.Backend) {
		errs = errs.Append("store.backend", fmt.Errorf("must be one of %v, got %q", validBackends, c.Store.Backend))
	} else if c.Store.Backend != BackendMemory && c.Store.Path == "" {
		errs = errs.Append("store.path", fmt.Errorf("required when data directory is unset"))
	}
	if c.Editor.Pause < 0 {
		errs = errs.Append("editor.pause", fmt.Errorf("must not be negative"))
	}
	if c.Book.FlipDuration < 0 {
		errs = errs.Append("book.flip_duration", fmt.Errorf("must not be negative"))
	}
	if c.Book.FrameInterval < 0 {
		errs = errs.Append("book.frame_interval", fmt.Errorf("must not be negative"))
	} else if c.Book.FrameInterval > c.Book.FlipDuration && c.Book.FlipDuration > 0 {
		errs = errs.Append("book.frame_interval", fmt.Errorf("must not exceed book.flip_duration"))
	}
	if c.Book.PreviewLength < 1 {
		errs = errs.Append("book.preview_length", fmt.Errorf("must be at least 1"))
	}
	if !slices.Contains(validProviders, c.LLM.Provider) {
		errs = errs.Append("llm.provider", fmt.Errorf("must be one of ollama, openai or none, got %q", c.LLM.Provider))
	}
	if c.LLM.Timeout < 0 {
		errs = errs.Append("llm.timeout", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

// ValidateDeep runs Validate and then checks the filesystem: the config
// file must be a regular file and the data directory must be a directory
// or not exist yet.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// Package lock keeps the diary's privacy combination and models the
// four-roller lock drawn in front of the cover.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/csheth/shadowscribe/internal/logging"
)

// Digits is the number of rollers on the lock.
const Digits = 4

// ErrInvalidCode is returned for anything but exactly four decimal digits.
var ErrInvalidCode = errors.New("lock code must be exactly 4 digits")

// Validate checks that code is a four digit combination.
func Validate(code string) error {
	if len(code) != Digits {
		return ErrInvalidCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidCode
		}
	}
	return nil
}

type lockFile struct {
	Code string `yaml:"code"`
}

// File persists the combination as a small YAML document. A missing file
// means the diary is not locked.
type File struct {
	path string
}

// NewFile returns a File stored at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the lock file.
func (f *File) Path() string {
	return f.path
}

// Code returns the stored combination, or "" when no lock is set.
func (f *File) Code() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read lock file: %w", err)
	}

	var lf lockFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return "", fmt.Errorf("parse lock file %s: %w", f.path, err)
	}
	if err := Validate(lf.Code); err != nil {
		return "", fmt.Errorf("lock file %s: %w", f.path, err)
	}
	return lf.Code, nil
}

// Set stores code, replacing any previous combination.
func (f *File) Set(code string) error {
	if err := Validate(code); err != nil {
		return err
	}
	data, err := yaml.Marshal(lockFile{Code: code})
	if err != nil {
		return fmt.Errorf("encode lock file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	log := logging.Component("lock")
	log.Info().Str("path", f.path).Msg("lock set")
	return nil
}

// Remove disables the lock. Removing an unset lock is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	log := logging.Component("lock")
	log.Info().Str("path", f.path).Msg("lock removed")
	return nil
}

// Package jsonfile persists pages as a single JSON array on disk. The file is
// re-read on every operation so edits made by another process are picked up.
package jsonfile

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/csheth/shadowscribe/internal/diary"
)

// Store is a diary.Store backed by one JSON file.
type Store struct {
	path string
	mu   sync.RWMutex

	// written is the digest of the last file this store wrote.
	written [sha256.Size]byte
	wrote   bool
}

var _ diary.Store = (*Store)(nil)

// New returns a store for path. The file is created lazily on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, pageNumber int) (diary.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages, err := loadPages(s.path)
	if err != nil {
		return diary.Page{}, err
	}
	idx := slices.IndexFunc(pages, func(p diary.Page) bool { return p.PageNumber == pageNumber })
	if idx < 0 {
		return diary.Page{}, diary.ErrNotFound
	}
	return pages[idx], nil
}

func (s *Store) Put(_ context.Context, page diary.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, err := loadPages(s.path)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(pages, func(p diary.Page) bool { return p.PageNumber == page.PageNumber })
	if idx >= 0 {
		pages[idx] = page
	} else {
		pages = append(pages, page)
	}
	return s.write(pages)
}

func (s *Store) List(_ context.Context) ([]diary.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return loadPages(s.path)
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(nil)
}

func (s *Store) ReplaceAll(_ context.Context, pages []diary.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(slices.Clone(pages))
}

// WroteLast reports whether data is exactly what this store last wrote.
func (s *Store) WroteLast(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wrote && sha256.Sum256(data) == s.written
}

// write must be called with s.mu held.
func (s *Store) write(pages []diary.Page) error {
	data, err := writePages(s.path, pages)
	if err != nil {
		return err
	}
	s.written = sha256.Sum256(data)
	s.wrote = true
	return nil
}

func loadPages(path string) ([]diary.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pages file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var pages []diary.Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode pages file %s: %w", path, err)
	}
	sortPages(pages)
	return pages, nil
}

// writePages replaces the file through a temp file and rename so readers
// never observe a partial write. It returns the bytes written.
func writePages(path string, pages []diary.Page) ([]byte, error) {
	if pages == nil {
		pages = []diary.Page{}
	}
	sortPages(pages)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pages: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("replace pages file: %w", err)
	}
	return data, nil
}

func sortPages(pages []diary.Page) {
	slices.SortFunc(pages, func(a, b diary.Page) int { return a.PageNumber - b.PageNumber })
}

// Package memory is an in-process page store. Nothing survives a restart.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/csheth/shadowscribe/internal/diary"
)

// Store keeps pages in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	pages map[int]diary.Page
}

var _ diary.Store = (*Store)(nil)

// New returns an empty store, optionally seeded with pages.
func New(seed ...diary.Page) *Store {
	s := &Store{pages: make(map[int]diary.Page, len(seed))}
	for _, p := range seed {
		s.pages[p.PageNumber] = clonePage(p)
	}
	return s
}

func (s *Store) Get(_ context.Context, pageNumber int) (diary.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[pageNumber]
	if !ok {
		return diary.Page{}, diary.ErrNotFound
	}
	return clonePage(p), nil
}

func (s *Store) Put(_ context.Context, page diary.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages[page.PageNumber] = clonePage(page)
	return nil
}

func (s *Store) List(_ context.Context) ([]diary.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(s.pages))
	out := make([]diary.Page, 0, len(keys))
	for _, k := range keys {
		out = append(out, clonePage(s.pages[k]))
	}
	return out, nil
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.pages)
	return nil
}

func (s *Store) ReplaceAll(_ context.Context, pages []diary.Page) error {
	next := make(map[int]diary.Page, len(pages))
	for _, p := range pages {
		next[p.PageNumber] = clonePage(p)
	}

	s.mu.Lock()
	s.pages = next
	s.mu.Unlock()
	return nil
}

func clonePage(p diary.Page) diary.Page {
	p.Tags = slices.Clone(p.Tags)
	return p
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/shadowscribe/internal/diary"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "pages.json"))
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	pages, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)

	_, err = s.Get(ctx, 1)
	require.ErrorIs(t, err, diary.ErrNotFound)
}

func TestStorePutUpsertsAndSorts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	stamp := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, diary.Page{ID: "b", PageNumber: 2, Content: "two", CreatedAt: stamp, ModifiedAt: stamp}))
	require.NoError(t, s.Put(ctx, diary.Page{ID: "a", PageNumber: 1, Content: "one", CreatedAt: stamp, ModifiedAt: stamp}))
	require.NoError(t, s.Put(ctx, diary.Page{ID: "b", PageNumber: 2, Content: "deux", CreatedAt: stamp, ModifiedAt: stamp}))

	pages, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "one", pages[0].Content)
	assert.Equal(t, "deux", pages[1].Content)
	assert.True(t, stamp.Equal(pages[1].ModifiedAt))

	// A fresh store over the same file sees the same pages.
	reopened := New(s.Path())
	got, err := reopened.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
}

func TestStoreReplaceAllAndDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, diary.Page{PageNumber: 1}))
	require.NoError(t, s.ReplaceAll(ctx, []diary.Page{{PageNumber: 4}, {PageNumber: 3}}))

	pages, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 3, pages[0].PageNumber)

	require.NoError(t, s.DeleteAll(ctx))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestStoreCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.List(context.Background())
	require.Error(t, err)
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Put(ctx, diary.Page{PageNumber: 1}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pages.json", entries[0].Name())
}

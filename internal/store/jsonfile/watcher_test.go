package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csheth/shadowscribe/internal/diary"
)

func TestWatcherReportsStoreWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	s := New(path)
	require.NoError(t, s.Put(context.Background(), diary.Page{PageNumber: 1, Content: "x"}))

	select {
	case ev := <-w.Events():
		require.Equal(t, filepath.Clean(path), ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("expected change event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "pages.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "pages.json"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	require.False(t, ok)
}

func TestWatcherIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	s := New(path)
	w, err := NewWatcher(path, IgnoreWritesBy(s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, s.Put(context.Background(), diary.Page{PageNumber: 1, Content: "mine"}))

	select {
	case ev := <-w.Events():
		t.Fatalf("own write reported: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`[{"pageNumber":1,"content":"theirs"}]`), 0o644))

	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("expected change event for an outside write")
	}
}

func TestStoreWroteLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.json")
	s := New(path)
	require.False(t, s.WroteLast([]byte("[]")))

	require.NoError(t, s.Put(context.Background(), diary.Page{PageNumber: 2, Content: "x"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, s.WroteLast(data))
	require.False(t, s.WroteLast(append(data, '\n')))

	require.NoError(t, s.DeleteAll(context.Background()))
	require.False(t, s.WroteLast(data))
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/csheth/shadowscribe/internal/logging"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// ChangeEvent reports that the pages file changed on disk.
type ChangeEvent struct {
	Path      string
	Timestamp time.Time
}

// Watcher reports changes to a pages file. Bursts of filesystem events are
// collapsed into one ChangeEvent.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan ChangeEvent
	log     zerolog.Logger
	owner   *Store

	mu       sync.Mutex
	debounce *time.Timer
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// IgnoreWritesBy drops changes that leave the file holding exactly what s
// last wrote, so a process does not hear about its own saves.
func IgnoreWritesBy(s *Store) WatcherOption {
	return func(w *Watcher) {
		w.owner = s
	}
}

// NewWatcher watches the directory holding path. The directory is created if
// it doesn't exist.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		events:  make(chan ChangeEvent, eventBufferSize),
		log:     logging.Component("watcher"),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Events returns the channel change notifications are delivered on. It is
// closed by Close.
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

// Close stops watching and closes the events channel.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.closed = true
	close(w.events)
	w.mu.Unlock()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.notify)
}

func (w *Watcher) notify() {
	own := w.ownWrite()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.debounce = nil
	if w.closed {
		return
	}
	if own {
		w.log.Debug().Str("path", w.path).Msg("ignoring own write")
		return
	}
	select {
	case w.events <- ChangeEvent{Path: w.path, Timestamp: time.Now()}:
	default:
		// Subscriber is behind; it will reload everything anyway.
	}
}

func (w *Watcher) ownWrite() bool {
	if w.owner == nil {
		return false
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		return false
	}
	return w.owner.WroteLast(data)
}

// Package watch monitors the database file for writes made by other
// processes and invokes a debounced refresh callback so the in-memory
// state can catch up.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/logfields"
)

// Watcher monitors one database file and debounces change notifications.
type Watcher struct {
	dbPath   string
	onChange func()
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	dirty    chan struct{}
	debounce time.Duration
}

// New creates a watcher for the database at dbPath. onChange runs after the
// debounce window whenever the file (or its SQLite sidecars) is written.
func New(dbPath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		fsw.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "resolve database path").
			WithContext("path", dbPath).Build()
	}

	return &Watcher{
		dbPath:   absPath,
		onChange: onChange,
		watcher:  fsw,
		stopChan: make(chan struct{}),
		dirty:    make(chan struct{}, 1),
		debounce: debounce,
	}, nil
}

// Start begins monitoring. Watching the containing directory is more
// reliable than watching the file itself across truncate/rename cycles.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.dbPath)
	if err := w.watcher.Add(dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch database directory").
			WithContext("path", dir).Build()
	}

	slog.Info("watching database file", logfields.Path(w.dbPath))

	go w.eventLoop(ctx)
	go w.notifyLoop(ctx)
	return nil
}

// Stop halts monitoring. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			slog.Error("closing file watcher", logfields.Error(err))
		}
	})
}

// matches reports whether the event path refers to the database file or one
// of SQLite's journal sidecars (-wal, -journal, -shm).
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(w.dbPath)
	got := filepath.Base(name)
	return got == base || strings.HasPrefix(got, base+"-")
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("database change detected", logfields.Path(event.Name))
				w.markDirty()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("file watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) notifyLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.dirty:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)
		}
	}
}

func (w *Watcher) markDirty() {
	select {
	case w.dirty <- struct{}{}:
	default:
		// Notification already pending.
	}
}

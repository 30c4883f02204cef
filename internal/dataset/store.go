// Package dataset keeps the active pairing index and swaps it when the
// backing CSV file changes.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flavorgraph/core/internal/logger"
	"github.com/flavorgraph/core/internal/pairing"
	"github.com/flavorgraph/core/internal/parser"
)

// ReloadObserver is notified after every reload attempt.
type ReloadObserver interface {
	ObserveReload(records int, err error)
}

// Store holds the current *pairing.Index. Readers always see either the old or
// the new index, never a partially built one.
type Store struct {
	path     string
	log      *logger.Logger
	observer ReloadObserver

	current atomic.Pointer[pairing.Index]

	mu        sync.Mutex // serializes reloads and listener registration
	listeners []func(*pairing.Index)
}

// Open loads the dataset at path. A malformed file is an error: the server
// must not start without a valid index.
func Open(path string, log *logger.Logger, observer ReloadObserver) (*Store, error) {
	if log == nil {
		log = logger.Discard()
	}

	s := &Store{
		path:     filepath.Clean(path),
		log:      log.WithField("dataset", path),
		observer: observer,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the watched file.
func (s *Store) Path() string {
	return s.path
}

// Index returns the active index.
func (s *Store) Index() *pairing.Index {
	return s.current.Load()
}

// OnSwap registers fn to run after each successful reload. fn is also called
// immediately with the current index.
func (s *Store) OnSwap(fn func(*pairing.Index)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
	if idx := s.current.Load(); idx != nil {
		fn(idx)
	}
}

// Reload re-reads the file. On failure the previous index stays active.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := parser.LoadDataset(s.path)
	if s.observer != nil {
		records := 0
		if idx != nil {
			records = idx.Len()
		}
		s.observer.ObserveReload(records, err)
	}
	if err != nil {
		return fmt.Errorf("reload dataset: %w", err)
	}

	s.current.Store(idx)
	s.log.Info("Dataset loaded",
		"records", idx.Len(),
		"connectable", len(idx.ConnectablePairs()),
		"mains", len(idx.Mains()),
	)

	for _, fn := range s.listeners {
		fn(idx)
	}

	return nil
}

// Watch reloads the dataset whenever its file is written, created or renamed
// into place. Events are coalesced until debounce has passed without a new
// one. The watch is registered before Watch returns and stops when ctx ends.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, watcher, debounce)

	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration) {
	defer watcher.Close()

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			s.log.Debug("Dataset changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			trigger = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("Dataset watcher error")

		case <-trigger:
			trigger = nil
			if err := s.Reload(); err != nil {
				s.log.WithError(err).Error("Keeping previous dataset")
			}
		}
	}
}

// Package watcher reports changes to configuration files.
//
// It watches the directories containing the files, because editors and the
// settings store replace files by renaming over them, and a watch on the
// file itself would be lost.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds watcher configuration options.
type Config struct {
	// Paths are the files to watch.
	Paths []string

	// Debounce coalesces bursts of events into one notification.
	Debounce time.Duration
}

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Watcher notifies when any watched file is written, created or replaced.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]bool
	debounce  time.Duration
	onChange  chan string
	errors    chan error
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher for cfg.Paths.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watcher: no paths")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		files:     make(map[string]bool, len(cfg.Paths)),
		debounce:  cfg.Debounce,
		onChange:  make(chan string, 1),
		errors:    make(chan error, 1),
		done:      make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
	}
	return w, nil
}

// Start begins watching. The returned channel receives the path of a
// changed file once its burst of events has settled. Notifications are
// coalesced when the receiver falls behind.
func (w *Watcher) Start() (<-chan string, error) {
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()
	return w.onChange, nil
}

// Errors returns watch errors. Only the most recent unread one is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevant(event) {
				continue
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.onChange <- pending:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

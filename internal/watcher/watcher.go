// Package watcher follows the directory a session is looking at and reports
// changes to its immediate children through callbacks.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventType represents the type of file system event
type EventType int

// File system event types.
const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
	EventRename
	EventChmod
)

func (t EventType) String() string {
	switch t {
	case EventCreate:
		return "create"
	case EventWrite:
		return "update"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	default:
		return "chmod"
	}
}

// Event represents a change inside the watched directory
type Event struct {
	Type EventType
	// Dir is the watched directory, Path the child that changed.
	Dir  string
	Path string
}

// Callback is a function called when file changes occur
type Callback func(Event)

// Watcher watches at most one directory at a time.
type Watcher struct {
	watcher   *fsnotify.Watcher
	log       *zap.Logger
	callbacks []Callback
	mu        sync.RWMutex
	dir       string
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher and starts its event loop.
func New(log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	wt := &Watcher{
		watcher: w,
		log:     log,
		done:    make(chan struct{}),
	}
	go wt.eventLoop()
	return wt, nil
}

// OnChange registers a callback for file change events
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Watch switches the watched directory to dir. Watching the same
// directory again is a no-op.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
		w.dir = ""
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Dir returns the directory currently watched, or "" when none is.
func (w *Watcher) Dir() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dir
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
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
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType EventType
	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Has(fsnotify.Remove):
		eventType = EventRemove
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	case event.Has(fsnotify.Chmod):
		eventType = EventChmod
	default:
		return
	}

	w.mu.RLock()
	dir := w.dir
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	// Events queued for a directory we already left are dropped.
	if dir == "" || filepath.Dir(event.Name) != dir {
		return
	}

	e := Event{
		Type: eventType,
		Dir:  dir,
		Path: event.Name,
	}
	for _, cb := range callbacks {
		cb(e)
	}
}

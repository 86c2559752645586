// Package watcher reloads the backend when artifacts change out of band.
//
// Only names that the active backend's naming rule accepts are considered, so
// the writer's own temp files and unrelated files in the directory never
// trigger a reload. Bursts of events collapse into one reload after the
// debounce window.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/metrics"
)

// eventTypeMap maps fsnotify operations to event type labels
var eventTypeMap = map[fsnotify.Op]string{
	fsnotify.Create: "created",
	fsnotify.Write:  "modified",
	fsnotify.Remove: "deleted",
	fsnotify.Rename: "renamed",
}

// Reconciler runs the reload executable
type Reconciler interface {
	Reconcile(ctx context.Context) *lifecycle.Report
}

// Watcher watches one artifacts directory
type Watcher struct {
	dir      string
	backend  driver.Backend
	window   time.Duration
	target   Reconciler
	watcher  *fsnotify.Watcher
	onReport func(*lifecycle.Report)

	mu      sync.Mutex
	timer   *time.Timer
	pending []string

	ctx    context.Context
	stopCh chan struct{}
	doneCh chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithReportHandler is called with every reconcile report
func WithReportHandler(fn func(*lifecycle.Report)) Option {
	return func(w *Watcher) {
		w.onReport = fn
	}
}

// New creates a watcher on dir for backend b
func New(dir string, b driver.Backend, window time.Duration, target Reconciler, opts ...Option) (*Watcher, error) {
	if _, err := driver.Get(b); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := fsw.Add(absDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}

	w := &Watcher{
		dir:     absDir,
		backend: b,
		window:  window,
		target:  target,
		watcher: fsw,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins processing events in the background
func (w *Watcher) Start(ctx context.Context) {
	w.ctx = ctx
	go w.eventLoop(ctx)
	logger.Info("Watching %s for %s artifacts", w.dir, w.backend)
}

// Stop stops the watcher, drops any pending reload and releases resources
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	w.mu.Unlock()

	return w.watcher.Close()
}

// Run starts the watcher and blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	w.Start(ctx)
	<-ctx.Done()
	return w.Stop()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watcher stopped (context cancelled)")
			return
		case <-w.stopCh:
			logger.Debug("Watcher stopped")
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				logger.Warn("Watcher event channel closed")
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				logger.Warn("Watcher error channel closed")
				return
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// handleEvent filters one event and arms the debounce timer
func (w *Watcher) handleEvent(event fsnotify.Event) {
	eventType, ok := w.classify(event)
	if !ok {
		return
	}
	metrics.RecordWatchEvent(eventType)
	logger.Debug("Artifact %s: %s", eventType, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, filepath.Base(event.Name))
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, w.flush)
}

// classify returns the event label for events on artifact names
func (w *Watcher) classify(event fsnotify.Event) (string, bool) {
	var eventType string
	for op, label := range eventTypeMap {
		if event.Has(op) {
			eventType = label
			break
		}
	}
	if eventType == "" {
		return "", false
	}
	if _, ok := driver.DomainFromArtifact(filepath.Base(event.Name), w.backend); !ok {
		return "", false
	}
	return eventType, true
}

// flush runs one reconcile for everything collected in the window
func (w *Watcher) flush() {
	w.mu.Lock()
	changed := w.pending
	w.pending = nil
	w.timer = nil
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}

	ctx := w.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}

	logger.InfoFields("artifacts changed, reloading", map[string]interface{}{
		"dir":     w.dir,
		"changes": len(changed),
	})
	report := w.target.Reconcile(ctx)
	if err := report.Err(); err != nil {
		logger.LogError(err, "Reload after artifact change failed")
	}
	if w.onReport != nil {
		w.onReport(report)
	}
}

package watcher

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/retailmetrics/internal/logger"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// DefaultDebounce is how long the file must be quiet before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is a loader whose cached result can be dropped.
// ingest.CachedLoader satisfies it.
type Reloader interface {
	Load(ctx context.Context) (*transactions.Dataset, error)
	Invalidate() error
}

// Watcher reloads a Reloader whenever the watched file changes.
type Watcher struct {
	path     string
	reloader Reloader

	// Debounce overrides DefaultDebounce when non-zero.
	Debounce time.Duration
	// OnReload is called after every reload attempt, from the watcher goroutine.
	OnReload func(ds *transactions.Dataset, err error)

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for the CSV file at path.
func New(path string, r Reloader) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if r == nil {
		return nil, fmt.Errorf("reloader cannot be nil")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &Watcher{
		path:     abs,
		reloader: r,
		stopCh:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Events are handled on a background goroutine until
// Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.fsw = fsw

	log := logger.FromContext(ctx)
	log.Info().Str("path", w.path).Msg("watching transaction feed")

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	log := logger.FromContext(ctx)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("feed changed")
			timer.Reset(debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("file watcher error")

		case <-timer.C:
			w.reload(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

// relevant reports whether ev touches the watched file with a content change.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	log := logger.FromContext(ctx)

	if err := w.reloader.Invalidate(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate snapshot")
	}

	ds, err := w.reloader.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("reload failed")
	} else {
		log.Info().Str("path", w.path).Int("records", ds.Len()).Msg("reloaded transaction feed")
	}

	if w.OnReload != nil {
		w.OnReload(ds, err)
	}
}

// Stop halts the watcher and waits for the event goroutine to exit.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopCh:
		return nil
	default:
		close(w.stopCh)
	}

	w.wg.Wait()

	if w.fsw != nil {
		if err := w.fsw.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return nil
}

// Run starts the watcher and blocks until SIGINT, SIGTERM, or ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	log := logger.FromContext(ctx)
	log.Info().Msg("shutting down watcher")

	return w.Stop()
}

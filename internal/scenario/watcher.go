package scenario

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 150 * time.Millisecond

// Watcher reloads a scenario file when it changes on disk and hands the
// parsed result to Reload. Parse failures are logged and skipped.
type Watcher struct {
	path    string
	reload  func(*Scenario) error
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func NewWatcher(path string, reload func(*Scenario) error, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// editors often replace the file, so watch its directory
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		path:    abs,
		reload:  reload,
		watcher: fw,
		logger:  logger.With("component", "scenario_watcher", "path", abs),
	}, nil
}

// Run blocks until ctx is cancelled, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.Info("Watching scenario file")

	var (
		pending bool
		last    time.Time
	)
	ticker := time.NewTicker(debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= debounce {
				pending = false
				w.apply()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Scenario watch error", "error", err)
		}
	}
}

func (w *Watcher) apply() {
	sc, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Ignoring scenario change", "operation", "reload", "error", err)
		return
	}
	if err := w.reload(sc); err != nil {
		w.logger.Error("Failed to apply scenario", "operation", "reload", "error", err)
		return
	}
	w.logger.Info("Scenario reloaded", "operation", "reload", "solar_systems", len(sc.Systems), "black_holes", len(sc.BlackHoles))
}

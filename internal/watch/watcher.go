// Package watch rebuilds examples when their source files change.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/exampledeck/internal/checksum"
	"github.com/starford/exampledeck/internal/models"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Source is the directory being watched.
type Source interface {
	Root() string
	List() ([]models.SourceFile, error)
	Read(name string) ([]byte, error)
	Matches(name string) bool
}

// RebuildFunc runs one build after a burst of changes has settled.
type RebuildFunc func(ctx context.Context) error

// Watcher turns file system events into debounced rebuilds.
type Watcher struct {
	src      Source
	debounce time.Duration
	logger   *slog.Logger

	// last seen content digest per source file name
	sums map[string]string
}

// New creates a Watcher over src.
func New(src Source, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{src: src, debounce: debounce, logger: logger, sums: map[string]string{}}
}

// Prime records the digest of every current source file, so that writes
// leaving content unchanged do not trigger a rebuild.
func (w *Watcher) Prime() error {
	files, err := w.src.List()
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := w.src.Read(f.Name)
		if err != nil {
			continue
		}
		w.sums[f.Name] = checksum.Sum(data)
	}
	return nil
}

// Run watches the source directory until ctx is cancelled, calling rebuild
// once per settled burst of relevant changes. A failed rebuild is logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	root := w.src.Root()
	if err := fw.Add(root); err != nil {
		return err
	}
	w.logger.Info("watcher: started", slog.String("root", root), slog.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher: stopped")
			return nil

		case <-timer.C:
			if err := rebuild(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("watcher: rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.debounce)

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether ev changes the build input. It updates the
// recorded digests as a side effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Dir(ev.Name) != filepath.Clean(w.src.Root()) {
		return false
	}
	name := filepath.Base(ev.Name)
	if !w.src.Matches(name) {
		return false
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		data, err := w.src.Read(name)
		if err != nil {
			// Gone again before we could read it; treat as removal.
			return w.forget(name)
		}
		sum := checksum.Sum(data)
		if w.sums[name] == sum {
			w.logger.Debug("watcher: content unchanged", slog.String("file", name))
			return false
		}
		w.sums[name] = sum
		w.logger.Debug("watcher: changed", slog.String("file", name), slog.String("op", ev.Op.String()))
		return true

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return w.forget(name)
	}
	return false
}

func (w *Watcher) forget(name string) bool {
	if _, ok := w.sums[name]; !ok {
		return false
	}
	delete(w.sums, name)
	w.logger.Debug("watcher: removed", slog.String("file", name))
	return true
}

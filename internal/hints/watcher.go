package hints

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

func logger() *slog.Logger {
	return slog.Default().With("component", "hints")
}

// Watcher re-imports corpus files matching a pattern when they are
// created or written.
type Watcher struct {
	store   *Store
	pattern string
	fs      *fsnotify.Watcher
}

// NewWatcher watches the directory tree at the static prefix of pattern.
func NewWatcher(store *Store, pattern string) (*Watcher, error) {
	pattern = filepath.Clean(pattern)
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{store: store, pattern: pattern, fs: fw}
	if err := w.addTree(filepath.FromSlash(base)); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// Run handles file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger().Warn("corpus watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err == nil {
			logger().Debug("watching new path", "path", event.Name)
		}
	}
	if ok, _ := doublestar.PathMatch(w.pattern, event.Name); !ok {
		return
	}
	stats, err := ImportFile(ctx, w.store, event.Name)
	if err != nil {
		logger().Warn("corpus reload failed", "path", event.Name, "error", err)
		return
	}
	logger().Info("corpus file reloaded", "path", event.Name, "words", stats.Words, "clues", stats.Clues)
}

// Package watch keeps the hosted index in step with note files on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/notesearch/internal/note"
	"github.com/Paintersrp/notesearch/internal/pathutil"
	"github.com/Paintersrp/notesearch/internal/search"
)

// Indexer receives index updates. *search.Service satisfies it.
type Indexer interface {
	AddToIndex(ctx context.Context, doc search.Indexable) (bool, error)
	RemoveFromIndex(ctx context.Context, id int) error
}

type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	indexer Indexer
	logger  *slog.Logger
	done    chan struct{}
	once    sync.Once
}

// New watches dir and every directory below it.
func New(dir string, indexer Indexer, logger *slog.Logger) (*Watcher, error) {
	normalized := pathutil.NormalizePath(dir)
	if normalized == "" {
		return nil, errors.New("notes directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		dir:     normalized,
		indexer: indexer,
		logger:  logger,
		done:    make(chan struct{}),
	}

	if err := w.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

// Run applies file events to the index until ctx is done or Close is called.
// Failures on individual notes are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, event); err != nil {
				w.logger.Warn("failed to update index", "path", event.Name, "err", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.logger.Warn("watcher error", "err", err)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) error {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return w.addRecursive(event.Name)
		}
	}

	if !w.isRelevant(event) {
		return nil
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		id, _, err := note.ParseFilename(event.Name)
		if err != nil {
			return err
		}
		w.logger.Debug("removing note from index", "id", id)
		return w.indexer.RemoveFromIndex(ctx, id)
	}

	n, err := note.Load(event.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	indexed, err := w.indexer.AddToIndex(ctx, n)
	if err != nil {
		return err
	}
	w.logger.Debug("indexed note", "id", n.ID, "indexed", indexed)
	return nil
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})

	return closeErr
}

func (w *Watcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return w.watcher.Add(path)
	})
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	return pathutil.Within(w.dir, event.Name) && note.IsNote(event.Name)
}

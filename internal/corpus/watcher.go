package corpus

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/krisyotam/notes.krisyotam.com/internal/models"
	"github.com/krisyotam/notes.krisyotam.com/internal/storage"
)

// EventCallback receives watcher-driven change notifications.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind, path string)

// Watch runs an fsnotify watcher over the content root until ctx is
// cancelled. Every relevant change invalidates the cache and forwards a
// notification to cb (if non-nil). There is no per-file bookkeeping: the
// next snapshot read rebuilds everything.
//
// Directories created at runtime join the watch list. A rename surfaces as a
// delete of the old path; the new path follows as its own create event. A
// content root that appears only after startup is picked up on restart.
func Watch(ctx context.Context, root string, cache *Cache, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if _, statErr := os.Stat(root); statErr != nil {
		logger.Warn("watcher: content root missing, watch disabled", slog.String("root", root))
		<-ctx.Done()
		return nil
	}
	if err := addDirsRecursive(w, root); err != nil {
		logger.Warn("watcher: watch setup failed", slog.String("root", root), slog.String("error", err.Error()))
		<-ctx.Done()
		return nil
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if storage.SkipDir(filepath.Base(absPath)) {
						continue
					}
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					cache.Invalidate()
					// Files may have landed before the watch was in place.
					announceDir(root, absPath, cb)
					continue
				}
			}

			if _, eligible := models.FormatForPath(absPath); !eligible {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
				cache.Invalidate()
				if cb != nil {
					cb(kind, rel)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("watcher: removed", slog.String("path", rel))
				cache.Invalidate()
				if cb != nil {
					cb("deleted", rel)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// announceDir reports eligible files that already exist inside a directory
// that appeared after the watch started.
func announceDir(root, dir string, cb EventCallback) {
	if cb == nil {
		return
	}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != dir && storage.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, eligible := models.FormatForPath(d.Name()); !eligible {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		cb("created", filepath.ToSlash(rel))
		return nil
	})
}

// addDirsRecursive watches root and every subdirectory, pruning the same
// directories the corpus walk prunes.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && storage.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

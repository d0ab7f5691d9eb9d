package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-driven document change.
// kind is one of "updated" or "deleted".
type EventCallback func(kind, doc string)

// reconcileDelay debounces the rename reconciliation pass.
const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the data directory and reloads JSON
// documents as they change until ctx is cancelled. Editors that write via
// rename are handled by a short debounced reconciliation pass against the
// on-disk state.
func Watch(ctx context.Context, lib *Library, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(lib.store.Root()); err != nil {
		return err
	}

	logger.Info("content watcher: started", slog.String("root", lib.store.Root()))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("content watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(lib, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := lib.store.Read(name)
				if readErr != nil {
					logger.Warn("content watcher: read failed", slog.String("doc", name), slog.String("error", readErr.Error()))
					continue
				}
				changed, loadErr := lib.Reload(name, data)
				if loadErr != nil {
					logger.Warn("content watcher: reload failed", slog.String("doc", name), slog.String("error", loadErr.Error()))
					continue
				}
				if changed {
					logger.Debug("content watcher: reloaded", slog.String("doc", name))
					if cb != nil {
						cb("updated", name)
					}
				}

			case ev.Op&fsnotify.Remove != 0:
				lib.Drop(name)
				logger.Debug("content watcher: dropped", slog.String("doc", name))
				if cb != nil {
					cb("deleted", name)
				}

			case ev.Op&fsnotify.Rename != 0:
				// The old path gets the Rename event; the replacement file
				// arrives as a separate Create. Reconcile shortly after to
				// settle on whatever is on disk by then.
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("content watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile re-reads the on-disk documents and reloads any whose bytes no
// longer match what the library has.
func reconcile(lib *Library, logger *slog.Logger, cb EventCallback) {
	metas, err := lib.store.List()
	if err != nil {
		logger.Warn("content watcher: reconcile list failed", slog.String("error", err.Error()))
		return
	}
	for _, m := range metas {
		data, readErr := lib.store.Read(m.Name)
		if readErr != nil {
			continue
		}
		changed, loadErr := lib.Reload(m.Name, data)
		if loadErr != nil || !changed {
			continue
		}
		logger.Debug("content watcher: reconciled", slog.String("doc", m.Name))
		if cb != nil {
			cb("updated", m.Name)
		}
	}
}

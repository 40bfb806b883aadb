package tracker

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/yada/internal/storage"
)

// reloadDelay debounces bursts of events from editors and atomic renames.
const reloadDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the data directory and reloads the
// catalog whenever the foods file changes, until ctx is cancelled. Writes
// made by the service itself are recognised by checksum and skipped.
func Watch(ctx context.Context, svc *Service, logger *slog.Logger) error {
	dataDir := svc.files.Root()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dataDir))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDelay)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			changed, err := svc.ReloadCatalog(ctx)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if changed {
				logger.Debug("watcher: catalog reloaded")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != storage.FoodsFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

package presets

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 300 * time.Millisecond

// Watch reloads the store whenever its file changes, until ctx is done.
// The parent directory is watched so that editors replacing the file via
// rename are picked up too.
func (s *Store) Watch(ctx context.Context, logger *zap.Logger) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}

	go s.processEvents(ctx, fsWatcher, logger)
	return nil
}

func (s *Store) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher, logger *zap.Logger) {
	defer fsWatcher.Close()

	target := filepath.Clean(s.path)
	var debounce *time.Timer

	reload := func() {
		if err := s.Reload(); err != nil {
			logger.Error("Failed to reload presets", zap.String("file", target), zap.Error(err))
			return
		}
		logger.Info("Presets reloaded", zap.String("file", target), zap.Strings("presets", s.Names()))
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Presets watcher error", zap.Error(err))
		}
	}
}

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watch calls fn with the result of LoadAll every time the configuration
// file is created, written, replaced, or removed. A removal is reported as a
// FileNotFound error. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself because
// writes replace the file by rename.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, fn func(map[string]Value, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	dir := filepath.Dir(s.path)
	if err := ensureDir(dir); err != nil {
		return newError(ReadError, "", s.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	s.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", s.path).
		Msg("watching config file for changes")

	name := filepath.Clean(s.path)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().
				Str("event", "config.watcher_stopped").
				Str("path", s.path).
				Msg("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				s.logger.Debug().
					Str("event", "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("file watcher error")

		case <-timer.C:
			fn(s.LoadAll())
		}
	}
}

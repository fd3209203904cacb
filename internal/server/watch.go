package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-quillfield/components/quill"
)

// WatchSettings reloads the editor settings whenever the file at path is
// written or replaced. The directory is watched so editors that save through
// a rename are picked up. Watching stops when ctx is done.
func (s *Server) WatchSettings(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("server: watch settings: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: watch settings: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("server: watch settings: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				if err := s.reloadFile(ctx, path); err != nil {
					s.logger.Error().Err(err).Str("path", path).Msg("settings reload failed")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error().Err(err).Msg("settings watcher error")
			}
		}
	}()
	s.logger.Info().Str("path", path).Msg("watching editor settings")
	return nil
}

func (s *Server) reloadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	settings, err := quill.ParseSettings(data, path)
	if err != nil {
		return err
	}
	return s.Reload(ctx, settings)
}

package jsonstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maruel/jsonstore/jsonval"
	"golang.org/x/time/rate"
)

// Reload re-reads the bound file and replaces the record wholesale.
// Unparseable content yields a null record, matching construction.
func (s *Store) Reload() error {
	if s.path == "" {
		return fmt.Errorf("%w: no file bound", ErrInvalidArgument)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", s.path, err)
	}
	rec, err := jsonval.Parse(data)
	if err != nil {
		rec = jsonval.Null()
	}
	s.mu.Lock()
	s.record = rec
	s.mu.Unlock()
	return nil
}

// Watch reloads the record whenever another process rewrites the bound
// file, until ctx is canceled. Reloads are paced so editor save storms
// collapse into a few reloads instead of one per event. onReload, if not
// nil, is called after each successful reload.
func (s *Store) Watch(ctx context.Context, onReload func()) error {
	if s.path == "" {
		return fmt.Errorf("%w: no file bound", ErrInvalidArgument)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.path); err != nil {
		_ = w.Close()
		return err
	}
	lim := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Chmod) {
					continue
				}
				if err := lim.Wait(ctx); err != nil {
					return
				}
				if err := s.Reload(); err != nil {
					slog.Warn("Failed to reload data file", "path", s.path, "err", err)
					continue
				}
				if onReload != nil {
					onReload()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("Error watching data file", "path", s.path, "err", err)
			}
		}
	}()
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watch runs path once, then again whenever it changes, until ctx ends.
func (a *app) watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files instead of writing them, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	trigger := make(chan struct{}, 1)
	fire := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	fire()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-trigger:
			a.runWatched(ctx, abs)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, fire)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Sugar().Warnf("File watcher error: %v", err)
		}
	}
}

func (a *app) runWatched(ctx context.Context, path string) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the command line
	if err != nil {
		a.print.notice("%v", err)
		return
	}
	a.print.notice("--- %s (%s)", filepath.Base(path), time.Now().Format(time.TimeOnly))
	res, err := a.execute(ctx, path, string(data))
	if err != nil {
		a.print.notice("%v", err)
		return
	}
	a.print.result(res)
}

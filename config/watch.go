package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever its file changes and hands the new
// value to onUpdate. Reloads that fail to parse or validate are dropped
// (onError may observe them; it can be nil). Editors fire several events
// per save (truncate, write, rename), so the reload runs only after the
// file has been quiet for a full cooldown window and always re-reads the
// final content. Blocks until ctx is done.
func Watch(ctx context.Context, path string, cooldown time.Duration, onUpdate func(DeskConfig), onError func(error)) error {
	if cooldown <= 0 {
		cooldown = time.Second
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory: many editors replace the file on save, which
	// drops a watch registered on the file itself
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	debounce := time.NewTimer(cooldown)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(cooldown)
		case <-debounce.C:
			cfg, err := Load(path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

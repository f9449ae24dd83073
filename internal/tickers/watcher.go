package tickers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch loads a JSON override file of name-to-ticker entries into dir and
// reloads it whenever the file changes, until ctx is cancelled. The file is
// a flat object, e.g. {"acme robotics": "ACME", "region:jp:keyence": "KYCCF"}.
func Watch(ctx context.Context, dir *Directory, path string, logger *log.Logger) error {
	if err := loadOverrides(dir, path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the parent directory so atomic rename-into-place saves are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := loadOverrides(dir, path); err != nil {
					if logger != nil {
						logger.Printf("ticker overrides reload failed: %v", err)
					}
					continue
				}
				if logger != nil {
					logger.Printf("ticker overrides reloaded from %s", path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Printf("ticker overrides watch error: %v", err)
				}
			}
		}
	}()
	return nil
}

func loadOverrides(dir *Directory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading overrides: %w", err)
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing overrides: %w", err)
	}
	return dir.Merge(entries)
}

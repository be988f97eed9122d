package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

const reloadDebounce = 250 * time.Millisecond

// Live holds the current configuration and swaps it when the backing file
// changes. Only image and session settings take effect on reload; the listen
// address and upload limit are read once at startup.
type Live struct {
	path    string
	current atomic.Pointer[Config]
}

func NewLive(path string, initial *Config) *Live {
	l := &Live{path: path}
	l.current.Store(initial)
	return l
}

func (l *Live) Config() *Config {
	return l.current.Load()
}

func (l *Live) Settings() entity.ConversionSettings {
	return l.current.Load().Settings()
}

// Reload re-reads the file. An invalid file leaves the current config in place.
func (l *Live) Reload() error {
	cfg, err := Load(l.path)
	if err != nil {
		return err
	}
	l.current.Store(cfg)
	return nil
}

// Watch reloads the configuration whenever the file is written, until ctx is
// done. The parent directory is watched so editors that replace the file by
// rename are picked up too.
func (l *Live) Watch(ctx context.Context) error {
	if l.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	target := filepath.Clean(l.path)
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
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
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := l.Reload(); err != nil {
					slog.Warn("config reload rejected", "path", l.path, "error", err)
					return
				}
				slog.Info("config reloaded", "path", l.path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}

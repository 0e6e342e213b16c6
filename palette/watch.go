package palette

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce coalesces the burst of events editors produce on save.
var debounce = 200 * time.Millisecond

// Watch reloads the palette file at path whenever it is written or recreated
// and sends each successfully parsed palette on the returned channel. Files
// that fail to parse are logged and skipped. The channel closes when ctx ends.
//
// The parent directory is watched rather than the file, so editors that save
// by renaming over the original keep working.
func Watch(ctx context.Context, path string, log *zap.Logger) (<-chan *Palette, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve palette path: %w", err)
	}
	if _, err := FormatFor(abs); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan *Palette, 1)
	go watchLoop(ctx, watcher, abs, out, log.With(zap.String("palette", abs)))
	return out, nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, out chan<- *Palette, log *zap.Logger) {
	defer close(out)
	defer watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("palette file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			p, err := Load(path)
			if err != nil {
				log.Error("palette reload failed", zap.Error(err))
				continue
			}
			log.Info("palette reloaded", zap.Int("types", p.Len()))
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("file watcher error", zap.Error(err))
		}
	}
}

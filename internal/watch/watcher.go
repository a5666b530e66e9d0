package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"subpick/internal/logging"
	"subpick/internal/media/sidecar"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options tune a watch loop.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches the directory holding mediaPath and calls fn once the media
// file or a sidecar has been quiet for the debounce period. It blocks until
// ctx is done. Errors from fn are logged and do not stop the loop.
func Run(ctx context.Context, mediaPath string, opts Options, fn func(context.Context) error) error {
	mediaPath = strings.TrimSpace(mediaPath)
	if mediaPath == "" {
		return errors.New("watch: empty media path")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := logging.NewComponentLogger(opts.Logger, "watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(mediaPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	logger.Debug("watching media directory", logging.String("dir", dir))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !affects(mediaPath, event) {
				continue
			}
			logger.Debug("media change observed",
				logging.String("path", event.Name),
				logging.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "watcher error", "watch_error", logging.Error(err))

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				logging.WarnWithContext(logger, "selection after change failed", "watch_pass_failed",
					logging.Error(err),
				)
			}
		}
	}
}

// affects reports whether event touches the media file or one of its sidecars.
func affects(mediaPath string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	mediaName := filepath.Base(mediaPath)
	if name == mediaName {
		return true
	}
	base := strings.TrimSuffix(mediaName, filepath.Ext(mediaName))
	_, ok := sidecar.Classify(base, name)
	return ok
}

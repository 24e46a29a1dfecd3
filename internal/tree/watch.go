package gtree

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchOptions configures live re-rendering of a tree.
type WatchOptions struct {
	// Recursive watches every subdirectory of the root, not just the root
	// itself. New directories created while watching are added on the fly.
	Recursive bool

	// Debounce is the quiet period after the last event before the tree is
	// re-rendered. Zero means 250ms.
	Debounce time.Duration

	// Timeout stops the watch after this duration. Zero means watch until
	// the context is canceled.
	Timeout time.Duration
}

// Watch renders the tree rooted at root once, then re-renders it whenever
// the watched hierarchy changes. It blocks until the context is canceled,
// the timeout expires, or the watcher fails. Render errors after the first
// successful render are logged and do not stop the watch.
func Watch(ctx context.Context, root string, out io.Writer, opts Options, watchOpts WatchOptions) error {
	opts = opts.normalize()
	if opts.Logger == nil {
		opts.Logger = createLogger(opts.LogLevel)
		defer opts.Logger.Sync()
	}
	logger := opts.Logger

	if watchOpts.Debounce <= 0 {
		watchOpts.Debounce = 250 * time.Millisecond
	}
	if watchOpts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchOpts.Timeout)
		defer cancel()
	}

	if _, err := Walk(ctx, root, out, opts); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("error watching directory %s: %w", root, err)
	}
	if watchOpts.Recursive {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // unreadable subtree: watch what we can
			}
			if info.IsDir() {
				if !opts.ShowHidden && isHidden(path, root) {
					return filepath.SkipDir
				}
				if err := watcher.Add(path); err != nil {
					logger.Warn("cannot watch directory",
						zap.String("path", path), zap.Error(err))
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error walking directory tree: %w", err)
		}
	}

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if watchOpts.Recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("cannot watch new directory",
							zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(watchOpts.Debounce)
			} else {
				debounce.Reset(watchOpts.Debounce)
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			if _, err := Walk(ctx, root, out, opts); err != nil {
				logger.Warn("re-render failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// isHidden reports whether any path element below root starts with a dot.
func isHidden(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

package scenario

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/vito/binder/pkg/ioctx"
)

// Watch calls fn once, then again each time one of paths is written or
// re-created, until ctx is done. Errors from fn are logged and don't stop
// the watch; errors after ctx is done are dropped.
func Watch(ctx context.Context, paths []string, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	// Watch parent directories; editors often save by renaming over a file.
	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
		dirs[dir] = true
	}

	logger := ioctx.LoggerFromContext(ctx)
	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Error("run failed", "error", err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}
			logger.Debug("file changed", "path", name, "op", event.Op.String())
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watching scenario files")
		}
	}
}

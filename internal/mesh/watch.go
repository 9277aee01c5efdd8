package mesh

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the mesh whenever its file is written or replaced, until
// ctx is canceled. The parent directory is watched so editors that save
// by rename keep triggering reloads. onReload, if set, is called after
// every attempt with its error.
func (l *Loader) Watch(ctx context.Context, onReload func(error)) error {
	if l.isRemote() {
		return ErrNotWatchable
	}
	target, err := filepath.Abs(l.source)
	if err != nil {
		return fmt.Errorf("watch %s: %w", l.source, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", l.source, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", l.source, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				l.logger.Debug("mesh changed", "source", l.source, "op", ev.Op.String())
				err := l.Reload(ctx)
				if onReload != nil {
					onReload(err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("mesh watcher error", "source", l.source, "err", err)
			}
		}
	}()
	return nil
}

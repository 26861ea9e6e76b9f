package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// watch calls rerun with the path of every problem file that is written or
// recreated, until ctx is done. Directories are watched rather than files so that
// editors replacing a file by rename are noticed.
func (a *app) watch(ctx context.Context, paths []string, rerun func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}

		watched[abs] = p
	}

	dirs := lo.Uniq(lo.Map(lo.Keys(watched), func(p string, _ int) string { return filepath.Dir(p) }))
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	a.logger.Info("watching problem files", "files", len(paths))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}

			if path, ok := watched[abs]; ok {
				a.logger.Debug("problem changed", "file", path, "op", ev.Op.String())
				rerun(path)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			a.logger.Warn("watch error", "error", err)
		}
	}
}

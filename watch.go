package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"

	"github.com/chazu/lathser/pkg/logging"
)

// settle is how long a burst of file events must be quiet before a rebuild.
const settle = 200 * time.Millisecond

// watch calls fn once, then again whenever one of paths is written or
// created, until ctx is done. Errors from fn are logged
// and do not stop the watch.
func watch(ctx context.Context, paths []string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Editors often replace files rather than write them, so watch the
	// directories and filter by name.
	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		targets[abs] = true
	}
	dirs := lo.Uniq(lo.Map(lo.Keys(targets), func(p string, _ int) string { return filepath.Dir(p) }))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	log := logging.Logger()
	rebuild := func() {
		if err := fn(); err != nil {
			log.Error("rebuild failed", "err", err)
		}
	}
	rebuild()
	log.Info("watching for changes", "files", len(targets))

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(e.Name)
			if !targets[abs] || !(e.Op.Has(fsnotify.Write) || e.Op.Has(fsnotify.Create)) {
				continue
			}
			log.Debug("change", "file", e.Name, "op", e.Op)
			timer.Reset(settle)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)

		case <-timer.C:
			rebuild()
		}
	}
}

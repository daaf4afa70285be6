package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors tend to save in several writes (truncate, write, chmod); wait for them to settle.
const settle = 150 * time.Millisecond

// watch encodes once, then again after every change of the input file until ctx is done.
// Encode errors are logged and the loop goes on.
func (j *job) watch(ctx context.Context) error {
	path, err := filepath.Abs(j.input)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory, not the file: atomic saves replace the inode.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	j.once(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			j.log.Debug("script changed", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(settle)

		case <-pending:
			pending = nil
			j.once(ctx)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			j.log.Error("watcher", "error", err)
		}
	}
}

func (j *job) once(ctx context.Context) {
	if err := j.run(ctx); err != nil {
		j.log.Error("encode failed", "input", j.input, "error", err)
	}
}

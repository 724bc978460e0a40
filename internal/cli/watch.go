package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/martialmarel/linkrank/pkg/cache"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/rank"
)

// watchDebounce is how long a file must stay quiet before it is re-ranked.
const watchDebounce = 100 * time.Millisecond

// fileWatcher reports writes to a single file. It watches the parent
// directory so that editors which replace the file on save are still seen.
type fileWatcher struct {
	path    string
	Changes <-chan struct{}

	changes chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	w := &fileWatcher{
		path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Changes.
func (w *fileWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	close(w.changes)
	return err
}

func (w *fileWatcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= watchDebounce {
				pending = time.Time{}
				select {
				case w.changes <- struct{}{}:
				default: // a change is already queued
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// watchRank ranks path once and again after every change until ctx ends,
// then returns ctx.Err(). Load and rank errors are reported without
// stopping the watch. Results are
// kept in memory so that reverting a file is answered from the cache.
func (c *CLI) watchRank(ctx context.Context, w io.Writer, path string, opts rank.Options, cfg Config) error {
	mem, err := cache.NewMemoryCache(0)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(mem, c.Logger)
	defer runner.Close()

	fw, err := newFileWatcher(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer fw.Close()

	rerank := func() {
		res, err := rankFile(ctx, runner, path, opts)
		if err != nil {
			printWarning(w, "%v", err)
			return
		}
		if err := writeRanking(w, res, cfg.Top, cfg.Format); err != nil {
			printWarning(w, "%v", err)
		}
	}

	rerank()
	if cfg.Format == outputTable {
		printInfo(w, "Watching %s (ctrl+c to stop)", path)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-fw.Changes:
			if !ok {
				return nil
			}
			c.Logger.Debug("file changed", "path", path)
			rerank()
		}
	}
}

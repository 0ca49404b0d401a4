package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/docoutline/internal/parser"
)

// WatchOptions tunes the Watcher.
type WatchOptions struct {
	// Settle is the quiet period after the last write event before a file is
	// processed, and the delay between retries.
	Settle time.Duration
	// Attempts bounds how often a document is retried while it still fails
	// to open.
	Attempts int
	// OnResult, when set, receives every outcome.
	OnResult func(Result)
}

// Watcher processes documents as they appear in a directory.
type Watcher struct {
	dir    string
	worker *Worker
	opts   WatchOptions
	log    *slog.Logger
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingDoc
	wg      sync.WaitGroup
}

type pendingDoc struct {
	timer *time.Timer
}

// NewWatcher starts watching dir. Events are not consumed until Run.
func NewWatcher(dir string, w *Worker, opts WatchOptions, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:     dir,
		worker:  w,
		opts:    opts,
		log:     log,
		fsw:     fsw,
		pending: make(map[string]*pendingDoc),
	}, nil
}

// Run consumes events until ctx is cancelled, then waits for in-flight
// documents and closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		for path, p := range w.pending {
			if p.timer.Stop() {
				w.wg.Done()
			}
			delete(w.pending, path)
		}
		w.mu.Unlock()
		w.wg.Wait()
		w.fsw.Close()
	}()

	w.log.Info("watching for documents", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !parser.IsSupportedExtension(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// schedule (re)arms the settle timer for path. A timer that already fired
// is replaced rather than reset so its callback runs exactly once.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(w.opts.Settle)
		return
	}

	p := &pendingDoc{}
	w.wg.Add(1)
	p.timer = time.AfterFunc(w.opts.Settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == p {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		w.handle(ctx, path)
	})
	w.pending[path] = p
}

func (w *Watcher) handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	var res Result
	err := retry.Do(
		func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				res = skipped(name, "", fmt.Errorf("read: %w", err))
				return res.Err
			}
			res = w.worker.Process(ctx, Document{Name: name, Data: data})
			if res.Status == ResultSkipped {
				return res.Err
			}
			return nil
		},
		settleOptions(ctx, w.opts.Attempts, w.opts.Settle)...,
	)
	if err != nil {
		w.log.Warn("giving up on document", "file", name, "error", err)
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(res)
	}
}

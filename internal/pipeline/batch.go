package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Batch structures every file in a directory. Documents are independent: a
// failure in one is reported in its Result and never stops the others.
type Batch struct {
	worker  *Worker
	workers int
	log     *slog.Logger
}

// NewBatch runs w over at most workers documents at a time.
func NewBatch(w *Worker, workers int, log *slog.Logger) *Batch {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Batch{worker: w, workers: workers, log: log}
}

// Summary counts results by status.
type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Duplicate int `json:"duplicate"`
	Damaged   int `json:"potentially_damaged"`
}

// Summarize tallies a batch's results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case ResultProcessed:
			s.Processed++
			if r.Record.PotentiallyDamage {
				s.Damaged++
			}
		case ResultDuplicate:
			s.Duplicate++
		default:
			s.Skipped++
		}
	}
	return s
}

// Run processes the regular files directly inside dir. The only error it
// returns is failure to list dir; results are sorted by file name.
func (b *Batch) Run(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	queue := make(chan string)
	results := make([]Result, 0, len(names))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i, n := 0, min(b.workers, max(len(names), 1)); i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range queue {
				res := b.processFile(ctx, filepath.Join(dir, name))
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	// Once ctx is done the remaining files are not read at all.
	for i, name := range names {
		select {
		case queue <- name:
			continue
		case <-ctx.Done():
		}
		mu.Lock()
		for _, rest := range names[i:] {
			results = append(results, skipped(rest, "", ctx.Err()))
		}
		mu.Unlock()
		break
	}
	close(queue)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	s := Summarize(results)
	b.log.Info("batch complete",
		"dir", dir,
		"documents", len(results),
		"processed", s.Processed,
		"skipped", s.Skipped,
		"duplicate", s.Duplicate,
		"potentially_damaged", s.Damaged,
	)
	return results, nil
}

// processFile reads and processes one file path.
func (b *Batch) processFile(ctx context.Context, path string) Result {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		b.log.Warn("read failed, skipping document", "file", name, "error", err)
		return skipped(name, "", fmt.Errorf("read: %w", err))
	}
	return b.worker.Process(ctx, Document{Name: name, Data: data})
}

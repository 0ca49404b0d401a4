package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/ledger"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/store"
)

// ResultStatus is the per-document outcome of a pipeline run.
type ResultStatus string

const (
	ResultProcessed ResultStatus = "processed"
	ResultSkipped   ResultStatus = "skipped"
	ResultDuplicate ResultStatus = "duplicate"
)

// Result is what happened to one document. Err is set only for skipped
// documents; nothing is written for them.
type Result struct {
	Name        string
	Status      ResultStatus
	ContentHash string
	OutputPath  string
	Record      doctree.Record
	Err         error
}

func skipped(name, hash string, err error) Result {
	return Result{Name: name, Status: ResultSkipped, ContentHash: hash, Err: err}
}

// Document is one input file.
type Document struct {
	Name string
	Data []byte
}

// Worker turns a single document into a persisted outline record.
type Worker struct {
	mode   parser.Mode
	writer *store.Writer
	ledger *ledger.Ledger
	stats  *LatencyStats
	log    *slog.Logger

	skipDuplicates bool
}

// WorkerOptions wires optional collaborators into a Worker.
type WorkerOptions struct {
	Mode           parser.Mode
	Writer         *store.Writer  // nil: records are returned but not persisted
	Ledger         *ledger.Ledger // nil: no dedup, no processing log
	SkipDuplicates bool
	Stats          *LatencyStats
	Logger         *slog.Logger
}

// NewWorker fills in defaults for unset options.
func NewWorker(opts WorkerOptions) *Worker {
	if opts.Mode == "" {
		opts.Mode = parser.ModeNumeric
	}
	if opts.Stats == nil {
		opts.Stats = NewLatencyStats(time.Hour)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Worker{
		mode:           opts.Mode,
		writer:         opts.Writer,
		ledger:         opts.Ledger,
		stats:          opts.Stats,
		log:            opts.Logger,
		skipDuplicates: opts.SkipDuplicates,
	}
}

// Stats returns the worker's latency tracker.
func (w *Worker) Stats() *LatencyStats { return w.stats }

// Ledger returns the configured ledger, or nil.
func (w *Worker) Ledger() *ledger.Ledger { return w.ledger }

// Outline extracts and structures a document without persisting anything.
func (w *Worker) Outline(name string, data []byte) (doctree.Record, error) {
	p, err := parser.ForFile(name, w.mode)
	if err != nil {
		return doctree.Record{}, err
	}
	ext, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return doctree.Record{}, err
	}
	forest, damaged := outline.Structure(ext.Headings)
	return outline.NewRecord(forest, damaged, ext.OtherText), nil
}

// Process runs the full pipeline for one document. It never returns an
// error: failures come back as a skipped Result.
func (w *Worker) Process(ctx context.Context, doc Document) Result {
	start := time.Now()
	log := w.log.With("file", doc.Name)
	hash := ContentHashHex(doc.Data)

	if err := ctx.Err(); err != nil {
		return skipped(doc.Name, hash, err)
	}

	if w.ledger != nil && w.skipDuplicates {
		prev, err := w.ledger.Lookup(ctx, hash, doc.Name)
		switch {
		case err == nil:
			if w.alreadyPersisted(prev) {
				log.Info("unchanged document, skipping", "output", prev.OutputPath)
				return Result{Name: doc.Name, Status: ResultDuplicate, ContentHash: hash, OutputPath: prev.OutputPath}
			}
		case !errors.Is(err, ledger.ErrNotFound):
			log.Warn("dedup check failed, proceeding", "error", err)
		}
	}

	rec, err := w.Outline(doc.Name, doc.Data)
	if err != nil {
		log.Warn("extraction failed, skipping document", "error", err)
		return skipped(doc.Name, hash, err)
	}

	res := Result{Name: doc.Name, Status: ResultProcessed, ContentHash: hash, Record: rec}
	if w.writer != nil {
		path, err := w.writer.Write(ctx, doc.Name, rec)
		if err != nil {
			log.Warn("write failed, skipping document", "error", err)
			return skipped(doc.Name, hash, fmt.Errorf("persist: %w", err))
		}
		res.OutputPath = path
	}

	if w.ledger != nil {
		err := w.ledger.Record(ctx, ledger.Entry{
			ContentHash:       hash,
			Filename:          doc.Name,
			OutputPath:        res.OutputPath,
			PotentiallyDamage: rec.PotentiallyDamage,
			Headings:          rec.Headings(),
		})
		if err != nil {
			log.Warn("ledger write failed", "error", err)
		}
	}

	w.stats.Record(time.Since(start), rec.PotentiallyDamage)
	log.Info("document structured",
		"headings", rec.Headings(),
		"potentially_damage", rec.PotentiallyDamage,
		"output", res.OutputPath,
	)
	return res
}

// alreadyPersisted reports whether prev's record is still where this worker
// would write it.
func (w *Worker) alreadyPersisted(prev ledger.Entry) bool {
	if w.writer == nil {
		return prev.OutputPath == ""
	}
	if prev.OutputPath != w.writer.PathFor(prev.Filename) {
		return false
	}
	_, err := os.Stat(prev.OutputPath)
	return err == nil
}

// ProcessJob runs a queued API job through Process.
func (w *Worker) ProcessJob(ctx context.Context, job *Job) {
	job.SetStatus(StatusParsing, "parsing")
	res := w.Process(ctx, Document{Name: job.Filename, Data: job.FileData()})
	job.Finish(res)
}

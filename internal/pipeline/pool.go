package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"mediasort/internal/journal"
	"mediasort/internal/logging"
	"mediasort/internal/media"
)

// DefaultWorkers is the worker count used when the caller does not set one.
func DefaultWorkers() int {
	return 2 * runtime.NumCPU()
}

// Recorder persists per-file results as they complete. *journal.Store
// satisfies it; preview runs pass nil and nothing is recorded.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Pool fans files out across a bounded set of workers sharing one Pipeline.
type Pool struct {
	workers  int
	pipeline *Pipeline
	recorder Recorder
	runID    string
	logger   *slog.Logger
}

// NewPool builds a pool. workers <= 0 selects DefaultWorkers.
func NewPool(workers int, pipe *Pipeline, recorder Recorder, runID string, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Pool{
		workers:  workers,
		pipeline: pipe,
		recorder: recorder,
		runID:    runID,
		logger:   logging.NewComponentLogger(logger, "pool"),
	}
}

// Run processes every file and returns the aggregated summary. Cancelling
// ctx stops feeding new work; in-flight files run to completion so no file
// is left half-moved.
func (p *Pool) Run(ctx context.Context, files []media.File) Summary {
	start := time.Now()

	jobs := make(chan media.File)
	results := make([]Result, 0, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				res := p.pipeline.Process(ctx, file)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				p.record(ctx, res)
			}
		}()
	}

feed:
	for _, file := range files {
		select {
		case jobs <- file:
		case <-ctx.Done():
			p.logger.Warn("run cancelled, draining in-flight work")
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return Summary{Results: results, Duration: time.Since(start)}
}

func (p *Pool) record(ctx context.Context, res Result) {
	if p.recorder == nil {
		return
	}
	entry := journal.Entry{
		RunID:      p.runID,
		SourcePath: res.Source,
		FinalPath:  res.Final,
		Outcome:    string(res.Outcome),
		Provenance: string(res.Provenance),
		Hash:       res.Hash,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := p.recorder.Record(ctx, entry); err != nil {
		p.logger.Warn("journal record failed",
			logging.String("file", res.Source),
			logging.Error(err))
	}
}

// Package pipeline drives the per-file relocation sequence: date
// resolution, timestamp synchronization, name normalization, conflict
// resolution, and the final move into the target's YYYY/MM layout. A worker
// pool fans discovered files out across concurrent pipeline invocations.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mediasort/internal/conflict"
	"mediasort/internal/dateresolve"
	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/media"
	"mediasort/internal/services"
	"mediasort/internal/timestamp"
	"mediasort/internal/timesync"
	"mediasort/internal/translit"
)

// Options carries the run-level switches the pipeline consults per file.
type Options struct {
	TargetDir       string
	Preview         bool
	FallbackToMtime bool
}

// Pipeline processes one media file at a time. A single Pipeline is shared
// by all workers; it holds no per-file state.
type Pipeline struct {
	opts      Options
	resolver  *dateresolve.Resolver
	sync      *timesync.Synchronizer
	conflicts *conflict.Resolver
	monthLogs *MonthLogs
	logger    *slog.Logger
}

// New wires a pipeline from its collaborators.
func New(opts Options, resolver *dateresolve.Resolver, sync *timesync.Synchronizer, conflicts *conflict.Resolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		opts:      opts,
		resolver:  resolver,
		sync:      sync,
		conflicts: conflicts,
		monthLogs: NewMonthLogs(),
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs the full sequence for one file and reports its disposition.
// Per-file failures are captured in the Result; Process never panics the
// worker and never returns an error of its own.
func (p *Pipeline) Process(ctx context.Context, file media.File) Result {
	result := Result{Source: file.Path}

	if file.Kind == media.KindUnsupported {
		result.Outcome = OutcomeSkippedUnsupported
		p.logger.Debug("skipping unsupported file", logging.String("file", file.Path))
		return result
	}

	resolved, err := p.resolver.Resolve(ctx, file, p.opts.FallbackToMtime)
	if err != nil {
		if errors.Is(err, services.ErrNoDate) {
			result.Outcome = OutcomeSkippedNoDate
			p.logger.Info("no date available, skipping",
				logging.String("file", file.Path))
			return result
		}
		return p.failed(result, err)
	}
	file.Resolved = &resolved
	result.Provenance = resolved.Source

	destDir := filepath.Join(p.opts.TargetDir, resolved.Timestamp.Year(), resolved.Timestamp.Month())
	if !p.opts.Preview {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "create month dir", destDir, err))
		}
	}

	if err := p.sync.Sync(ctx, file, resolved); err != nil {
		return p.failed(result, err)
	}

	destPath := filepath.Join(destDir, translit.Normalize(file.Base()))
	decision, err := p.conflicts.Resolve(file.Path, destPath)
	if err != nil {
		return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "resolve conflict", file.Path, err))
	}
	result.Hash = decision.SourceHash

	switch decision.Outcome {
	case conflict.DirectMove, conflict.RenameMove:
		return p.executeMove(file, resolved, decision, result)
	case conflict.SkipDuplicate:
		result.Outcome = OutcomeSkippedDuplicate
		p.logger.Info("duplicate already organized, skipping",
			logging.String("file", file.Path),
			logging.String("existing", decision.Path))
		return result
	case conflict.DeleteDuplicate:
		return p.executeDelete(file, decision, result)
	default:
		return p.failed(result, services.Wrap(services.ErrValidation, "pipeline", "execute",
			fmt.Sprintf("unknown conflict outcome %v", decision.Outcome), nil))
	}
}

func (p *Pipeline) executeMove(file media.File, resolved timestamp.Resolved, decision conflict.Decision, result Result) Result {
	result.Final = decision.Path
	if decision.Outcome == conflict.RenameMove {
		result.Outcome = OutcomeRenamed
	} else {
		result.Outcome = OutcomeMoved
	}

	if p.opts.Preview {
		p.logger.Info("would move file",
			logging.String("from", file.Path),
			logging.String("to", decision.Path),
			logging.String("source", string(resolved.Source)))
		return result
	}

	if err := fileutil.MoveFile(file.Path, decision.Path); err != nil {
		return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "move", file.Path, err))
	}
	for _, sidecar := range file.Sidecars() {
		base := translit.Normalize(filepath.Base(sidecar))
		// A renamed primary takes its sidecars along under the same suffix;
		// the occupant's sidecars keep their plain names.
		if decision.Outcome == conflict.RenameMove {
			base = conflict.RenamedBase(base, decision.RenameSuffix)
		}
		sidecarDest := filepath.Join(filepath.Dir(decision.Path), base)
		if err := fileutil.MoveFile(sidecar, sidecarDest); err != nil {
			return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "move sidecar", sidecar, err))
		}
	}

	line := fmt.Sprintf("%s  %s -> %s", time.Now().Format("2006-01-02 15:04:05"), file.Path, decision.Path)
	if err := p.monthLogs.Append(filepath.Dir(decision.Path), line); err != nil {
		p.logger.Warn("month log write failed", logging.Error(err))
	}

	p.logger.Info("moved file",
		logging.String("from", file.Path),
		logging.String("to", decision.Path),
		logging.String("source", string(resolved.Source)))
	return result
}

func (p *Pipeline) executeDelete(file media.File, decision conflict.Decision, result Result) Result {
	result.Final = decision.Path
	result.Outcome = OutcomeDeletedDuplicate

	if p.opts.Preview {
		p.logger.Info("would delete duplicate",
			logging.String("file", file.Path),
			logging.String("existing", decision.Path))
		return result
	}

	if err := os.Remove(file.Path); err != nil {
		return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "delete duplicate", file.Path, err))
	}
	for _, sidecar := range file.Sidecars() {
		if err := os.Remove(sidecar); err != nil {
			return p.failed(result, services.Wrap(services.ErrTransient, "pipeline", "delete sidecar", sidecar, err))
		}
	}

	p.logger.Info("deleted duplicate",
		logging.String("file", file.Path),
		logging.String("existing", decision.Path))
	return result
}

func (p *Pipeline) failed(result Result, err error) Result {
	result.Outcome = OutcomeFailed
	result.Err = err
	p.logger.Error("file processing failed",
		logging.String("file", result.Source),
		logging.Error(err))
	return result
}

// Package timesync aligns a file's filesystem timestamps, and its embedded
// metadata date fields, with the resolved date. Sidecar files are kept in
// step with their primary.
package timesync

import (
	"context"
	"log/slog"
	"os"

	"mediasort/internal/logging"
	"mediasort/internal/media"
	"mediasort/internal/metadata"
	"mediasort/internal/services"
	"mediasort/internal/timestamp"
)

// Synchronizer applies resolved dates to files. In preview mode it only
// logs the work it would do.
type Synchronizer struct {
	writer  metadata.TagWriter
	preview bool
	logger  *slog.Logger
}

// New constructs a synchronizer. writer may be nil when no metadata-capable
// tool is available; filesystem times are still synchronized.
func New(writer metadata.TagWriter, preview bool, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		writer:  writer,
		preview: preview,
		logger:  logging.NewComponentLogger(logger, "timesync"),
	}
}

// Sync brings file's timestamps in line with resolved. Embedded metadata
// write failures are logged and non-fatal; a filesystem time update failure
// is returned as a per-file error.
func (s *Synchronizer) Sync(ctx context.Context, file media.File, resolved timestamp.Resolved) error {
	info, err := os.Stat(file.Path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "timesync", "stat", file.Path, err)
	}
	if resolved.Timestamp.EqualTime(info.ModTime()) {
		return nil
	}

	if s.preview {
		s.logger.Info("would synchronize timestamps",
			logging.String("file", file.Path),
			logging.String("date", resolved.Timestamp.String()))
		for _, sidecar := range file.Sidecars() {
			s.logger.Info("would synchronize sidecar timestamps",
				logging.String("file", sidecar),
				logging.String("date", resolved.Timestamp.String()))
		}
		return nil
	}

	if s.writer != nil {
		if err := s.writer.CopyTagToFileTimes(ctx, file.Path, file.PrimaryTag()); err != nil {
			s.logger.Warn("embedded metadata update failed",
				logging.String("file", file.Path),
				logging.String("tag", file.PrimaryTag()),
				logging.Error(err))
		}
	}

	when := resolved.Timestamp.Time()
	if err := os.Chtimes(file.Path, when, when); err != nil {
		return services.Wrap(services.ErrTransient, "timesync", "set file times", file.Path, err)
	}
	for _, sidecar := range file.Sidecars() {
		if err := os.Chtimes(sidecar, when, when); err != nil {
			return services.Wrap(services.ErrTransient, "timesync", "set sidecar times", sidecar, err)
		}
	}
	return nil
}

// Package dateresolve implements the ordered strategy chain that derives a
// canonical date for a media file: primary metadata tag, thumbnail override,
// JSON sidecar, filename pattern, and finally the file's modification time
// when the caller allows it.
package dateresolve

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

// Resolver produces a best-available timestamp for a media file. Resolution
// is deterministic: the same inputs always yield the same date and
// provenance.
type Resolver struct {
	reader metadata.Reader
	logger *slog.Logger
}

// New constructs a resolver over the given metadata reader.
func New(reader metadata.Reader, logger *slog.Logger) *Resolver {
	return &Resolver{
		reader: reader,
		logger: logging.NewComponentLogger(logger, "dateresolve"),
	}
}

// Resolve evaluates the strategy chain in strict priority order. It returns
// services.ErrNoDate when no strategy yields a valid date and the mtime
// fallback is disabled; callers treat that as a skip, not a failure.
func (r *Resolver) Resolve(ctx context.Context, file media.File, fallbackToMtime bool) (timestamp.Resolved, error) {
	resolved := r.fromMetadata(ctx, file)

	// A valid thumbnail date overrides the primary tag: camera-generated THM
	// metadata is more reliable than the container dates on the videos it
	// accompanies.
	if file.Thumbnail != "" {
		if ts, ok := r.readTag(ctx, file.Thumbnail, media.TagDateTimeOriginal); ok {
			r.logger.Debug("using thumbnail metadata",
				logging.String("thumbnail", file.Thumbnail),
				logging.String("date", ts.String()))
			return timestamp.Resolved{Timestamp: ts, Source: timestamp.SourceThumbnail}, nil
		}
	}
	if resolved != nil {
		return *resolved, nil
	}

	if file.Sidecar != "" {
		if ts, ok := metadata.ReadSidecarTime(file.Sidecar); ok {
			return timestamp.Resolved{Timestamp: ts, Source: timestamp.SourceJSON}, nil
		}
	}

	if ts, ok := timestamp.FromFilename(file.Base()); ok {
		return timestamp.Resolved{Timestamp: ts, Source: timestamp.SourceFilename}, nil
	}

	if fallbackToMtime {
		if info, err := os.Stat(file.Path); err == nil {
			ts := timestamp.FromTime(info.ModTime())
			r.logger.Debug("falling back to modification time",
				logging.String("file", file.Path),
				logging.String("date", ts.String()))
			return timestamp.Resolved{Timestamp: ts, Source: timestamp.SourceMtime}, nil
		}
	}

	return timestamp.Resolved{}, services.Wrap(services.ErrNoDate, "dateresolve", "resolve", file.Path, nil)
}

func (r *Resolver) fromMetadata(ctx context.Context, file media.File) *timestamp.Resolved {
	ts, ok := r.readTag(ctx, file.Path, file.PrimaryTag())
	if !ok {
		return nil
	}
	return &timestamp.Resolved{Timestamp: ts, Source: timestamp.SourceEXIF}
}

func (r *Resolver) readTag(ctx context.Context, path, tag string) (timestamp.Timestamp, bool) {
	value, err := r.reader.ReadTag(ctx, path, tag)
	if err != nil {
		// Provider failures degrade to "no value"; the chain continues.
		r.logger.Debug("metadata read failed",
			logging.String("file", path),
			logging.String("tag", tag),
			logging.Error(err))
		return timestamp.Timestamp{}, false
	}
	return timestamp.ParseMetadata(value)
}

// Package conflict decides what happens when a relocation target already
// exists. The resolver only decides; executing the decision (moving,
// deleting, renaming) is the pipeline's job.
package conflict

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediasort/internal/fileutil"
	"mediasort/internal/timestamp"
)

// Outcome is the decision for a single destination collision check.
type Outcome int

const (
	// DirectMove: nothing occupies the destination.
	DirectMove Outcome = iota
	// SkipDuplicate: byte-identical file already at the destination; leave
	// the source in place.
	SkipDuplicate
	// DeleteDuplicate: byte-identical file already at the destination;
	// remove the source.
	DeleteDuplicate
	// RenameMove: destination occupied by different content; move under a
	// timestamped name.
	RenameMove
)

func (o Outcome) String() string {
	switch o {
	case DirectMove:
		return "direct-move"
	case SkipDuplicate:
		return "skip-duplicate"
	case DeleteDuplicate:
		return "delete-duplicate"
	case RenameMove:
		return "rename-move"
	default:
		return "unknown"
	}
}

// Decision pairs an outcome with the destination path the pipeline should
// act on. For RenameMove the path carries the "_copy_" suffix and
// RenameSuffix holds the timestamp, so callers can apply the same rename to
// sidecar files. SourceHash is populated whenever the collision check hashed
// the source.
type Decision struct {
	Outcome      Outcome
	Path         string
	SourceHash   string
	RenameSuffix string
}

// Option configures the resolver.
type Option func(*Resolver)

// WithClock overrides the timestamp source for rename suffixes (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// Resolver compares a source file against whatever occupies its desired
// destination. It never mutates the filesystem.
type Resolver struct {
	removeDuplicates bool
	now              func() time.Time
}

// NewResolver constructs a resolver. When removeDuplicates is set,
// byte-identical collisions resolve to DeleteDuplicate instead of
// SkipDuplicate.
func NewResolver(removeDuplicates bool, opts ...Option) *Resolver {
	r := &Resolver{removeDuplicates: removeDuplicates, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve decides the outcome for moving sourcePath to destPath.
func (r *Resolver) Resolve(sourcePath, destPath string) (Decision, error) {
	if _, err := os.Stat(destPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Decision{Outcome: DirectMove, Path: destPath}, nil
		}
		return Decision{}, fmt.Errorf("stat destination: %w", err)
	}

	sourceHash, err := fileutil.HashFile(sourcePath)
	if err != nil {
		return Decision{}, fmt.Errorf("hash source: %w", err)
	}
	destHash, err := fileutil.HashFile(destPath)
	if err != nil {
		return Decision{}, fmt.Errorf("hash destination: %w", err)
	}

	if sourceHash == destHash {
		if r.removeDuplicates {
			return Decision{Outcome: DeleteDuplicate, Path: destPath, SourceHash: sourceHash}, nil
		}
		return Decision{Outcome: SkipDuplicate, Path: destPath, SourceHash: sourceHash}, nil
	}

	// Fresh timestamp at resolution time. The renamed target is not
	// re-checked; two renames within the same second colliding on identical
	// names is accepted as a known limitation.
	suffix := timestamp.FromTime(r.now()).Compact()
	return Decision{
		Outcome:      RenameMove,
		Path:         renamedPath(destPath, suffix),
		SourceHash:   sourceHash,
		RenameSuffix: suffix,
	}, nil
}

// RenamedBase applies the "_copy_<suffix>" rename convention to a file name.
func RenamedBase(base, suffix string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_copy_%s%s", stem, suffix, ext)
}

func renamedPath(destPath, suffix string) string {
	return filepath.Join(filepath.Dir(destPath), RenamedBase(filepath.Base(destPath), suffix))
}

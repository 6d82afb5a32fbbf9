package pipeline

import (
	"time"

	"mediasort/internal/timestamp"
)

// Outcome classifies how the pipeline disposed of one source file.
type Outcome string

const (
	// OutcomeMoved: relocated to an unoccupied destination.
	OutcomeMoved Outcome = "direct-move"
	// OutcomeRenamed: destination was occupied by different content; moved
	// under a timestamped name.
	OutcomeRenamed Outcome = "rename-move"
	// OutcomeSkippedDuplicate: byte-identical file already at the
	// destination; source left in place.
	OutcomeSkippedDuplicate Outcome = "skip-duplicate"
	// OutcomeDeletedDuplicate: byte-identical file already at the
	// destination; source removed.
	OutcomeDeletedDuplicate Outcome = "delete-duplicate"
	// OutcomeSkippedNoDate: no strategy produced a date.
	OutcomeSkippedNoDate Outcome = "skip-no-date"
	// OutcomeSkippedUnsupported: extension outside the supported set.
	OutcomeSkippedUnsupported Outcome = "skip-unsupported"
	// OutcomeFailed: a per-file operation errored; the file was left where
	// the failure found it.
	OutcomeFailed Outcome = "error"
)

// Result records the disposition of one source file. Every discovered file
// produces exactly one Result, failures included.
type Result struct {
	Source     string
	Final      string
	Outcome    Outcome
	Provenance timestamp.Provenance
	Hash       string
	Err        error
}

// Summary aggregates the results of one run.
type Summary struct {
	Results  []Result
	Duration time.Duration
}

// Count returns how many results ended with the given outcome.
func (s Summary) Count(outcome Outcome) int {
	n := 0
	for _, res := range s.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the results that ended in error.
func (s Summary) Failures() []Result {
	var out []Result
	for _, res := range s.Results {
		if res.Outcome == OutcomeFailed {
			out = append(out, res)
		}
	}
	return out
}

// Total is the number of files the run considered.
func (s Summary) Total() int {
	return len(s.Results)
}

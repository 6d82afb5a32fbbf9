// Package timestamp provides the second-precision time abstraction used for
// date resolution and filesystem synchronization. Metadata providers report
// dates as strings in a couple of separator conventions, including an
// all-zero sentinel meaning "no value"; this package owns the parsing and
// sentinel detection so callers never compare raw strings.
package timestamp

import (
	"regexp"
	"time"
)

// Provenance records which strategy produced a resolved date. Diagnostics
// only; it never influences processing.
type Provenance string

const (
	SourceEXIF      Provenance = "exif"
	SourceJSON      Provenance = "json"
	SourceThumbnail Provenance = "thumbnail"
	SourceFilename  Provenance = "filename-pattern"
	SourceMtime     Provenance = "mtime-fallback"
)

const (
	displayLayout = "2006-01-02 15:04:05"
	exifLayout    = "2006:01:02 15:04:05"
	compactLayout = "20060102_150405"
)

var (
	sentinelPattern = regexp.MustCompile(`^0000[-:]00[-:]00 00:00:00`)
	filenamePattern = regexp.MustCompile(`(\d{8})_(\d{6})`)
)

// Timestamp is a local-time instant truncated to whole seconds.
type Timestamp struct {
	t time.Time
}

// FromTime builds a Timestamp, discarding sub-second precision.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t: t.Truncate(time.Second)}
}

// ParseMetadata parses a provider-reported date string. It accepts both the
// dash and colon separator conventions and rejects empty values and the
// all-zero sentinel.
func ParseMetadata(value string) (Timestamp, bool) {
	if value == "" || sentinelPattern.MatchString(value) {
		return Timestamp{}, false
	}
	for _, layout := range []string{displayLayout, exifLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return FromTime(t), true
		}
	}
	return Timestamp{}, false
}

// FromFilename extracts a YYYYMMDD_HHMMSS-shaped substring from a file name.
// The digits must form a real calendar date to count.
func FromFilename(name string) (Timestamp, bool) {
	for _, match := range filenamePattern.FindAllStringSubmatch(name, -1) {
		candidate := match[1] + "_" + match[2]
		if t, err := time.ParseInLocation(compactLayout, candidate, time.Local); err == nil {
			return FromTime(t), true
		}
	}
	return Timestamp{}, false
}

// IsZero reports whether the timestamp carries no value.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Time returns the underlying instant.
func (ts Timestamp) Time() time.Time { return ts.t }

// Equal compares two timestamps at second precision.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

// EqualTime compares against an arbitrary time at second precision.
func (ts Timestamp) EqualTime(t time.Time) bool { return ts.t.Equal(t.Truncate(time.Second)) }

// Year returns the four-digit year component.
func (ts Timestamp) Year() string { return ts.t.Format("2006") }

// Month returns the zero-padded month component.
func (ts Timestamp) Month() string { return ts.t.Format("01") }

// String renders the dash-separated display form.
func (ts Timestamp) String() string { return ts.t.Format(displayLayout) }

// Compact renders the YYYYMMDD_HHMMSS form used in conflict rename suffixes.
func (ts Timestamp) Compact() string { return ts.t.Format(compactLayout) }

// Resolved couples a timestamp with its provenance. Once produced for a file
// it is never mutated.
type Resolved struct {
	Timestamp Timestamp
	Source    Provenance
}

package timestamp

import (
	"testing"
	"time"
)

func TestParseMetadata(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"dash separators", "2023-05-14 10:00:00", "2023-05-14 10:00:00", true},
		{"colon separators", "2023:05:14 10:00:00", "2023-05-14 10:00:00", true},
		{"empty", "", "", false},
		{"sentinel dashes", "0000-00-00 00:00:00", "", false},
		{"sentinel colons", "0000:00:00 00:00:00", "", false},
		{"garbage", "not a date", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts, ok := ParseMetadata(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseMetadata(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && ts.String() != tc.want {
				t.Fatalf("ParseMetadata(%q) = %q, want %q", tc.input, ts.String(), tc.want)
			}
		})
	}
}

func TestFromFilename(t *testing.T) {
	ts, ok := FromFilename("VID_20240118_093015.mp4")
	if !ok {
		t.Fatal("expected a match")
	}
	if got := ts.String(); got != "2024-01-18 09:30:15" {
		t.Fatalf("got %q", got)
	}

	if _, ok := FromFilename("IMG_0001.jpg"); ok {
		t.Fatal("expected no match without a date-shaped substring")
	}
	// Digits that do not form a calendar date must not count.
	if _, ok := FromFilename("ref_99999999_887766.jpg"); ok {
		t.Fatal("expected invalid calendar digits to be rejected")
	}
}

func TestFromFilenameSkipsInvalidThenMatches(t *testing.T) {
	ts, ok := FromFilename("x_00000000_000000_20220301_120000.jpg")
	if !ok || ts.Year() != "2022" {
		t.Fatalf("expected later valid match, got ok=%v ts=%v", ok, ts)
	}
}

func TestTruncationAndEquality(t *testing.T) {
	base := time.Date(2023, 5, 14, 10, 0, 0, 999_000_000, time.Local)
	ts := FromTime(base)
	if !ts.EqualTime(time.Date(2023, 5, 14, 10, 0, 0, 0, time.Local)) {
		t.Fatal("expected sub-second precision to be discarded")
	}
	if ts.Year() != "2023" || ts.Month() != "05" {
		t.Fatalf("unexpected components %s/%s", ts.Year(), ts.Month())
	}
	if ts.Compact() != "20230514_100000" {
		t.Fatalf("unexpected compact form %q", ts.Compact())
	}
}

func TestZeroValue(t *testing.T) {
	var ts Timestamp
	if !ts.IsZero() {
		t.Fatal("zero value must report IsZero")
	}
}

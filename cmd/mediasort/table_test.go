package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsHeaderCasing(t *testing.T) {
	out := renderTable([]string{"Date source", "Count"}, [][]string{{"exif", "3"}}, 2)
	if !strings.Contains(out, "Date source") {
		t.Fatalf("header casing lost:\n%s", out)
	}
	if strings.Contains(out, "DATE SOURCE") {
		t.Fatalf("header was upper-cased:\n%s", out)
	}
}

func TestRenderTableRightAlignsCountColumns(t *testing.T) {
	out := renderTable([]string{"Outcome", "Count"}, [][]string{
		{"moved", "3"},
		{"duplicates skipped", "12"},
	}, 2)

	var ends []int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "moved") || strings.Contains(line, "skipped") {
			ends = append(ends, strings.LastIndexAny(line, "0123456789"))
		}
	}
	if len(ends) != 2 {
		t.Fatalf("expected two data rows:\n%s", out)
	}
	if ends[0] != ends[1] {
		t.Fatalf("counts not right-aligned:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"File", "Reason"}, [][]string{{"a.jpg"}})
	if !strings.Contains(out, "a.jpg") {
		t.Fatalf("row missing:\n%s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Fatalf("missing cell rendered as nil:\n%s", out)
	}
}

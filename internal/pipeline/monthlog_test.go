package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMonthLogRotatesOncePerRun(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, MonthLogName)
	write(t, logPath, "previous run\n")

	logs := NewMonthLogs()
	if err := logs.Append(dir, "first"); err != nil {
		t.Fatal(err)
	}
	if err := logs.Append(dir, "second"); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(logPath + ".1")
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != "previous run\n" {
		t.Fatalf("backup = %q", backup)
	}

	current, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(current)), "\n")
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("current log = %q", current)
	}
}

func TestRotateLogFindsNextFreeSlot(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, MonthLogName)
	write(t, logPath, "newest\n")
	write(t, logPath+".1", "oldest\n")

	if err := RotateLog(logPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Fatal("log must be moved aside")
	}
	rotated, err := os.ReadFile(logPath + ".2")
	if err != nil {
		t.Fatal(err)
	}
	if string(rotated) != "newest\n" {
		t.Fatalf("rotated = %q", rotated)
	}
}

func TestRotateLogMissingFile(t *testing.T) {
	if err := RotateLog(filepath.Join(t.TempDir(), MonthLogName)); err != nil {
		t.Fatal(err)
	}
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MonthLogName is the per-month move log kept inside each YYYY/MM directory.
const MonthLogName = "mediasort.log"

// MonthLogs appends move records to the mediasort.log inside each month
// directory. The first touch of a directory within a run rotates any
// pre-existing log to a numbered backup so earlier runs are never
// overwritten. Safe for concurrent use by pipeline workers.
type MonthLogs struct {
	mu       sync.Mutex
	prepared map[string]struct{}
}

// NewMonthLogs constructs an empty log set for one run.
func NewMonthLogs() *MonthLogs {
	return &MonthLogs{prepared: make(map[string]struct{})}
}

// Append writes one line to dir's month log, rotating the existing log on
// the run's first touch of dir.
func (m *MonthLogs) Append(dir, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logPath := filepath.Join(dir, MonthLogName)
	if _, seen := m.prepared[dir]; !seen {
		if err := RotateLog(logPath); err != nil {
			return err
		}
		m.prepared[dir] = struct{}{}
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open month log: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("write month log: %w", err)
	}
	return nil
}

// RotateLog moves an existing log file aside to the first free numbered
// backup (log.1, log.2, ...). Missing files are fine.
func RotateLog(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log: %w", err)
	}
	for n := 1; ; n++ {
		backup := fmt.Sprintf("%s.%d", path, n)
		if _, err := os.Stat(backup); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat log backup: %w", err)
		}
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("rotate log: %w", err)
		}
		return nil
	}
}

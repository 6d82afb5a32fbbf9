package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mediasort/internal/journal"
	"mediasort/internal/media"
)

type captureRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (c *captureRecorder) Record(_ context.Context, entry journal.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

func TestPoolProcessesEveryFile(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	dates := make(map[string]string)
	var files []media.File
	for i := 0; i < 12; i++ {
		src := filepath.Join(source, fmt.Sprintf("IMG_%04d.jpg", i))
		write(t, src, fmt.Sprintf("photo %d", i))
		dates[src+"|DateTimeOriginal"] = fmt.Sprintf("2023-%02d-01 10:00:00", i%4+1)
		files = append(files, media.NewFile(src))
	}

	pipe := newTestPipeline(stubReader{dates: dates}, Options{TargetDir: target}, false)
	recorder := &captureRecorder{}
	pool := NewPool(4, pipe, recorder, "run-1", nil)

	summary := pool.Run(context.Background(), files)
	if summary.Total() != 12 {
		t.Fatalf("total = %d", summary.Total())
	}
	if got := summary.Count(OutcomeMoved); got != 12 {
		t.Fatalf("moved = %d", got)
	}
	if len(summary.Failures()) != 0 {
		t.Fatalf("failures = %v", summary.Failures())
	}
	if len(recorder.entries) != 12 {
		t.Fatalf("journal entries = %d", len(recorder.entries))
	}
	for _, entry := range recorder.entries {
		if entry.RunID != "run-1" || entry.Outcome != string(OutcomeMoved) {
			t.Fatalf("entry = %+v", entry)
		}
	}

	for month := 1; month <= 4; month++ {
		dir := filepath.Join(target, "2023", fmt.Sprintf("%02d", month))
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		// 3 photos per month plus the month log.
		if len(entries) != 4 {
			t.Fatalf("%s has %d entries", dir, len(entries))
		}
	}
}

func TestPoolWithoutRecorderAndDefaults(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	src := filepath.Join(source, "IMG_0001.jpg")
	write(t, src, "photo bytes")

	dates := map[string]string{src + "|DateTimeOriginal": "2023-05-14 10:11:12"}
	pipe := newTestPipeline(stubReader{dates: dates}, Options{TargetDir: target}, false)

	pool := NewPool(0, pipe, nil, "", nil)
	if pool.workers != DefaultWorkers() {
		t.Fatalf("workers = %d", pool.workers)
	}

	summary := pool.Run(context.Background(), []media.File{media.NewFile(src)})
	if summary.Count(OutcomeMoved) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

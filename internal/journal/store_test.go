package journal

import (
	"context"
	"testing"
)

func TestBeginRecordFinish(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	runID, err := store.BeginRun(ctx, "/src", "/dst", false)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("expected run id")
	}

	entries := []Entry{
		{RunID: runID, SourcePath: "/src/a.jpg", FinalPath: "/dst/2023/05/a.jpg", Outcome: "direct-move", Provenance: "exif", Hash: "abc"},
		{RunID: runID, SourcePath: "/src/b.jpg", Outcome: "skip-duplicate"},
		{RunID: runID, SourcePath: "/src/c.jpg", Outcome: "error", Error: "move failed"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.FinishRun(ctx, runID); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d", len(runs))
	}
	if runs[0].ID != runID || runs[0].FinishedAt.IsZero() {
		t.Fatalf("run = %+v", runs[0])
	}

	results, err := store.RunResults(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	if results[0].Outcome != "direct-move" || results[0].FinalPath != "/dst/2023/05/a.jpg" {
		t.Fatalf("first result = %+v", results[0])
	}
	if results[2].Error != "move failed" {
		t.Fatalf("third result = %+v", results[2])
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty journal, got %d runs", len(runs))
	}
}

func TestLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireLock(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Release()

	if _, err := AcquireLock(dir); err == nil {
		t.Fatal("second lock acquisition must fail")
	}

	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	relock, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("lock must be reacquirable after release: %v", err)
	}
	_ = relock.Release()
}

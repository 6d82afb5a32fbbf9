package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeTool struct {
	available bool
}

func (f fakeTool) Available() bool { return f.available }
func (f fakeTool) Binary() string  { return "exiftool" }

func TestCheckSourceDir(t *testing.T) {
	dir := t.TempDir()
	if res := CheckSourceDir(dir); !res.Passed {
		t.Fatalf("existing dir must pass: %+v", res)
	}
	if res := CheckSourceDir(filepath.Join(dir, "missing")); res.Passed {
		t.Fatal("missing dir must fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := CheckSourceDir(file); res.Passed {
		t.Fatal("plain file must fail")
	}
}

func TestCheckTargetDirCreatesMissing(t *testing.T) {
	target := filepath.Join(t.TempDir(), "new", "library")
	res := CheckTargetDir(target)
	if !res.Passed {
		t.Fatalf("check = %+v", res)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("target must be created: %v", err)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if res := CheckFreeSpace(dir, 1); !res.Passed {
		t.Fatalf("one byte must be available: %+v", res)
	}
	if res := CheckFreeSpace(dir, 1<<62); res.Passed {
		t.Fatal("absurd requirement must fail")
	}
}

func TestCheckMetadataTool(t *testing.T) {
	if res := CheckMetadataTool(fakeTool{available: true}, true); !res.Passed {
		t.Fatalf("available tool must pass: %+v", res)
	}
	if res := CheckMetadataTool(fakeTool{}, true); res.Passed {
		t.Fatal("required missing tool must fail")
	}
	res := CheckMetadataTool(fakeTool{}, false)
	if !res.Passed || !strings.Contains(res.Detail, "native") {
		t.Fatalf("optional missing tool must pass with fallback note: %+v", res)
	}
}

func TestRunAll(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	results := RunAll(Input{
		SourceDir:    source,
		TargetDir:    target,
		MinFreeBytes: 1,
		Tool:         fakeTool{available: true},
		ToolRequired: true,
	})
	if len(results) != 4 {
		t.Fatalf("results = %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("results = %+v", results)
	}

	results = RunAll(Input{SourceDir: filepath.Join(source, "missing"), TargetDir: target})
	if AllPassed(results) {
		t.Fatal("missing source must fail the set")
	}
}

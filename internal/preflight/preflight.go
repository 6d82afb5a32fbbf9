// Package preflight validates the environment before a run mutates
// anything: directory access, free space on the target filesystem, and the
// availability of the external metadata tool.
package preflight

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// MetadataTool is the slice of the metadata client preflight needs.
type MetadataTool interface {
	Available() bool
	Binary() string
}

// Input collects everything RunAll inspects.
type Input struct {
	SourceDir    string
	TargetDir    string
	MinFreeBytes uint64
	Tool         MetadataTool
	ToolRequired bool
}

// RunAll executes every applicable check. A missing metadata tool is only a
// failure when the caller requires it; otherwise the run degrades to native
// metadata reads.
func RunAll(in Input) []Result {
	results := []Result{
		CheckSourceDir(in.SourceDir),
		CheckTargetDir(in.TargetDir),
	}
	if in.MinFreeBytes > 0 {
		results = append(results, CheckFreeSpace(in.TargetDir, in.MinFreeBytes))
	}
	if in.Tool != nil {
		results = append(results, CheckMetadataTool(in.Tool, in.ToolRequired))
	}
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, res := range results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// CheckSourceDir verifies the source exists, is a directory, and is
// readable and traversable.
func CheckSourceDir(path string) Result {
	const name = "Source directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckTargetDir verifies the target is a writable directory, creating it
// when absent.
func CheckTargetDir(path string) Result {
	const name = "Target directory"
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
		}
		if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", path, mkErr)}
		}
	} else if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available.
func CheckFreeSpace(path string, minBytes uint64) Result {
	const name = "Free space"
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s available, %s required",
			humanize.IBytes(available), humanize.IBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s available", humanize.IBytes(available))}
}

// CheckMetadataTool reports whether the external metadata tool resolves on
// PATH.
func CheckMetadataTool(tool MetadataTool, required bool) Result {
	const name = "Metadata tool"
	if tool.Available() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s found", tool.Binary())}
	}
	if required {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found on PATH", tool.Binary())}
	}
	return Result{Name: name, Passed: true,
		Detail: fmt.Sprintf("%s not found, falling back to native metadata reads", tool.Binary())}
}

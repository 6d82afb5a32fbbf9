// Package scan discovers the media files a run will process. The walk is
// performed up front so the worker pool operates on an immutable work list.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"mediasort/internal/media"
)

// Result is the outcome of walking a source tree.
type Result struct {
	Files       []media.File
	Unsupported int
}

// Discover walks root and collects supported media files, probing sidecars
// for each. Sidecar files themselves and organizer bookkeeping files are
// never work items; everything else with an unrecognized extension is
// counted as unsupported.
func Discover(root string) (Result, error) {
	var result Result
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if isBookkeeping(name) || media.IsSidecarPath(path) {
			return nil
		}
		if !media.Supported(path) {
			result.Unsupported++
			return nil
		}
		result.Files = append(result.Files, media.NewFile(path))
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func isBookkeeping(name string) bool {
	if name == ".mediasort.lock" || name == "journal.db" {
		return true
	}
	return name == "mediasort.log" || strings.HasPrefix(name, "mediasort.log.")
}

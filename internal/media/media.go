// Package media models the files the organizer relocates: classification by
// extension plus discovery of sidecar files that travel with their primary.
package media

import (
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/timestamp"
)

// Kind is the inferred media category of a file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// Tag names read and written through the metadata provider.
const (
	TagDateTimeOriginal = "DateTimeOriginal"
	TagCreateDate       = "CreateDate"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
	".heif": {},
	".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".mpg":  {},
	".avi":  {},
	".mts":  {},
	".m2ts": {},
	".3gp":  {},
	".3g2":  {},
	".wmv":  {},
}

// KindOf classifies a path by its extension.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	return KindUnsupported
}

// Supported reports whether the organizer processes files with this path's
// extension.
func Supported(path string) bool {
	return KindOf(path) != KindUnsupported
}

// File is one discoverable unit of relocation work. Created during
// discovery; the resolver sets Resolved exactly once.
type File struct {
	Path      string
	Kind      Kind
	Thumbnail string // THM sidecar path, empty when absent
	Sidecar   string // JSON metadata sidecar path, empty when absent
	Resolved  *timestamp.Resolved
}

// NewFile classifies path and probes for sidecar files by naming convention:
// a .THM thumbnail sharing the base name and a Takeout-style "<name>.json".
func NewFile(path string) File {
	f := File{Path: path, Kind: KindOf(path)}
	f.Thumbnail = findThumbnail(path)

	jsonPath := path + ".json"
	if fileExists(jsonPath) {
		f.Sidecar = jsonPath
	}
	return f
}

// Base returns the file's basename.
func (f File) Base() string {
	return filepath.Base(f.Path)
}

// PrimaryTag names the metadata tag consulted first for this file's kind.
func (f File) PrimaryTag() string {
	if f.Kind == KindImage {
		return TagDateTimeOriginal
	}
	return TagCreateDate
}

// Sidecars lists the sidecar paths discovered for this file.
func (f File) Sidecars() []string {
	var out []string
	if f.Thumbnail != "" {
		out = append(out, f.Thumbnail)
	}
	if f.Sidecar != "" {
		out = append(out, f.Sidecar)
	}
	return out
}

// IsSidecarPath reports whether path looks like a sidecar of some other
// media file. Discovery uses this to keep sidecars out of the work list;
// they move with their primary.
func IsSidecarPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".thm" {
		return true
	}
	if ext == ".json" {
		inner := strings.TrimSuffix(path, filepath.Ext(path))
		return Supported(inner)
	}
	return false
}

func findThumbnail(path string) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".THM", ".thm"} {
		candidate := stem + ext
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package dateresolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediasort/internal/logging"
	"mediasort/internal/media"
	"mediasort/internal/services"
	"mediasort/internal/timestamp"
)

// tagReader maps "path tag" keys to canned values.
type tagReader struct {
	values map[string]string
	err    error
}

func (r tagReader) ReadTag(_ context.Context, path, tag string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.values[path+" "+tag], nil
}

func newResolver(reader tagReader) *Resolver {
	return New(reader, logging.NewNop())
}

func TestResolvePrimaryTag(t *testing.T) {
	file := media.File{Path: "/src/IMG_0001.jpg", Kind: media.KindImage}
	r := newResolver(tagReader{values: map[string]string{
		"/src/IMG_0001.jpg DateTimeOriginal": "2023-05-14 10:00:00",
	}})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceEXIF {
		t.Fatalf("source = %s", resolved.Source)
	}
	if resolved.Timestamp.String() != "2023-05-14 10:00:00" {
		t.Fatalf("date = %s", resolved.Timestamp)
	}
}

func TestResolveVideoUsesCreateDate(t *testing.T) {
	file := media.File{Path: "/src/clip.mp4", Kind: media.KindVideo}
	r := newResolver(tagReader{values: map[string]string{
		"/src/clip.mp4 CreateDate": "2022:08-01 12:00:00",
	}})

	if _, err := r.Resolve(context.Background(), file, false); !errors.Is(err, services.ErrNoDate) {
		t.Fatalf("malformed date must not resolve, got %v", err)
	}

	r = newResolver(tagReader{values: map[string]string{
		"/src/clip.mp4 CreateDate": "2022:08:01 12:00:00",
	}})
	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceEXIF || resolved.Timestamp.Year() != "2022" {
		t.Fatalf("resolved = %+v", resolved)
	}
}

func TestThumbnailOverridesPrimary(t *testing.T) {
	file := media.File{
		Path:      "/src/MVI_0042.mp4",
		Kind:      media.KindVideo,
		Thumbnail: "/src/MVI_0042.THM",
	}
	r := newResolver(tagReader{values: map[string]string{
		"/src/MVI_0042.mp4 CreateDate":           "2021-01-01 00:00:00",
		"/src/MVI_0042.THM DateTimeOriginal":     "2021-06-15 18:30:00",
	}})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceThumbnail {
		t.Fatalf("source = %s", resolved.Source)
	}
	if resolved.Timestamp.String() != "2021-06-15 18:30:00" {
		t.Fatalf("date = %s", resolved.Timestamp)
	}
}

func TestSentinelThumbnailFallsBackToPrimary(t *testing.T) {
	file := media.File{
		Path:      "/src/MVI_0042.mp4",
		Kind:      media.KindVideo,
		Thumbnail: "/src/MVI_0042.THM",
	}
	r := newResolver(tagReader{values: map[string]string{
		"/src/MVI_0042.mp4 CreateDate":       "2021-01-01 00:00:00",
		"/src/MVI_0042.THM DateTimeOriginal": "0000:00:00 00:00:00",
	}})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceEXIF {
		t.Fatalf("source = %s", resolved.Source)
	}
}

func TestJSONSidecarAfterMetadata(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "IMG_0002.jpg.json")
	if err := os.WriteFile(sidecar, []byte(`{"photoTakenTime":{"timestamp":"1684058400"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	file := media.File{Path: filepath.Join(dir, "IMG_0002.jpg"), Kind: media.KindImage, Sidecar: sidecar}
	r := newResolver(tagReader{})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceJSON {
		t.Fatalf("source = %s", resolved.Source)
	}
}

func TestFilenamePattern(t *testing.T) {
	file := media.File{Path: "/src/VID_20240118_093015.mp4", Kind: media.KindVideo}
	r := newResolver(tagReader{})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceFilename {
		t.Fatalf("source = %s", resolved.Source)
	}
	if resolved.Timestamp.String() != "2024-01-18 09:30:15" {
		t.Fatalf("date = %s", resolved.Timestamp)
	}
}

func TestMtimeFallbackGated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodate.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, 3, 7, 9, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	file := media.File{Path: path, Kind: media.KindImage}
	r := newResolver(tagReader{})

	if _, err := r.Resolve(context.Background(), file, false); !errors.Is(err, services.ErrNoDate) {
		t.Fatalf("expected ErrNoDate with fallback disabled, got %v", err)
	}

	resolved, err := r.Resolve(context.Background(), file, true)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceMtime {
		t.Fatalf("source = %s", resolved.Source)
	}
	if !resolved.Timestamp.EqualTime(mtime) {
		t.Fatalf("date = %s", resolved.Timestamp)
	}
}

func TestReaderFailureDegradesToChain(t *testing.T) {
	file := media.File{Path: "/src/VID_20240118_093015.mp4", Kind: media.KindVideo}
	r := newResolver(tagReader{err: errors.New("exiftool exploded")})

	resolved, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Source != timestamp.SourceFilename {
		t.Fatalf("source = %s", resolved.Source)
	}
}

func TestResolveDeterministic(t *testing.T) {
	file := media.File{Path: "/src/IMG_0001.jpg", Kind: media.KindImage}
	r := newResolver(tagReader{values: map[string]string{
		"/src/IMG_0001.jpg DateTimeOriginal": "2023-05-14 10:00:00",
	}})

	first, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background(), file, false)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("resolution not deterministic: %+v vs %+v", first, second)
	}
}

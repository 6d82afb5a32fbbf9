package metadata

import (
	"context"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"mediasort/internal/media"
)

// NativeReader decodes EXIF blocks in-process. It covers JPEG-family images
// (including THM thumbnails, which are plain JPEGs) and is used when
// exiftool is absent or deliberately bypassed.
type NativeReader struct{}

// ReadTag implements Reader for the DateTimeOriginal tag. Other tags and
// undecodable files yield an empty value; native decoding failures are never
// errors because the resolution chain treats absence and failure the same.
func (NativeReader) ReadTag(_ context.Context, path, tag string) (string, error) {
	if tag != media.TagDateTimeOriginal {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoded, err := exif.Decode(f)
	if err != nil {
		return "", nil
	}
	field, err := decoded.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", nil
	}
	value, err := field.StringVal()
	if err != nil {
		return "", nil
	}
	return value, nil
}

// ChainReader consults readers in order and returns the first non-empty
// value. A reader error stops the chain only when every later reader also
// comes up empty.
type ChainReader []Reader

func (c ChainReader) ReadTag(ctx context.Context, path, tag string) (string, error) {
	var firstErr error
	for _, reader := range c {
		value, err := reader.ReadTag(ctx, path, tag)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if value != "" {
			return value, nil
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", nil
}

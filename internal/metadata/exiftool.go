// Package metadata reads and writes embedded media dates. The primary
// provider wraps the exiftool CLI; a native EXIF decoder covers JPEG-family
// files when exiftool is unavailable, and Takeout JSON sidecars are parsed
// directly.
package metadata

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

const displayDateFormat = "%Y-%m-%d %H:%M:%S"

// Reader resolves a single named tag for a file. An absent tag yields an
// empty string, not an error.
type Reader interface {
	ReadTag(ctx context.Context, path, tag string) (string, error)
}

// TagWriter copies an embedded date tag into the filesystem date fields.
type TagWriter interface {
	CopyTagToFileTimes(ctx context.Context, path, tag string) error
}

// Option configures the exiftool client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps exiftool CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// NewClient constructs an exiftool client.
func NewClient(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Available reports whether the configured binary can be found on PATH.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Binary returns the configured tool name.
func (c *Client) Binary() string {
	return c.binary
}

// ReadTag returns the value of tag for path formatted as
// "YYYY-MM-DD HH:MM:SS", or an empty string when the tag is absent.
func (c *Client) ReadTag(ctx context.Context, path, tag string) (string, error) {
	args := []string{"-d", displayDateFormat, "-" + tag, "-s3", path}
	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CopyTagToFileTimes instructs exiftool to copy the named date tag into the
// FileModifyDate and FileCreateDate fields, overwriting in place.
func (c *Client) CopyTagToFileTimes(ctx context.Context, path, tag string) error {
	args := []string{
		"-overwrite_original",
		"-FileModifyDate<" + tag,
		"-FileCreateDate<" + tag,
		path,
	}
	_, err := c.exec.Run(ctx, c.binary, args)
	return err
}

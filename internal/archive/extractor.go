// Package archive expands archives found in the source tree into plain
// files before discovery runs. zip and tar-family formats are handled
// natively; rar, xz, and password-protected archives go through an external
// extraction tool.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mediasort/internal/logging"
	"mediasort/internal/services"
)

// Executor abstracts external tool invocation for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%s: %s", binary, detail)
	}
	return nil
}

var nativeExtensions = map[string]struct{}{
	".zip": {},
	".tar": {},
	".tgz": {},
	".gz":  {},
	".bz2": {},
}

var toolExtensions = map[string]struct{}{
	".rar": {},
	".xz":  {},
}

// Report summarizes an extraction pre-pass.
type Report struct {
	Extracted int
	Failed    int
	Removed   int
}

// Options configures the extractor.
type Options struct {
	Tool           string // 7z-compatible binary for rar/xz/encrypted input
	Passwords      PasswordSource
	RemoveArchives bool // delete archives after successful extraction
	Preview        bool
	Executor       Executor
	Logger         *slog.Logger
}

// Extractor expands archives in place, single-threaded, before discovery.
type Extractor struct {
	tool      string
	passwords PasswordSource
	remove    bool
	preview   bool
	exec      Executor
	logger    *slog.Logger
}

// New constructs an extractor.
func New(opts Options) *Extractor {
	e := &Extractor{
		tool:      strings.TrimSpace(opts.Tool),
		passwords: opts.Passwords,
		remove:    opts.RemoveArchives,
		preview:   opts.Preview,
		exec:      opts.Executor,
		logger:    logging.NewComponentLogger(opts.Logger, "archive"),
	}
	if e.exec == nil {
		e.exec = commandExecutor{}
	}
	if e.passwords == nil {
		e.passwords = StaticPassword("")
	}
	return e
}

// Run walks root and extracts every supported archive next to itself.
// Per-archive failures are logged and the pass continues.
func (e *Extractor) Run(ctx context.Context, root string) (Report, error) {
	var report Report
	var archives []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if e.supported(path) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("scan archives: %w", err)
	}

	for _, path := range archives {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if e.preview {
			e.logger.Info("would extract archive", logging.String("archive", path))
			continue
		}
		if err := e.extract(ctx, path); err != nil {
			report.Failed++
			e.logger.Warn("archive extraction failed",
				logging.String("archive", path),
				logging.Error(err))
			continue
		}
		report.Extracted++
		e.logger.Info("extracted archive", logging.String("archive", path))
		if e.remove {
			if err := os.Remove(path); err != nil {
				e.logger.Warn("failed to remove extracted archive",
					logging.String("archive", path),
					logging.Error(err))
			} else {
				report.Removed++
			}
		}
	}
	return report, nil
}

func (e *Extractor) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := nativeExtensions[ext]; ok {
		return true
	}
	_, ok := toolExtensions[ext]
	return ok
}

func (e *Extractor) extract(ctx context.Context, path string) error {
	destDir := filepath.Dir(path)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip":
		return e.extractZip(ctx, path, destDir)
	case ".tar", ".tgz", ".gz", ".bz2":
		return extractTar(path, destDir, ext)
	default:
		return e.extractWithTool(ctx, path, destDir)
	}
}

func (e *Extractor) extractZip(ctx context.Context, path, destDir string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		// Encrypted entries cannot be read natively; hand the whole archive
		// to the external tool with a password.
		if entry.Flags&0x1 != 0 {
			return e.extractWithTool(ctx, path, destDir)
		}
	}

	for _, entry := range reader.File {
		if err := writeZipEntry(entry, destDir); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(entry *zip.File, destDir string) error {
	target, err := secureJoin(destDir, entry.Name)
	if err != nil {
		return err
	}
	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	in, err := entry.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func extractTar(path, destDir, ext string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	switch ext {
	case ".gz", ".tgz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	case ".bz2":
		reader = bzip2.NewReader(f)
	}

	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target, err := secureJoin(destDir, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

func (e *Extractor) extractWithTool(ctx context.Context, path, destDir string) error {
	if e.tool == "" {
		return services.Wrap(services.ErrConfiguration, "archive", "extract",
			"no extraction tool configured for "+filepath.Base(path), nil)
	}
	password, err := e.passwords.Password(path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "archive", "password", path, err)
	}
	args := []string{"x", "-y", "-o" + destDir}
	if password != "" {
		args = append(args, "-p"+password)
	}
	args = append(args, path)
	if err := e.exec.Run(ctx, e.tool, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "archive", "extract", path, err)
	}
	return nil
}

func secureJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

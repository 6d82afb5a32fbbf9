package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/archive"
	"mediasort/internal/config"
	"mediasort/internal/conflict"
	"mediasort/internal/dateresolve"
	"mediasort/internal/journal"
	"mediasort/internal/logging"
	"mediasort/internal/metadata"
	"mediasort/internal/pipeline"
	"mediasort/internal/preflight"
	"mediasort/internal/scan"
	"mediasort/internal/services"
	"mediasort/internal/timesync"
)

type organizeFlags struct {
	preview          bool
	fallbackToMtime  bool
	removeDuplicates bool
	removeEmptyDirs  bool
	extractArchives  bool
	archivePassword  string
	removeExtracted  bool
	threads          int
	verbose          bool
}

func newOrganizeCommand(cmdCtx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize <source> <target>",
		Short: "Relocate media from source into target's YEAR/MONTH layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, cmdCtx, args[0], args[1], flags)
		},
	}

	addOrganizeFlags(cmd, &flags)

	return cmd
}

// addOrganizeFlags registers the organize flag set. The root command carries
// the same set so bare "mediasort <source> <target>" invocations work.
func addOrganizeFlags(cmd *cobra.Command, flags *organizeFlags) {
	cmd.Flags().BoolVarP(&flags.preview, "preview", "p", false, "Report what would happen without writing anything")
	cmd.Flags().BoolVar(&flags.fallbackToMtime, "fallback-to-mtime", false, "Use file modification time when no other date source applies")
	cmd.Flags().BoolVar(&flags.removeDuplicates, "remove-duplicates", false, "Delete sources that are byte-identical to an organized file")
	cmd.Flags().BoolVar(&flags.removeEmptyDirs, "remove-empty-dirs", false, "Remove directories left empty after the run")
	cmd.Flags().BoolVar(&flags.extractArchives, "extract-archives", false, "Unpack archives in the source tree before organizing")
	cmd.Flags().StringVar(&flags.archivePassword, "archive-password", "", "Password for encrypted archives (prompted when omitted)")
	cmd.Flags().BoolVar(&flags.removeExtracted, "remove-extracted", false, "Delete archives after successful extraction")
	cmd.Flags().IntVarP(&flags.threads, "threads", "t", 0, "Worker count (0 = twice the CPU count)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Debug logging")
}

func runOrganize(cmd *cobra.Command, cmdCtx *commandContext, sourceArg, targetArg string, flags organizeFlags) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	applyOrganizeFlags(cmd, cfg, &flags)

	source, err := config.ExpandPath(sourceArg)
	if err != nil {
		return err
	}
	target, err := config.ExpandPath(targetArg)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(source); statErr != nil || !info.IsDir() {
		return services.Wrap(services.ErrNotFound, "cli", "organize",
			fmt.Sprintf("source directory %s does not exist", source), nil)
	}

	logger, err := buildRunLogger(cfg, flags)
	if err != nil {
		return err
	}

	client, err := metadata.NewClient(cfg.Metadata.Tool)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "organize", "metadata tool", err)
	}
	checks := preflightChecks(cfg, client, source, target, flags.preview)
	printPreflight(cmd, checks)
	if !preflight.AllPassed(checks) {
		return services.Wrap(services.ErrConfiguration, "cli", "organize", "preflight checks failed", nil)
	}

	ctx := cmd.Context()

	var store *journal.Store
	runID := ""
	if !flags.preview {
		lock, lockErr := journal.AcquireLock(target)
		if lockErr != nil {
			return lockErr
		}
		defer func() { _ = lock.Release() }()

		if cfg.JournalEnabled() {
			store, err = journal.Open(target)
			if err != nil {
				return err
			}
			defer store.Close()
			runID, err = store.BeginRun(ctx, source, target, flags.preview)
			if err != nil {
				return err
			}
		}
	}

	if flags.extractArchives {
		extractor := archive.New(archive.Options{
			Tool:           cfg.Archive.Tool,
			Passwords:      passwordSource(cmd, flags),
			RemoveArchives: flags.removeExtracted,
			Preview:        flags.preview,
			Logger:         logger,
		})
		report, runErr := extractor.Run(ctx, source)
		if runErr != nil {
			return runErr
		}
		logger.Info("archive pre-pass finished",
			logging.Int("extracted", report.Extracted),
			logging.Int("failed", report.Failed),
			logging.Int("removed", report.Removed))
	}

	discovered, err := scan.Discover(source)
	if err != nil {
		return services.Wrap(services.ErrTransient, "cli", "organize", "discover source tree", err)
	}
	logger.Info("discovered media",
		logging.Int("files", len(discovered.Files)),
		logging.Int("unsupported", discovered.Unsupported))

	reader, writer := buildMetadataProvider(cfg, client, logger)
	resolver := dateresolve.New(reader, logger)
	syncer := timesync.New(writer, flags.preview, logger)
	conflicts := conflict.NewResolver(flags.removeDuplicates)
	pipe := pipeline.New(pipeline.Options{
		TargetDir:       target,
		Preview:         flags.preview,
		FallbackToMtime: flags.fallbackToMtime,
	}, resolver, syncer, conflicts, logger)

	var recorder pipeline.Recorder
	if store != nil {
		recorder = store
	}
	pool := pipeline.NewPool(flags.threads, pipe, recorder, runID, logger)
	summary := pool.Run(ctx, discovered.Files)

	if flags.removeEmptyDirs && !flags.preview {
		removed, cleanupErr := scan.RemoveEmptyDirs(source)
		if cleanupErr != nil {
			logger.Warn("empty directory cleanup failed", logging.Error(cleanupErr))
		} else if removed > 0 {
			logger.Info("removed empty directories", logging.Int("count", removed))
		}
	}

	if store != nil {
		if finishErr := store.FinishRun(ctx, runID); finishErr != nil {
			logger.Warn("journal finish failed", logging.Error(finishErr))
		}
	}

	printSummary(cmd, summary, discovered.Unsupported, flags.preview)
	return nil
}

// applyOrganizeFlags merges config file values with explicit flags; a flag
// the user set always wins.
func applyOrganizeFlags(cmd *cobra.Command, cfg *config.Config, flags *organizeFlags) {
	if !cmd.Flags().Changed("threads") {
		flags.threads = cfg.Organize.Threads
	}
	if !cmd.Flags().Changed("fallback-to-mtime") {
		flags.fallbackToMtime = cfg.Organize.FallbackToMtime
	}
	if !cmd.Flags().Changed("remove-duplicates") {
		flags.removeDuplicates = cfg.Organize.RemoveDuplicates
	}
	if !cmd.Flags().Changed("remove-empty-dirs") {
		flags.removeEmptyDirs = cfg.Organize.RemoveEmptyDirs
	}
	if !cmd.Flags().Changed("extract-archives") {
		flags.extractArchives = cfg.Archive.Extract
	}
	if !cmd.Flags().Changed("archive-password") {
		flags.archivePassword = cfg.Archive.Password
	}
	if !cmd.Flags().Changed("remove-extracted") {
		flags.removeExtracted = cfg.Archive.RemoveExtracted
	}
}

func buildRunLogger(cfg *config.Config, flags organizeFlags) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if flags.verbose {
		level = "debug"
	}

	outputs := []string{"stderr"}
	if !flags.preview {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, err
		}
		runLog := filepath.Join(cfg.Paths.LogDir, "mediasort.log")
		if err := pipeline.RotateLog(runLog); err != nil {
			return nil, err
		}
		pruneOldLogs(cfg.Paths.LogDir, cfg.Logging.RetentionDays)
		outputs = append(outputs, runLog)
	}

	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

// pruneOldLogs removes rotated run logs older than the retention window.
// Best-effort; the run proceeds regardless.
func pruneOldLogs(logDir string, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "mediasort.log.") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(logDir, entry.Name()))
	}
}

func preflightChecks(cfg *config.Config, client *metadata.Client, source, target string, preview bool) []preflight.Result {
	if preview {
		// Preview performs no writes, so target creation and free space
		// checks stay out of the picture.
		return []preflight.Result{
			preflight.CheckSourceDir(source),
			preflight.CheckMetadataTool(client, false),
		}
	}
	return preflight.RunAll(preflight.Input{
		SourceDir:    source,
		TargetDir:    target,
		MinFreeBytes: cfg.MinFreeBytes(),
		Tool:         client,
		ToolRequired: false,
	})
}

// buildMetadataProvider selects the date reader chain and tag writer. The
// native EXIF reader fronts exiftool when preferred or when the tool is
// absent; tag writes always need the external tool.
func buildMetadataProvider(cfg *config.Config, client *metadata.Client, logger *slog.Logger) (metadata.Reader, metadata.TagWriter) {
	available := client.Available()

	var reader metadata.Reader
	switch {
	case available && !cfg.Metadata.PreferNative:
		reader = client
	case available:
		reader = metadata.ChainReader{metadata.NativeReader{}, client}
	default:
		logger.Warn("metadata tool not found, using native EXIF reads only",
			logging.String("tool", cfg.Metadata.Tool))
		reader = metadata.NativeReader{}
	}

	if !available {
		return reader, nil
	}
	return reader, client
}

func passwordSource(cmd *cobra.Command, flags organizeFlags) archive.PasswordSource {
	if flags.archivePassword != "" {
		return archive.StaticPassword(flags.archivePassword)
	}
	stdin := bufio.NewReader(cmd.InOrStdin())
	return archive.PromptFunc(func(archivePath string) (string, error) {
		fmt.Fprintf(cmd.OutOrStdout(), "Password for %s: ", archivePath)
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	})
}

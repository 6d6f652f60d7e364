package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/ui"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.ql|directory>",
		Short: "Report lexical and syntax diagnostics",
		Long: `Diag parses a quill source file or all *.ql files in a directory and reports
their diagnostics. The exit status is 1 when any error is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: runDiag,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse diagnostics of unchanged files from the disk cache")
	cmd.Flags().String("cache-dir", "", "disk cache location (default $XDG_CACHE_HOME/quill)")
	cmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
	return cmd
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

func runDiag(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	opts, err := g.driverOptions(target)
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	if useCache || cacheDir != "" {
		if opts.Cache, err = openCache(cacheDir); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	baseDir, files := filepath.Dir(target), []string{target}
	if st.IsDir() {
		baseDir = target
		if files, err = driver.ListFiles(target); err != nil {
			return err
		}
	}

	var res *driver.DirResult
	run := func(sink driver.ProgressSink) error {
		o := opts
		o.Progress = sink
		var runErr error
		res, runErr = driver.ParseFiles(cmd.Context(), baseDir, files, o)
		return runErr
	}
	// прогресс только для каталогов и только поверх pretty-вывода
	if st.IsDir() && format == "pretty" && !g.quiet && len(files) > 1 && shouldUseTUI(mode) {
		err = ui.RunWithProgress(cmd.Context(), cmd.ErrOrStderr(), "diag "+target, files, run)
	} else {
		err = run(nil)
	}
	if err != nil {
		return fmt.Errorf("diagnose failed: %w", err)
	}

	if err := reportDiagnostics(cmd, g, format, res); err != nil {
		return err
	}
	printTimings(cmd, opts.Timer)
	return exitStatus(res.Merged())
}

func openCache(dir string) (*driver.DiskCache, error) {
	if dir != "" {
		return driver.NewDiskCache(dir)
	}
	return driver.OpenDiskCache("quill")
}

// reportDiagnostics prints the merged diagnostics of res: pretty output goes to
// stderr followed by a summary, json and short go to stdout.
func reportDiagnostics(cmd *cobra.Command, g globalFlags, format string, res *driver.DirResult) error {
	merged := res.Merged()
	switch format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), merged, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         g.pathMode,
			IncludeNotes:     true,
		})
	case "short":
		if merged.Len() == 0 {
			return nil
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), diag.FormatShort(merged.Items(), res.FileSet, true))
		return err
	}

	stderr := cmd.ErrOrStderr()
	popts := g.prettyOpts(stderr)
	if err := diagfmt.Pretty(stderr, merged, res.FileSet, popts); err != nil {
		return err
	}
	if g.quiet {
		return nil
	}
	if merged.Len() == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d files checked, no issues\n", len(res.Files))
		return err
	}
	return diagfmt.Summary(stderr, merged, popts.Color)
}

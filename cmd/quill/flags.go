package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/observ"
	"quill/internal/prof"
	"quill/internal/project"
)

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func parseColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "always", "on":
		return colorAlways, nil
	case "never", "off":
		return colorNever, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|always|never)", value)
	}
}

// enabled reports whether output to w is coloured; auto colours only terminals.
func (m colorMode) enabled(w io.Writer) bool {
	switch m {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && isTerminal(f)
	}
}

type globalFlags struct {
	color          colorMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	verbose        int
	logFile        string
	pathMode       diagfmt.PathMode
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.color, err = parseColorMode(colorFlag); err != nil {
		return g, err
	}
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must not be negative")
	}
	if g.verbose, err = pf.GetCount("verbose"); err != nil {
		return g, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if g.logFile, err = pf.GetString("log-file"); err != nil {
		return g, fmt.Errorf("failed to get log-file flag: %w", err)
	}
	pathMode, err := pf.GetString("path-mode")
	if err != nil {
		return g, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	g.pathMode = diagfmt.ParsePathMode(pathMode)
	return g, nil
}

// driverOptions builds driver options for target, loading the quill.toml that
// governs it. A nil timer is returned unless --timings is set.
func (g globalFlags) driverOptions(target string) (driver.Options, error) {
	dir := target
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		dir = filepath.Dir(target)
	}
	manifest, err := project.Discover(dir)
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{Manifest: manifest, MaxDiagnostics: g.maxDiagnostics}
	if g.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

func (g globalFlags) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:        g.color.enabled(w),
		PathMode:     g.pathMode,
		ShowNotes:    true,
		ShowExpected: true,
	}
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}

func readProfileFlags(cmd *cobra.Command) (prof.Config, error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return cfg, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = pf.GetString("mem-profile"); err != nil {
		return cfg, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return cfg, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return cfg, nil
}

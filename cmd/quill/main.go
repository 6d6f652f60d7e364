package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quill/internal/driver"
	"quill/internal/prof"
	"quill/internal/version"
)

// errDiagnostics marks a run that completed but reported error diagnostics;
// main turns it into exit status 1 without printing anything else.
var errDiagnostics = errors.New("errors reported")

// profiling is the session started by the root command; main stops it even
// when the command fails.
var profiling *prof.Session

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "quill language front-end",
		Long:          `quill tokenizes and parses .ql sources and reports lexical and syntax diagnostics`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			verbosity := g.verbose
			if g.quiet {
				verbosity = -1
			}
			driver.ConfigureLogging(verbosity, g.logFile)
			color.NoColor = !g.color.enabled(os.Stdout)

			cfg, err := readProfileFlags(cmd)
			if err != nil {
				return err
			}
			if cfg.Enabled() {
				if profiling, err = prof.Start(cfg); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return profiling.Stop()
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|always|never)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	pf.String("log-file", "", "write logs to this file instead of stderr")
	pf.String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newDiagCmd(),
		newWatchCmd(),
		newLSPCmd(),
		newVersionCmd(),
		newInitCmd(),
		newCleanCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if stopErr := profiling.Stop(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "quill: profiling: %v\n", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/driver"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [paths...]",
		Short: "Re-run diagnostics whenever .ql files change",
		Long: `Watch diagnoses the given files and directories (the current directory by
default), then re-diagnoses changed .ql files until interrupted.`,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before re-running after a change")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	opts, err := g.driverOptions(paths[0])
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	opts.Timer = nil

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// первый проход по всем путям
	for _, p := range paths {
		res, err := driver.Diagnose(ctx, p, opts)
		if err != nil {
			return err
		}
		if err := reportDiagnostics(cmd, g, "pretty", res); err != nil {
			return err
		}
	}

	base, err := os.Getwd()
	if err != nil {
		return err
	}
	err = driver.Watch(ctx, paths, debounce, func(changed []string) error {
		existing := changed[:0:0]
		for _, p := range changed {
			if _, statErr := os.Stat(p); statErr == nil {
				existing = append(existing, p)
			}
		}
		if len(existing) == 0 {
			return nil
		}
		if !g.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n== %s: %d changed ==\n", time.Now().Format(time.TimeOnly), len(existing))
		}
		res, err := driver.ParseFiles(ctx, base, existing, opts)
		if err != nil {
			return err
		}
		return reportDiagnostics(cmd, g, "pretty", res)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop the diagnostics disk cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cmd.Flags().GetString("cache-dir")
			if err != nil {
				return fmt.Errorf("failed to get cache-dir flag: %w", err)
			}
			cache, err := openCache(dir)
			if err != nil {
				return err
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("drop cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	}
	cmd.Flags().String("cache-dir", "", "disk cache location (default $XDG_CACHE_HOME/quill)")
	return cmd
}

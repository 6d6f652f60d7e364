package main

import (
	"github.com/spf13/cobra"

	"quill/internal/lsp"
	"quill/internal/version"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the quill language server over stdio",
		Long: `Run a language server that publishes lexical and syntax diagnostics for
open .ql documents. Logs go to stderr or --log-file, never to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// манифест ищется от корня рабочей области при initialize
			return lsp.NewServer(version.Version, nil).RunStdio()
		},
	}
}

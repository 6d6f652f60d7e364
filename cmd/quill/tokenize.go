package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.ql|->",
		Short: "Tokenize a quill source file",
		Long:  `Tokenize breaks a quill source file into tokens; "-" reads the source from stdin`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	var result *driver.TokenizeResult
	if filePath == "-" {
		opts, err := g.driverOptions(".")
		if err != nil {
			return err
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		result, err = driver.TokenizeSource("<stdin>", src, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	} else {
		opts, err := g.driverOptions(filePath)
		if err != nil {
			return err
		}
		result, err = driver.Tokenize(filePath, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		defer printTimings(cmd, opts.Timer)
	}

	// Диагностика в stderr, токены в stdout
	if result.Bag.Len() > 0 {
		stderr := cmd.ErrOrStderr()
		if err := diagfmt.Pretty(stderr, result.Bag, result.FileSet, g.prettyOpts(stderr)); err != nil {
			return err
		}
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
	}
}

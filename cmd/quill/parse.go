package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.ql|directory>",
		Short: "Parse quill sources and print the syntax tree",
		Long:  `Parse analyzes a quill source file or all *.ql files in a directory and prints their syntax trees`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	opts, err := g.driverOptions(target)
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	defer printTimings(cmd, opts.Timer)

	res, err := driver.Diagnose(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	for _, fr := range res.Files {
		if fr.Bag.Len() == 0 {
			continue
		}
		if err := diagfmt.Pretty(stderr, fr.Bag, res.FileSet, g.prettyOpts(stderr)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	single := len(res.Files) == 1
	switch format {
	case "json":
		if single {
			return writeASTJSON(out, res.Files[0])
		}
		trees := make(map[string]*diagfmt.NodeJSON, len(res.Files))
		for _, fr := range res.Files {
			trees[displayPath(res, fr, g)] = astJSON(fr)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(trees)
	default:
		for idx, fr := range res.Files {
			if !single && !g.quiet {
				if idx > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s ==\n", displayPath(res, fr, g))
			}
			if fr.Builder == nil {
				continue
			}
			if err := diagfmt.FormatASTTree(out, fr.Builder, fr.ASTFile); err != nil {
				return err
			}
		}
	}
	return nil
}

func astJSON(fr driver.FileResult) *diagfmt.NodeJSON {
	if fr.Builder == nil {
		return nil
	}
	return diagfmt.BuildASTJSON(fr.Builder, fr.ASTFile)
}

func writeASTJSON(out io.Writer, fr driver.FileResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(astJSON(fr))
}

func displayPath(res *driver.DirResult, fr driver.FileResult, g globalFlags) string {
	f := res.FileSet.Get(fr.FileID)
	if f == nil {
		return fr.Path
	}
	return f.FormatPath(g.pathMode.String(), res.FileSet.BaseDir())
}

// exitStatus maps the outcome of a run to errDiagnostics when any error was reported.
func exitStatus(bag *diag.Bag) error {
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

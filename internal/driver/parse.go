package driver

import (
	"context"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse loads and parses the file at path. A cancelled ctx yields the partial
// tree together with ctx's error.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	done := opts.Timer.Track("load")
	fileID, err := fs.Load(path)
	done("")
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fileID, opts)
}

// ParseSource parses in-memory text (stdin, LSP buffers) as a virtual file.
func ParseSource(ctx context.Context, name string, src []byte, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	return parseLoaded(ctx, fs, fs.AddVirtual(name, src), opts)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*ParseResult, error) {
	popts, err := opts.parserOptions()
	if err != nil {
		return nil, err
	}
	builder, astFile, bag, err := parseOne(ctx, fs, fileID, popts, opts)
	return &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Builder: builder,
		FileID:  astFile,
		Bag:     bag,
	}, err
}

// parseOne runs the parser on one loaded file with its own builder, so calls
// for different files may run concurrently.
func parseOne(ctx context.Context, fs *source.FileSet, fileID source.FileID, popts parser.Options, opts Options) (*ast.Builder, ast.FileID, *diag.Bag, error) {
	builder := ast.NewBuilder(ast.Hints{}, nil)
	done := opts.Timer.Track("parse")
	res := parser.ParseFile(ctx, fs, fileID, builder, popts)
	done("")
	bag := capBag(res.Bag, opts.MaxDiagnostics)
	if f := fs.Get(fileID); f != nil {
		log.Debugf("parsed %s: %d items, %d diagnostics", f.Path, len(builder.Files.Get(res.File).Items), bag.Len())
	}
	return builder, res.File, bag, res.Err
}

// capBag copies src into a bag limited to max entries; the overflow is counted as dropped.
func capBag(src *diag.Bag, max int) *diag.Bag {
	if max <= 0 || src.Len() <= max {
		return src
	}
	out := diag.NewBag(max)
	for _, d := range src.Items() {
		out.Add(d)
	}
	return out
}

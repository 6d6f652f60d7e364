package driver

import (
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes the file at path with the manifest's lexer settings.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	done := opts.Timer.Track("load")
	fileID, err := fs.Load(path)
	done("")
	if err != nil {
		return nil, err
	}
	return tokenizeLoaded(fs, fileID, opts)
}

// TokenizeSource lexes in-memory text (stdin, tests) as a virtual file.
func TokenizeSource(name string, src []byte, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	return tokenizeLoaded(fs, fs.AddVirtual(name, src), opts)
}

func tokenizeLoaded(fs *source.FileSet, fileID source.FileID, opts Options) (*TokenizeResult, error) {
	lexOpts, err := opts.manifest().LexerOptions()
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	lexOpts.Reporter = diag.BagReporter{Bag: bag}

	done := opts.Timer.Track("lex")
	tokens := lexer.New(file, lexOpts).Tokens()
	done("")
	bag.Sort()
	log.Debugf("tokenized %s: %d tokens, %d diagnostics", file.Path, len(tokens), bag.Len())

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

package driver

import (
	"quill/internal/observ"
	"quill/internal/parser"
	"quill/internal/project"
)

// Options shared by Tokenize, Parse and ParseDir.
type Options struct {
	// Manifest supplies lexer/parser settings; nil means project.Default().
	Manifest *project.Manifest
	// MaxDiagnostics caps the bag of each file; 0 keeps everything.
	MaxDiagnostics int
	// Jobs bounds ParseDir workers; 0 means GOMAXPROCS.
	Jobs     int
	Timer    *observ.Timer
	Progress ProgressSink
	// Cache, when set, lets ParseDir skip files whose diagnostics are cached.
	Cache *DiskCache
}

func (o Options) manifest() *project.Manifest {
	if o.Manifest == nil {
		return project.Default()
	}
	return o.Manifest
}

func (o Options) parserOptions() (parser.Options, error) {
	return o.manifest().ParserOptions()
}

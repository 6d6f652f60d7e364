package driver

import (
	"context"
	"os"
	"path/filepath"
)

// Diagnose parses target, a .ql file or a directory of them, and returns the
// per-file results. A single file gets its directory as the FileSet base.
func Diagnose(ctx context.Context, target string, opts Options) (*DirResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ParseDir(ctx, target, opts)
	}
	return ParseFiles(ctx, filepath.Dir(target), []string{target}, opts)
}

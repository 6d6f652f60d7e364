package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
)

// SourceExt is the extension of quill source files.
const SourceExt = ".ql"

// FileResult содержит результат обработки одного файла
type FileResult struct {
	Path   string        // путь к файлу, как он попал в FileSet
	FileID source.FileID // ID файла в FileSet
	// Builder and ASTFile are nil/invalid when the diagnostics came from the cache
	// or the file could not be read.
	Builder *ast.Builder
	ASTFile ast.FileID
	Bag     *diag.Bag
	Cached  bool
}

// DirResult is the outcome of ParseDir/ParseFiles, one entry per file in path order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *DirResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Merged collects the diagnostics of all files into one sorted bag.
func (r *DirResult) Merged() *diag.Bag {
	out := diag.NewBag(0)
	for i := range r.Files {
		out.Merge(r.Files[i].Bag)
	}
	out.Sort()
	return out
}

// ListFiles возвращает отсортированный список всех *.ql файлов в директории.
// Скрытые каталоги (".git", ".cache") пропускаются.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir парсит все *.ql файлы в директории параллельно.
func ParseDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return ParseFiles(ctx, dir, files, opts)
}

// ParseFiles parses paths in parallel. All files are loaded into one FileSet
// before workers start; each worker owns its Builder and Bag, so the only
// shared state is the read-only FileSet.
func ParseFiles(ctx context.Context, baseDir string, paths []string, opts Options) (*DirResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	result := &DirResult{FileSet: fileSet, Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return result, nil
	}
	popts, err := opts.parserOptions()
	if err != nil {
		return nil, err
	}

	done := opts.Timer.Track("load")
	loadErrs := make([]error, len(paths))
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой файл-заглушка, чтобы диагностика имела путь
			id = fileSet.Add(path, nil, 0)
			loadErrs[i] = err
		}
		result.Files[i] = FileResult{Path: path, FileID: id}
	}
	done("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i := range result.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := &result.Files[i] // индекс уникален для горутины, мьютекс не нужен
			start := time.Now()
			if loadErrs[i] != nil {
				fr.Bag = loadErrorBag(fileSet, fr.FileID, loadErrs[i])
				emit(opts.Progress, Event{File: fr.Path, Stage: StageLoad, Status: StatusError, Err: loadErrs[i], Errors: 1, Elapsed: time.Since(start)})
				return nil
			}
			if err := parseWorker(gctx, fileSet, fr, popts, opts); err != nil {
				return err
			}
			status := StatusDone
			if fr.Bag.HasErrors() {
				status = StatusError
			}
			stage := StageParse
			if fr.Cached {
				stage = StageCache
			}
			emit(opts.Progress, Event{File: fr.Path, Stage: stage, Status: status, Errors: fr.Bag.Count(diag.SevError), Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func parseWorker(ctx context.Context, fileSet *source.FileSet, fr *FileResult, popts parser.Options, opts Options) error {
	file := fileSet.Get(fr.FileID)
	if opts.Cache != nil {
		if bag, ok := cachedBag(opts.Cache, file, popts, opts.MaxDiagnostics); ok {
			fr.Bag, fr.Cached = bag, true
			return nil
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	builder, astFile, bag, err := parseOne(ctx, fileSet, fr.FileID, popts, opts)
	fr.Builder, fr.ASTFile, fr.Bag = builder, astFile, bag
	if err != nil {
		return err
	}
	if opts.Cache != nil && bag.Dropped() == 0 {
		storeBag(opts.Cache, file, popts, bag)
	}
	return nil
}

func cachedBag(c *DiskCache, file *source.File, popts parser.Options, max int) (*diag.Bag, bool) {
	key, err := c.Key(file, popts)
	if err != nil {
		return nil, false
	}
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	switch {
	case errors.Is(err, ErrCacheSchema):
		log.Infof("stale cache entry for %s, reparsing", file.Path)
		return nil, false
	case err != nil:
		log.Warningf("cache read for %s: %v", file.Path, err)
		return nil, false
	case !ok:
		return nil, false
	}
	log.Debugf("cache hit for %s", file.Path)
	return payload.Restore(file, max), true
}

func storeBag(c *DiskCache, file *source.File, popts parser.Options, bag *diag.Bag) {
	key, err := c.Key(file, popts)
	if err != nil {
		return
	}
	if err := c.Put(key, payloadFromBag(file.Path, bag)); err != nil {
		log.Warningf("cache write for %s: %v", file.Path, err)
	}
}

func loadErrorBag(fileSet *source.FileSet, id source.FileID, err error) *diag.Bag {
	bag := diag.NewBag(0)
	f := fileSet.Get(id)
	sp := source.PointSpan(id, f.PositionAt(0))
	bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, sp, "failed to load file: "+err.Error()))
	return bag
}

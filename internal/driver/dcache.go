package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/project"
	"quill/internal/source"
	"quill/internal/token"
	"quill/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// ErrCacheSchema is returned by Get for entries written with another schema.
var ErrCacheSchema = errors.New("disk cache: schema mismatch")

// DiskCache хранит диагностики файлов на диске, ключ – хеш содержимого,
// версия quill и отпечаток грамматики. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote is a diag.Note with the span reduced to byte offsets.
type CachedNote struct {
	Start, End uint32
	Msg        string
}

// CachedDiagnostic is a diag.Diagnostic with spans reduced to byte offsets;
// line/column are recomputed from the file on restore.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Expected []string
	Notes    []CachedNote
}

// DiskPayload is one cache entry.
type DiskPayload struct {
	Schema      uint16
	Version     string
	Path        string
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// Key identifies the diagnostics of f under the given parser settings.
func (c *DiskCache) Key(f *source.File, opts parser.Options) (project.Digest, error) {
	table := opts.Lexer.Table
	if table == nil {
		table = token.DefaultTable()
	}
	return project.Combine(project.Digest(f.Hash),
		version.Version,
		table.Fingerprint(),
		strconv.FormatUint(uint64(opts.MaxErrors), 10),
		strconv.Itoa(opts.Lexer.MaxTokenLen),
	)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "diags", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warningf("failed to remove temp file %s: %v", tmp, rmErr)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. A missing entry is
// (false, nil); an entry of another schema is (false, ErrCacheSchema).
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("disk cache: decode: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, fmt.Errorf("%w: entry %d, want %d", ErrCacheSchema, out.Schema, diskCacheSchemaVersion)
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// payloadFromBag converts diagnostics of one file into a cache entry.
func payloadFromBag(path string, bag *diag.Bag) *DiskPayload {
	p := &DiskPayload{Version: version.Version, Path: path}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start.Offset,
			End:      d.Primary.End.Offset,
			Expected: d.Expected,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start.Offset, End: n.Span.End.Offset, Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// Restore rebuilds the diagnostics against f, recomputing line and column.
func (p *DiskPayload) Restore(f *source.File, max int) *diag.Bag {
	bag := diag.NewBag(max)
	span := func(start, end uint32) source.Span {
		return source.Span{File: f.ID, Start: f.PositionAt(start), End: f.PositionAt(end)}
	}
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		d.Expected = cd.Expected
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		bag.Add(d)
	}
	return bag
}

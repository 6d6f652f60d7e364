package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/observ"
	"quill/internal/project"
	"quill/internal/token"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestTokenizeUsesManifest(t *testing.T) {
	m := project.Default()
	m.Lexer.Trivia = lexer.TriviaEmit.String()
	m.Grammar.Keywords = map[string]string{"soit": "let"}

	res, err := TokenizeSource("t.ql", []byte("soit x"), Options{Manifest: m})
	if err != nil {
		t.Fatal(err)
	}
	var kinds []token.Kind
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.KwLet, token.Whitespace, token.Ident, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestTokenizeFileWithErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ql")
	writeFile(t, path, "let a = @\n")
	timer := observ.NewTimer()
	res, err := Tokenize(path, Options{Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() || res.Bag.Items()[0].Code != diag.LexUnknownChar {
		t.Errorf("diagnostics = %v", res.Bag.Items())
	}
	if len(timer.Report().Phases) != 2 {
		t.Errorf("timer phases = %+v", timer.Report().Phases)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.ql"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestParseMaxDiagnostics(t *testing.T) {
	res, err := ParseSource(context.Background(), "m.ql", []byte("@\n@\n@\n@\n@\n"), Options{MaxDiagnostics: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 2 || res.Bag.Dropped() != 3 {
		t.Errorf("len = %d dropped = %d", res.Bag.Len(), res.Bag.Dropped())
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ParseSource(ctx, "c.ql", []byte("fn a() {}\nfn b() {}\n"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || res.Builder == nil {
		t.Fatalf("partial result missing")
	}
}

func TestParseDirDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.ql"), "let x = 1 +\n")
	writeFile(t, filepath.Join(dir, "a.ql"), "fn main() { return 1 }\n")
	writeFile(t, filepath.Join(dir, "sub", "c.ql"), "let y = (1\n")
	writeFile(t, filepath.Join(dir, ".hidden", "d.ql"), "@@@\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "@@@\n")

	var mu sync.Mutex
	var events []Event
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	res, err := ParseDir(context.Background(), dir, Options{Jobs: 3, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %d, want 3", len(res.Files))
	}
	wantOrder := []string{"a.ql", "b.ql", filepath.Join("sub", "c.ql")}
	for i, fr := range res.Files {
		rel, _ := filepath.Rel(dir, fr.Path)
		if rel != wantOrder[i] {
			t.Errorf("file %d = %s, want %s", i, rel, wantOrder[i])
		}
	}
	if res.Files[0].Bag.HasErrors() || !res.Files[1].Bag.HasErrors() || !res.Files[2].Bag.HasErrors() {
		t.Errorf("unexpected error distribution")
	}
	if !res.HasErrors() || res.Merged().Len() != res.Files[1].Bag.Len()+res.Files[2].Bag.Len() {
		t.Errorf("merged bag mismatch")
	}

	finals := 0
	for _, ev := range events {
		if ev.Status == StatusDone || ev.Status == StatusError {
			finals++
		}
	}
	if finals != 3 {
		t.Errorf("final events = %d, want 3", finals)
	}
}

func TestParseFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.ql")
	res, err := ParseFiles(context.Background(), dir, []string{missing}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	items := res.Files[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("diagnostics = %v", items)
	}
	if f := res.FileSet.Get(items[0].Primary.File); f == nil || f.Path != filepath.ToSlash(missing) {
		t.Errorf("load error not attached to the missing path")
	}
}

func TestDiagnoseSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.ql")
	writeFile(t, path, "fn f() {}\n")
	res, err := Diagnose(context.Background(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.HasErrors() {
		t.Errorf("result = %+v", res.Files)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "x.ql")
	writeFile(t, path, "let x = (1 +\n")

	opts := Options{Cache: cache}
	first, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached {
		t.Fatalf("first run must not be cached")
	}
	second, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	fr := second.Files[0]
	if !fr.Cached || fr.Builder != nil {
		t.Fatalf("second run not served from cache: %+v", fr)
	}
	a, b := first.Files[0].Bag.Items(), fr.Bag.Items()
	if len(a) != len(b) {
		t.Fatalf("cached diagnostics %d, parsed %d", len(b), len(a))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Message != b[i].Message ||
			a[i].Primary.Start != b[i].Primary.Start || a[i].Primary.End != b[i].Primary.End ||
			len(a[i].Notes) != len(b[i].Notes) {
			t.Errorf("diag %d differs:\n parsed %+v\n cached %+v", i, a[i], b[i])
		}
	}

	// изменение содержимого меняет ключ
	writeFile(t, path, "let x = 1\n")
	third, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached || third.Files[0].Bag.Len() != 0 {
		t.Errorf("stale cache entry served after edit")
	}
}

func writeRaw(t *testing.T, c *DiskCache, key project.Digest, payload *DiskPayload) {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, c.pathFor(key), string(data))
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key project.Digest
	key[0] = 7
	if err := cache.Put(key, &DiskPayload{Path: "a.ql"}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if ok, err := cache.Get(key, &out); !ok || err != nil {
		t.Fatalf("Get = %v, %v", ok, err)
	}

	// подменяем запись на другую схему
	out.Schema = diskCacheSchemaVersion + 1
	writeRaw(t, cache, key, &out)
	if _, err := cache.Get(key, &out); !errors.Is(err, ErrCacheSchema) {
		t.Errorf("err = %v, want ErrCacheSchema", err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Errorf("after DropAll: %v, %v", ok, err)
	}
}

func TestCacheKeyDependsOnGrammar(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res, err := ParseSource(context.Background(), "k.ql", []byte("let x = 1"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	plain, _ := project.Default().ParserOptions()
	m := project.Default()
	m.Grammar.Keywords = map[string]string{"soit": "let"}
	aliased, err := m.ParserOptions()
	if err != nil {
		t.Fatal(err)
	}
	k1, _ := cache.Key(res.File, plain)
	k2, _ := cache.Key(res.File, aliased)
	if k1 == k2 {
		t.Errorf("keyword alias does not change the cache key")
	}
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "w.ql"), "let a = 1\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan []string, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, []string{dir}, 20*time.Millisecond, func(changed []string) error {
			select {
			case got <- changed:
			default:
			}
			return nil
		})
	}()

	// даём watcher'у подписаться, затем пишем несколько раз подряд
	deadline := time.After(4 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case changed := <-got:
			if len(changed) != 1 || filepath.Base(changed[0]) != "w.ql" {
				t.Errorf("changed = %v", changed)
			}
			cancel()
			if err := <-errc; err != nil {
				t.Errorf("Watch returned %v", err)
			}
			return
		case <-tick.C:
			writeFile(t, filepath.Join(dir, "w.ql"), "let a = 2\n")
			writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

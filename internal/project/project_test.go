package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/lexer"
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

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("root = %q, want %q", got, want)
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, `
[package]
name = "demo"
requires = ">=0.1"

[lexer]
trivia = "emit"
max_token_len = 64

[parser]
max_errors = 7

[grammar.keywords]
funzione = "fn"
mentre = "KwWhile"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "demo" || m.Parser.MaxErrors != 7 || m.Path != path {
		t.Errorf("manifest = %+v", m)
	}
	popts, err := m.ParserOptions()
	if err != nil {
		t.Fatal(err)
	}
	if popts.MaxErrors != 7 || popts.Lexer.Trivia != lexer.TriviaEmit || popts.Lexer.MaxTokenLen != 64 {
		t.Errorf("parser options = %+v", popts)
	}
	if k, ok := popts.Lexer.Table.LookupKeyword("funzione"); !ok || k != token.KwFn {
		t.Errorf("alias funzione = %v, %v", k, ok)
	}
	if k, ok := popts.Lexer.Table.LookupKeyword("mentre"); !ok || k != token.KwWhile {
		t.Errorf("alias mentre = %v, %v", k, ok)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"no package", "[lexer]\ntrivia = \"skip\"\n", "", ErrPackageSectionMissing},
		{"no name", "[package]\nrequires = \">=0.1\"\n", "", ErrPackageNameMissing},
		{"bad trivia", "[package]\nname = \"x\"\n[lexer]\ntrivia = \"keep\"\n", "unknown mode", nil},
		{"unknown key", "[package]\nname = \"x\"\ncolour = 1\n", "unknown keys: package.colour", nil},
		{"bad alias", "[package]\nname = \"x\"\n[grammar.keywords]\nfoo = \"bar\"\n", "unknown keyword", nil},
		{"unsatisfied", "[package]\nname = \"x\"\nrequires = \">=99\"\n", "does not satisfy", nil},
		{"not toml", "[package\n", "failed to parse TOML", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverDefault(t *testing.T) {
	m, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if m.Path != "" {
		t.Errorf("expected default manifest, got %q", m.Path)
	}
	opts, err := m.LexerOptions()
	if err != nil || opts.Trivia != lexer.TriviaAttach {
		t.Errorf("default lexer options = %+v, %v", opts, err)
	}
}

func TestStarterRoundTrip(t *testing.T) {
	data, err := Starter("hello")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, string(data))
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("starter manifest does not load: %v\n%s", err, data)
	}
	if m.Package.Name != "hello" || m.Parser.MaxErrors != 100 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestCombine(t *testing.T) {
	var content Digest
	content[0] = 1
	a, err := Combine(content, "ab", "c")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Combine(content, "a", "bc")
	if a == b {
		t.Errorf("length prefix missing: %x", a)
	}
	again, _ := Combine(content, "ab", "c")
	if a != again {
		t.Errorf("Combine is not deterministic")
	}
}

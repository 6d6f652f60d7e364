package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.ql", []byte("hello world"), 0)
	id2 := fs.Add("test.ql", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("test.ql")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v want %d", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("first version lost: %q", got)
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("unknown id must yield nil")
	}
}

func TestPositionAt(t *testing.T) {
	fs := NewFileSet()
	// "é" занимает два байта, но одну колонку
	id := fs.AddVirtual("pos.ql", []byte("ab\ncé d\r\nxy"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},  // '\n' stays on line 1
		{3, 2, 1},  // 'c'
		{4, 2, 2},  // 'é'
		{6, 2, 3},  // ' '
		{7, 2, 4},  // 'd'
		{10, 3, 1}, // 'x' after CRLF
		{12, 3, 3}, // end of file
		{99, 3, 3}, // clamped
	}
	for _, c := range cases {
		p := f.PositionAt(c.off)
		if p.Line != c.line || p.Column != c.col {
			t.Errorf("PositionAt(%d) = %d:%d, want %d:%d", c.off, p.Line, p.Column, c.line, c.col)
		}
	}
	if f.Flags&FileHasCRLF == 0 {
		t.Errorf("expected FileHasCRLF flag")
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.ql", []byte("first\r\nsecond\n\nlast"))
	f := fs.Get(id)
	want := []string{"first", "second", "", "last"}
	for i, w := range want {
		if got := f.GetLine(uint32(i + 1)); got != w {
			t.Errorf("GetLine(%d) = %q, want %q", i+1, got, w)
		}
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q", got)
	}
}

func TestLoadStripsBOMKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.ql")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFx\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "x\r\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Fatalf("expected FileHadBOM")
	}
	if f.Text() != "x\r\n" {
		t.Fatalf("Text() = %q", f.Text())
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.ql")); err == nil {
		t.Fatal("expected error")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("alpha")
	b := in.Intern("beta")
	if a == b || in.Intern("alpha") != a {
		t.Fatalf("interning is not stable")
	}
	if s, ok := in.Lookup(b); !ok || s != "beta" {
		t.Fatalf("Lookup(b) = %q,%v", s, ok)
	}
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("unknown id resolved")
	}
	if in.Len() != 3 {
		t.Fatalf("Len = %d", in.Len())
	}
}

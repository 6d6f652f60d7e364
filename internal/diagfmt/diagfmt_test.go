package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/token"
)

func spanOf(f *source.File, from, to uint32) source.Span {
	return source.MustSpan(f.ID, f.PositionAt(from), f.PositionAt(to))
}

func unterminatedFixture(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte("let x = \"abc\nlet y = 2\n"))
	f := fs.Get(id)
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnterminatedString, spanOf(f, 8, 12), "unterminated string literal")
	d.Notes = append(d.Notes, diag.Note{Span: spanOf(f, 8, 9), Msg: "string starts here"})
	bag.Add(d)
	return fs, bag
}

func TestPrettyCaret(t *testing.T) {
	fs, bag := unterminatedFixture(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := strings.Join([]string{
		"test.ql:1:9: error LEX1002: unterminated string literal",
		"1 | let x = \"abc",
		"  |         ^^^^",
		"  = note: test.ql:1:9: string starts here",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunesAndTabs(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.ql", []byte("\tlet 名前 = @"))
	f := fs.Get(id)
	// "\tlet 名前 = " is 1+4+6+3 bytes.
	off := uint32(len("\tlet 名前 = "))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, spanOf(f, off, off+1), "unknown character '@'"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	caret := lines[2]
	// tab kept, "let " is 4 cells, each CJK rune is 2 cells, " = " is 3.
	if want := "  | \t" + strings.Repeat(" ", 4+4+3) + "^"; caret != want {
		t.Errorf("caret line = %q, want %q", caret, want)
	}
}

func TestPrettyZeroWidthSpanGetsOneCaret(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("z.ql", []byte("x = 1 +"))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	d := diag.New(diag.SevError, diag.SynExpectExpression, spanOf(f, 7, 7), "expected expression, got end of file")
	d.Expected = []string{"expression"}
	bag.Add(d)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowExpected: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "  |        ^\n") {
		t.Errorf("missing single caret under end of line:\n%s", out)
	}
	if !strings.Contains(out, "= expected: expression") {
		t.Errorf("missing expected line:\n%s", out)
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs, bag := unterminatedFixture(t)
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes")
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	id := fs.AddVirtual("/home/user/project/src/test.ql", []byte("@\n"))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, spanOf(f, 0, 1), "unknown character"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/src/test.ql:1:1: error LEX1001"},
		{PathModeRelative, "src/test.ql:1:1: error"},
		{PathModeBasename, "test.ql:1:1: error"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("want %q in:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"absolute": PathModeAbsolute,
		"rel":      PathModeRelative,
		"basename": PathModeBasename,
		"":         PathModeAuto,
		"bogus":    PathModeAuto,
	} {
		if got := ParsePathMode(in); got != want {
			t.Errorf("ParsePathMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SynExpectExpression})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SynExpectExpression})
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LexNonNormalizedIdent})
	var buf bytes.Buffer
	if err := Summary(&buf, bag, false); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "2 errors, 1 warning\n"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestJSONOutput(t *testing.T) {
	fs, bag := unterminatedFixture(t)
	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" || d.Kind != "LexError" {
		t.Errorf("unexpected header fields: %+v", d)
	}
	loc := d.Location
	if loc.File != "test.ql" || loc.StartByte != 8 || loc.EndByte != 12 {
		t.Errorf("location = %+v", loc)
	}
	if loc.StartLine != 1 || loc.StartCol != 9 || loc.EndCol != 13 {
		t.Errorf("positions = %+v", loc)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "string starts here" {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxAndNoPositions(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.ql", []byte("@@@"))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	for i := range uint32(3) {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, spanOf(f, i, i+1), "unknown character"))
	}
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Errorf("positions included without IncludePositions")
	}
	if out.Diagnostics[0].Notes != nil {
		t.Errorf("notes included without IncludeNotes")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.ql", []byte("let x\n"))
	f := fs.Get(id)
	toks := []token.Token{
		{Kind: token.KwLet, Span: spanOf(f, 0, 3), Text: "let"},
		{Kind: token.Ident, Span: spanOf(f, 4, 5), Text: "x", Leading: []token.Trivia{{Kind: token.TriviaSpace, Span: spanOf(f, 3, 4), Text: " "}}},
		{Kind: token.EOF, Span: spanOf(f, 6, 6)},
	}

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(pretty.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), pretty.String())
	}
	if !strings.Contains(lines[1], `"x" at 1:5-1:6 (leading: Space)`) {
		t.Errorf("ident line = %q", lines[1])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 3 || out[1].Start != 4 || out[1].Column != 5 || len(out[1].Leading) != 1 {
		t.Errorf("tokens json = %+v", out)
	}
}

func TestFormatASTTree(t *testing.T) {
	b, file, diags := parser.ParseSource("a.ql", []byte("fn add(a, b) {\n  return a + b\n}\n"), parser.Options{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, b, file); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"File [1:1-4:1]",
		"  Fn add(a, b) [1:1-3:2]",
		"    Block [1:14-3:2]",
		"      Return [2:3-2:15]",
		"        Binary + [2:10-2:15]",
		"          Ident a [2:10-2:11]",
		"          Ident b [2:14-2:15]",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("tree mismatch\n got:\n%s\nwant:\n%s", got, want)
	}

	root := BuildASTJSON(b, file)
	if root == nil || len(root.Children) != 1 || root.Children[0].Label != "Fn add(a, b)" {
		t.Fatalf("json tree = %+v", root)
	}
}

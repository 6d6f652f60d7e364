package lexer_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return out
}

func makeTestLexer(input string, opts lexer.Options) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ql", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	opts.Reporter = reporter
	return lexer.New(file, opts), reporter
}

func lexAll(t *testing.T, input string, opts lexer.Options) ([]token.Token, *testReporter) {
	t.Helper()
	lx, rep := makeTestLexer(input, opts)
	return lx.Tokens(), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, rep := lexAll(t, input, lexer.Options{})
	want = append(want, token.EOF)
	if got := kinds(toks); !slices.Equal(got, want) {
		t.Fatalf("lex %q:\n got  %v\n want %v", input, got, want)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("lex %q: unexpected diagnostics %v", input, rep.messages())
	}
	return toks
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := expectKinds(t, "fn let mut if else while return break continue true false nil and or not foo _bar x1",
		token.KwFn, token.KwLet, token.KwMut, token.KwIf, token.KwElse, token.KwWhile,
		token.KwReturn, token.KwBreak, token.KwContinue, token.KwTrue, token.KwFalse,
		token.KwNil, token.KwAnd, token.KwOr, token.KwNot,
		token.Ident, token.Ident, token.Ident)
	if toks[16].Text != "_bar" {
		t.Fatalf("ident text = %q", toks[16].Text)
	}
	// keywords are case sensitive
	expectKinds(t, "Fn LET", token.Ident, token.Ident)
}

func TestMaximalMunch(t *testing.T) {
	tests := []struct {
		in   string
		want []token.Kind
	}{
		{"==", []token.Kind{token.EqEq}},
		{"===", []token.Kind{token.EqEq, token.Assign}},
		{"<=>", []token.Kind{token.LtEq, token.Gt}},
		{"+=+", []token.Kind{token.PlusAssign, token.Plus}},
		{"->-", []token.Kind{token.Arrow, token.Minus}},
		{"!!=", []token.Kind{token.Bang, token.BangEq}},
		{"&&&", []token.Kind{token.AndAnd, token.Invalid}},
		{"a.b", []token.Kind{token.Ident, token.Dot, token.Ident}},
		{"iffy", []token.Kind{token.Ident}},
		{"123abc", []token.Kind{token.Invalid}},
	}
	for _, tt := range tests {
		toks, _ := lexAll(t, tt.in, lexer.Options{})
		want := append(slices.Clone(tt.want), token.EOF)
		if got := kinds(toks); !slices.Equal(got, want) {
			t.Errorf("%q: got %v, want %v", tt.in, got, want)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		in   string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0b1010", token.IntLit},
		{"3.14", token.FloatLit},
		{".5", token.FloatLit},
		{"1e9", token.FloatLit},
		{"2.5E-3", token.FloatLit},
	}
	for _, tt := range tests {
		toks := expectKinds(t, tt.in, tt.kind)
		if toks[0].Text != tt.in {
			t.Errorf("%q: text %q", tt.in, toks[0].Text)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"0x", "0b2", "1e", "1e+", "12abc", "1_"} {
		toks, rep := lexAll(t, in, lexer.Options{})
		if toks[0].Kind != token.Invalid || toks[0].Text != in {
			t.Errorf("%q: first token %v %q", in, toks[0].Kind, toks[0].Text)
		}
		if !slices.Contains(rep.codes(), diag.LexBadNumber) {
			t.Errorf("%q: expected LexBadNumber, got %v", in, rep.messages())
		}
	}
}

func TestIntFollowedByMember(t *testing.T) {
	expectKinds(t, "1.x", token.IntLit, token.Dot, token.Ident)
}

func TestStrings(t *testing.T) {
	toks := expectKinds(t, `"hi" "a\n\t\"b\"" "\u{1F600}"`, token.StringLit, token.StringLit, token.StringLit)
	if toks[1].Text != `"a\n\t\"b\""` {
		t.Fatalf("text = %q", toks[1].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, rep := lexAll(t, "\"abc\nx", lexer.Options{})
	if got := kinds(toks); !slices.Equal(got, []token.Kind{token.StringLit, token.Ident, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	if toks[0].Text != `"abc` {
		t.Fatalf("string text = %q", toks[0].Text)
	}
	if !slices.Equal(rep.codes(), []diag.Code{diag.LexUnterminatedString}) {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
	if toks[1].Span.Start.Line != 2 || toks[1].Span.Start.Column != 1 {
		t.Fatalf("ident position = %s", toks[1].Span.Start)
	}
}

func TestBadEscape(t *testing.T) {
	toks, rep := lexAll(t, `"a\qb" "\u{}"`, lexer.Options{})
	if toks[0].Kind != token.StringLit || toks[1].Kind != token.StringLit {
		t.Fatalf("kinds = %v", kinds(toks))
	}
	if !slices.Equal(rep.codes(), []diag.Code{diag.LexBadEscape, diag.LexBadEscape}) {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
	d := rep.diagnostics[0]
	if d.Primary.Start.Offset != 2 || d.Primary.End.Offset != 4 {
		t.Fatalf("bad escape span = %s", d.Primary)
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, rep := lexAll(t, "a @ b € c", lexer.Options{})
	want := []token.Kind{token.Ident, token.Invalid, token.Ident, token.Invalid, token.Ident, token.EOF}
	if got := kinds(toks); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v", got)
	}
	if toks[1].Text != "@" || toks[1].Span.Len() != 1 {
		t.Fatalf("@ token %q %s", toks[1].Text, toks[1].Span)
	}
	// multi-byte unknown character: one rune, one column, three bytes
	euro := toks[3]
	if euro.Text != "€" || euro.Span.Len() != 3 || euro.Span.End.Column-euro.Span.Start.Column != 1 {
		t.Fatalf("€ token %q %s", euro.Text, euro.Span)
	}
	if !slices.Equal(rep.codes(), []diag.Code{diag.LexUnknownChar, diag.LexUnknownChar}) {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
	for i, d := range rep.diagnostics {
		if d.Primary != toks[2*i+1].Span {
			t.Errorf("diagnostic %d span %s, token span %s", i, d.Primary, toks[2*i+1].Span)
		}
	}
}

func TestInvalidUTF8(t *testing.T) {
	toks, rep := lexAll(t, "a\xffb", lexer.Options{})
	if got := kinds(toks); !slices.Equal(got, []token.Kind{token.Ident, token.Invalid, token.Ident, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	if len(rep.diagnostics) != 1 {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestUnicodeIdent(t *testing.T) {
	toks := expectKinds(t, "привет = café", token.Ident, token.Assign, token.Ident)
	if toks[2].Span.Start.Column != 10 || toks[2].Span.End.Column != 14 {
		t.Fatalf("café columns %s", toks[2].Span)
	}
}

func TestNonNFCIdentWarns(t *testing.T) {
	// "e" + COMBINING ACUTE ACCENT
	toks, rep := lexAll(t, "cafe\u0301", lexer.Options{})
	if toks[0].Kind != token.Ident || toks[0].Text != "cafe\u0301" {
		t.Fatalf("token %v %q", toks[0].Kind, toks[0].Text)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexNonNormalizedIdent ||
		rep.diagnostics[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestNewlineAccounting(t *testing.T) {
	for _, nl := range []string{"\n", "\r\n"} {
		src := "a" + nl + "  b" + nl + nl + "c"
		toks, _ := lexAll(t, src, lexer.Options{})
		want := []struct{ line, col uint32 }{{1, 1}, {2, 3}, {4, 1}}
		for i, w := range want {
			p := toks[i].Span.Start
			if p.Line != w.line || p.Column != w.col {
				t.Errorf("%q token %d at %d:%d, want %d:%d", nl, i, p.Line, p.Column, w.line, w.col)
			}
		}
	}
}

func TestLoneCRIsWhitespace(t *testing.T) {
	toks := expectKinds(t, "a\rb", token.Ident, token.Ident)
	if toks[1].Span.Start.Line != 1 || toks[1].Span.Start.Column != 3 {
		t.Fatalf("b at %s", toks[1].Span.Start)
	}
	if len(toks[1].Leading) != 1 || toks[1].Leading[0].Kind != token.TriviaSpace {
		t.Fatalf("leading = %v", toks[1].Leading)
	}
}

func TestTriviaAttach(t *testing.T) {
	toks := expectKinds(t, "// doc\n  /* a /* nested */ b */ x", token.Ident)
	got := make([]token.TriviaKind, 0)
	for _, tr := range toks[0].Leading {
		got = append(got, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline, token.TriviaSpace, token.TriviaBlockComment, token.TriviaSpace}
	if !slices.Equal(got, want) {
		t.Fatalf("leading = %v, want %v", got, want)
	}
	if toks[0].Leading[3].Text != "/* a /* nested */ b */" {
		t.Fatalf("block comment text = %q", toks[0].Leading[3].Text)
	}
}

func TestTriviaEmit(t *testing.T) {
	toks, rep := lexAll(t, "a // c\nb", lexer.Options{Trivia: lexer.TriviaEmit})
	want := []token.Kind{token.Ident, token.Whitespace, token.LineComment, token.Newline, token.Ident, token.EOF}
	if got := kinds(toks); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v", got)
	}
	for _, tok := range toks {
		if len(tok.Leading) != 0 {
			t.Fatalf("emit mode attached trivia to %v", tok.Kind)
		}
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
}

func TestTriviaSkip(t *testing.T) {
	toks, _ := lexAll(t, "a /* c */\n  b", lexer.Options{Trivia: lexer.TriviaSkip})
	if got := kinds(toks); !slices.Equal(got, []token.Kind{token.Ident, token.Ident, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	if toks[1].Leading != nil {
		t.Fatalf("skip mode kept trivia")
	}
	if p := toks[1].Span.Start; p.Line != 2 || p.Column != 3 || p.Offset != 12 {
		t.Fatalf("b at %s", p)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, rep := lexAll(t, "x /* /* */", lexer.Options{})
	if got := kinds(toks); !slices.Equal(got, []token.Kind{token.Ident, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	if !slices.Equal(rep.codes(), []diag.Code{diag.LexUnterminatedBlockComment}) {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
	// trailing trivia rides on EOF
	if len(toks[1].Leading) != 2 {
		t.Fatalf("EOF leading = %v", toks[1].Leading)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("a  ", lexer.Options{})
	lx.Next()
	first := lx.Next()
	if first.Kind != token.EOF || !first.Span.Empty() {
		t.Fatalf("first EOF = %v %s", first.Kind, first.Span)
	}
	if first.Span.Start.Offset != 3 || first.Span.Start.Column != 4 {
		t.Fatalf("EOF position %s", first.Span.Start)
	}
	for range 5 {
		again := lx.Next()
		if again.Kind != first.Kind || again.Span != first.Span || len(again.Leading) != len(first.Leading) {
			t.Fatalf("EOF changed: %+v vs %+v", again, first)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	toks := expectKinds(t, "")
	if toks[0].Span != source.PointSpan(toks[0].Span.File, source.StartOfFile()) {
		t.Fatalf("EOF span %s", toks[0].Span)
	}
}

func TestMaxTokenLen(t *testing.T) {
	long := strings.Repeat("x", 20)
	toks, rep := lexAll(t, long+" y", lexer.Options{MaxTokenLen: 10})
	if toks[0].Kind != token.Ident || toks[0].Text != long {
		t.Fatalf("long ident not returned whole: %q", toks[0].Text)
	}
	if !slices.Equal(rep.codes(), []diag.Code{diag.LexTokenTooLong}) {
		t.Fatalf("diagnostics = %v", rep.messages())
	}
	// keywords are never too long
	_, rep = lexAll(t, "continue", lexer.Options{MaxTokenLen: 3})
	if len(rep.diagnostics) != 0 {
		t.Fatalf("keyword reported: %v", rep.messages())
	}
}

func TestCustomTable(t *testing.T) {
	table, err := token.DefaultTable().WithKeyword("func", token.KwFn)
	if err != nil {
		t.Fatal(err)
	}
	toks, _ := lexAll(t, "func fn", lexer.Options{Table: table})
	if got := kinds(toks); !slices.Equal(got, []token.Kind{token.KwFn, token.KwFn, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
}

func TestTokenize(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.ql", []byte("let x = 1")))
	var got []token.Kind
	for tok := range lexer.Tokenize(file, lexer.Options{}) {
		got = append(got, tok.Kind)
	}
	want := []token.Kind{token.KwLet, token.Ident, token.Assign, token.IntLit, token.EOF}
	if !slices.Equal(got, want) {
		t.Fatalf("kinds = %v", got)
	}
	// early break stops the sequence
	n := 0
	for range lexer.Tokenize(file, lexer.Options{}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("n = %d", n)
	}
}

// TestCoverage checks that token spans plus trivia spans tile the whole
// input, in order, under every trivia mode that keeps trivia.
func TestCoverage(t *testing.T) {
	inputs := []string{
		"fn main() {\n\tlet x = 1 + 2 // sum\n}\n",
		"a\r\n/* c */ b @ \"s\" 0x 1.5",
		"  ",
		"\"unterminated\n€\xff",
	}
	for _, in := range inputs {
		for _, mode := range []lexer.TriviaMode{lexer.TriviaAttach, lexer.TriviaEmit} {
			toks, _ := lexAll(t, in, lexer.Options{Trivia: mode})
			var off uint32
			var prev source.Position
			step := func(sp source.Span) {
				if sp.Start.Offset != off {
					t.Fatalf("%q/%s: gap or overlap at %d (next span %s)", in, mode, off, sp)
				}
				if sp.Start.Offset > 0 && sp.Start.Before(prev) {
					t.Fatalf("%q/%s: positions not monotonic", in, mode)
				}
				off, prev = sp.End.Offset, sp.End
			}
			for _, tok := range toks {
				for _, tr := range tok.Leading {
					step(tr.Span)
				}
				step(tok.Span)
			}
			if int(off) != len(in) {
				t.Fatalf("%q/%s: covered %d of %d bytes", in, mode, off, len(in))
			}
		}
	}
}

package diag

import (
	"testing"

	"quill/internal/source"
)

func spanAt(file source.FileID, start, end uint32) source.Span {
	return source.Span{
		File:  file,
		Start: source.NewPosition(1, start+1, start),
		End:   source.NewPosition(1, end+1, end),
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 4 {
		bag.Add(NewError(SynUnexpectedToken, spanAt(0, uint32(i), uint32(i+1)), "x"))
	}
	if bag.Len() != 2 || bag.Dropped() != 2 {
		t.Fatalf("Len=%d Dropped=%d", bag.Len(), bag.Dropped())
	}
	unbounded := NewBag(0)
	for range 100 {
		unbounded.Add(NewWarning(LexNonNormalizedIdent, spanAt(0, 0, 1), "w"))
	}
	if unbounded.Len() != 100 {
		t.Fatalf("unbounded bag kept %d", unbounded.Len())
	}
	if unbounded.HasErrors() || !unbounded.HasWarnings() {
		t.Fatalf("severity queries are wrong")
	}
}

func TestBagSortByStartPosition(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SynExpectExpression, spanAt(0, 9, 9), "c"))
	bag.Add(NewWarning(LexNonNormalizedIdent, spanAt(0, 2, 4), "b-warning"))
	bag.Add(NewError(LexUnknownChar, spanAt(0, 2, 4), "b-error"))
	bag.Add(NewError(LexUnknownChar, spanAt(0, 0, 1), "a"))
	bag.Sort()

	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	want := []string{"a", "b-error", "b-warning", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBagDedupAndFilter(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(LexUnknownChar, spanAt(0, 1, 2), "x"))
	bag.Add(NewError(LexUnknownChar, spanAt(0, 1, 2), "x again"))
	bag.Add(NewError(SynUnexpectedToken, spanAt(0, 1, 2), "y"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Dedup left %d", bag.Len())
	}
	bag.Filter(func(d Diagnostic) bool { return d.Kind() == KindSyntax })
	if bag.Len() != 1 || bag.Items()[0].Code != SynUnexpectedToken {
		t.Fatalf("Filter kept %+v", bag.Items())
	}
}

func TestCodeKindsAndIDs(t *testing.T) {
	if LexUnknownChar.Kind() != KindLex || LexUnknownChar.ID() != "LEX1001" {
		t.Fatalf("lex code misclassified")
	}
	if SynExpectExpression.Kind() != KindSyntax || SynExpectExpression.ID() != "SYN2002" {
		t.Fatalf("syntax code misclassified")
	}
	if IOLoadFileError.Kind() != KindOther {
		t.Fatalf("io code misclassified")
	}
	if Code(9999).Title() != "Unknown error" {
		t.Fatalf("unknown title")
	}
}

func TestDedupReporterAndBuilder(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := spanAt(0, 3, 4)
	b := ReportError(r, SynUnexpectedToken, sp, "unexpected ')'").
		WithExpected("Ident", "IntLit").
		WithNote(spanAt(0, 0, 1), "opened here")
	b.Emit()
	b.Emit()
	ReportError(r, SynUnexpectedToken, sp, "unexpected ')'").Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Expected) != 2 || len(d.Notes) != 1 {
		t.Fatalf("builder lost details: %+v", d)
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.ql", []byte("x = 1\ny = ?\n"))
	diags := []Diagnostic{
		NewError(LexUnknownChar, source.Span{File: id, Start: source.NewPosition(2, 5, 10), End: source.NewPosition(2, 6, 11)}, "unknown character '?'"),
		NewWarning(LexNonNormalizedIdent, source.Span{File: id, Start: source.NewPosition(1, 1, 0), End: source.NewPosition(1, 2, 1)}, "not NFC\nreally"),
	}
	got := FormatShort(diags, fs, false)
	want := "a.ql:1:1: warning LEX1007: not NFC really\n" +
		"a.ql:2:5: error LEX1001: unknown character '?'"
	if got != want {
		t.Fatalf("FormatShort:\n%s\nwant:\n%s", got, want)
	}
}

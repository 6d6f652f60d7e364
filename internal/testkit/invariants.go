// Package testkit holds invariant checkers shared by package tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"quill/internal/ast"
	"quill/internal/source"
	"quill/internal/token"
)

// CheckSpanInvariants runs the span invariants on a parsed file:
// 1) file.Span starts at 0, ends at len(content) and points at sf
// 2) every node span is contained in its parent's span
// 3) siblings are ordered: a child never starts before the previous one ends
// 4) line/column of every node boundary agree with the file's line index
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.Start.Offset != 0 || f.Span.End.Offset != lenContent {
		return fmt.Errorf("file span %s does not cover [0,%d)", f.Span, lenContent)
	}

	var firstErr error
	fail := func(format string, args ...any) {
		if firstErr == nil {
			firstErr = fmt.Errorf(format, args...)
		}
	}

	ast.Walk(b, fileID, func(n, _ ast.Node, _ int) bool {
		if firstErr != nil {
			return false
		}
		parent := b.Span(n)
		if err := checkPosition(sf, parent.Start); err != nil {
			fail("%s start: %w", b.Label(n), err)
		}
		if err := checkPosition(sf, parent.End); err != nil {
			fail("%s end: %w", b.Label(n), err)
		}
		var prevEnd uint32
		for i, c := range b.Children(n) {
			cs := b.Span(c)
			if cs.File != sf.ID {
				fail("%s span file mismatch: got=%d want=%d", b.Label(c), cs.File, sf.ID)
			}
			if !parent.Contains(cs) {
				fail("%s span %s is outside parent %s %s", b.Label(c), cs, b.Label(n), parent)
			}
			if i > 0 && cs.Start.Offset < prevEnd {
				fail("%s span %s overlaps previous sibling (ends at %d)", b.Label(c), cs, prevEnd)
			}
			prevEnd = cs.End.Offset
		}
		return true
	})
	return firstErr
}

func checkPosition(sf *source.File, p source.Position) error {
	want := sf.PositionAt(p.Offset)
	if want != p {
		return fmt.Errorf("position %s, line index says %s", p, want)
	}
	return nil
}

// CheckTokenCoverage verifies that tokens (with their leading trivia) tile
// the file exactly: no gaps, no overlaps, ending with one EOF at the end.
func CheckTokenCoverage(tokens []token.Token, sf *source.File) error {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	var off uint32
	step := func(sp source.Span, what string) error {
		if sp.Start.Offset != off {
			return fmt.Errorf("%s at %s: expected start offset %d", what, sp, off)
		}
		if err := checkPosition(sf, sp.Start); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		off = sp.End.Offset
		return nil
	}
	for i, tok := range tokens {
		if tok.Kind == token.EOF && i != len(tokens)-1 {
			return fmt.Errorf("EOF before end of stream at index %d", i)
		}
		for _, tr := range tok.Leading {
			if err := step(tr.Span, "trivia "+tr.Kind.String()); err != nil {
				return err
			}
		}
		if err := step(tok.Span, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != string(sf.Content[tok.Span.Start.Offset:tok.Span.End.Offset]) {
			return fmt.Errorf("%s text %q does not match source", tok.Kind, tok.Text)
		}
	}
	if int(off) != len(sf.Content) {
		return fmt.Errorf("covered %d of %d bytes", off, len(sf.Content))
	}
	return nil
}

package parser

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// parserReporter routes lexer and parser diagnostics through the error limit.
type parserReporter struct{ p *Parser }

func (r parserReporter) Report(d diag.Diagnostic) {
	r.p.emit(d)
}

func (p *Parser) emit(d diag.Diagnostic) {
	if p.muted || (p.quiet > 0 && d.Code.Kind() == diag.KindSyntax) {
		return
	}
	if d.Severity == diag.SevError {
		p.errors++
		if p.opts.MaxErrors > 0 && p.errors > p.opts.MaxErrors {
			p.muted = true
			d = diag.NewError(diag.SynTooManyErrors, d.Primary,
				fmt.Sprintf("too many errors (limit %d), further diagnostics suppressed", p.opts.MaxErrors))
		}
	}
	p.bag.Add(d)
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d)
	}
}

// advance: съедает текущий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.ts.Advance()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// errorAt reports a syntax error at sp.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(parserReporter{p}, diag.SevError, code, sp, msg)
}

// lexReported: текущий токен уже отрепорчен лексером, второй диагностики не нужно.
func (p *Parser) lexReported() bool {
	return p.peek().Kind == token.Invalid
}

// unexpected reports the current token as not being one of expected.
func (p *Parser) unexpected(code diag.Code, what string, expected ...token.Kind) {
	if p.lexReported() {
		return
	}
	tok := p.peek()
	names := make([]string, 0, len(expected))
	for _, k := range expected {
		names = append(names, k.Describe())
	}
	b := p.errorAt(code, tok.Span, fmt.Sprintf("expected %s, got %s", what, tok.Describe()))
	b.WithExpected(names...).Emit()
}

// expect: ожидаем конкретный токен. Если нет - репортим и возвращаем (текущий, false).
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.unexpected(code, k.Describe(), k)
	return p.peek(), false
}

// unclosed reports a missing closer for the bracket opened by open.
// When the offending token starts the next line, the error points at the
// end of the line that left the bracket open.
func (p *Parser) unclosed(code diag.Code, open token.Token, closer token.Kind) {
	if p.lexReported() {
		return
	}
	tok := p.peek()
	at := tok.Span
	if tok.Kind != token.EOF && hasLeadingNewline(tok) {
		at = p.lastSpan.ZeroAtEnd()
	}
	p.errorAt(code, at, fmt.Sprintf("expected %s to close %s, got %s", closer.Describe(), open.Describe(), tok.Describe())).
		WithExpected(closer.Describe()).
		WithNote(open.Span, "opened here").
		Emit()
}

// cover joins spans of nodes and tokens in source order.
func cover(first source.Span, rest ...source.Span) source.Span {
	sp := first
	for _, r := range rest {
		sp = sp.Cover(r)
	}
	return sp
}

// withExprs widens sp to cover the given expressions (placeholders may sit
// past the last consumed token).
func (p *Parser) withExprs(sp source.Span, ids ...ast.ExprID) source.Span {
	for _, id := range ids {
		if e := p.arenas.Exprs.Get(id); e != nil {
			sp = sp.Cover(e.Span)
		}
	}
	return sp
}

func (p *Parser) withStmts(sp source.Span, ids ...ast.StmtID) source.Span {
	for _, id := range ids {
		if st := p.arenas.Stmts.Get(id); st != nil {
			sp = sp.Cover(st.Span)
		}
	}
	return sp
}

// untilLast spans from start up to the end of the last consumed token.
func (p *Parser) untilLast(start source.Span) source.Span {
	if p.lastSpan.End.Offset < start.Start.Offset {
		return start
	}
	return start.Cover(p.lastSpan)
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.StringsInterner.Intern(s)
}

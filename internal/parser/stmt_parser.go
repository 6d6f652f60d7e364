package parser

import (
	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/token"
)

// parseStmt parses one statement and an optional trailing ';'. Another
// statement on the same line without ';' is an error.
// On failure it still returns a node (possibly StmtError) and ok=false;
// the caller resynchronises with resyncStmt / resyncTop.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	var (
		stmt ast.StmtID
		ok   bool
	)
	switch p.peek().Kind {
	case token.KwLet:
		stmt, ok = p.parseLetStmt()
	case token.KwIf:
		stmt, ok = p.parseIfStmt()
	case token.KwWhile:
		stmt, ok = p.parseWhileStmt()
	case token.KwReturn:
		stmt, ok = p.parseReturnStmt()
	case token.KwBreak:
		tok := p.advance()
		stmt, ok = p.arenas.Stmts.NewBreak(tok.Span), true
	case token.KwContinue:
		tok := p.advance()
		stmt, ok = p.arenas.Stmts.NewContinue(tok.Span), true
	case token.LBrace:
		stmt, ok = p.parseBlock()
	case token.KwFn:
		stmt, ok = p.parseNestedFn()
	default:
		stmt, ok = p.parseExprStmt()
	}
	if ok {
		ok = p.endStmt()
	}
	return stmt, ok
}

// endStmt consumes the ';' after a statement, or checks that nothing else
// follows on the same line.
func (p *Parser) endStmt() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	tok := p.peek()
	if tok.Kind == token.EOF || tok.Kind == token.RBrace || hasLeadingNewline(tok) {
		return true
	}
	p.unexpected(diag.SynUnexpectedToken, "';' or line break after statement", token.Semicolon)
	return false
}

// parseBlock: "{" { stmt } "}".
// Inside, a failed statement resyncs to ';', '}', a statement starter or EOF.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open := p.advance()
	stmts := make([]ast.StmtID, 0, 8)

	for !p.atOr(token.RBrace, token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		start := p.peek().Span.Start.Offset
		stmt, ok := p.parseStmt()
		stmts = append(stmts, stmt)
		if !ok {
			p.resyncStmt()
		}
		p.ensureProgress(start)
	}

	ok := true
	if p.at(token.RBrace) {
		p.advance()
	} else {
		p.unclosed(diag.SynUnclosedBrace, open, token.RBrace)
		ok = false
	}
	return p.arenas.Stmts.NewBlock(p.withStmts(p.untilLast(open.Span), stmts...), stmts), ok
}

// parseBlockOrError parses a block where one is required; otherwise it
// reports SynExpectBlock and returns a zero-width StmtError at the current token.
func (p *Parser) parseBlockOrError(after string) (ast.StmtID, bool) {
	if p.at(token.LBrace) {
		return p.parseBlock()
	}
	tok := p.peek()
	if !p.lexReported() {
		p.errorAt(diag.SynExpectBlock, tok.Span, "expected '{' "+after+", got "+tok.Describe()).
			WithExpected(token.LBrace.Describe()).
			Emit()
	}
	return p.arenas.Stmts.NewError(tok.Span.ZeroAtStart()), false
}

// parseLetStmt: "let" ["mut"] IDENT [ "=" expr ].
func (p *Parser) parseLetStmt() (ast.StmtID, bool) {
	letTok := p.advance()
	mut := false
	if p.at(token.KwMut) {
		p.advance()
		mut = true
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return p.arenas.Stmts.NewError(p.untilLast(letTok.Span)), false
	}
	name := p.intern(nameTok.Text)

	value := ast.NoExprID
	valueOK := true
	if p.at(token.Assign) {
		p.advance()
		value, valueOK = p.parseExpr()
	}
	sp := p.untilLast(letTok.Span)
	if value.IsValid() {
		sp = sp.Cover(p.arenas.Exprs.Get(value).Span)
	}
	return p.arenas.Stmts.NewLet(sp, name, nameTok.Span, mut, value), valueOK
}

// parseExprStmt: expr. The statement keeps whatever expression tree was
// built, placeholders included.
func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExpr()
	sp := p.arenas.Exprs.Get(expr).Span
	return p.arenas.Stmts.NewExpr(sp, expr), ok
}

// parseNestedFn: функции объявляются только на верхнем уровне. With a name
// after 'fn' the declaration is parsed (and dropped) so the block stays in
// sync; otherwise 'fn' alone is skipped.
func (p *Parser) parseNestedFn() (ast.StmtID, bool) {
	fnTok := p.peek()
	p.errorAt(diag.SynUnexpectedToken, fnTok.Span, "function declarations are only allowed at top level").Emit()
	if p.peekNext().Kind != token.Ident {
		p.advance()
		return p.arenas.Stmts.NewError(fnTok.Span), false
	}
	p.quiet++ // одна диагностика на всю вложенную функцию
	item, ok := p.parseFnItem()
	p.quiet--
	return p.arenas.Stmts.NewError(p.arenas.Items.Get(item).Span), ok
}

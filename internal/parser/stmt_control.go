package parser

import (
	"quill/internal/ast"
	"quill/internal/token"
)

// parseIfStmt: "if" expr block [ "else" ( ifStmt | block ) ].
// A broken condition is skipped up to the '{' of the body.
func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	ifTok := p.advance()
	cond, then, ok := p.parseCondAndBody("after if condition")

	els := ast.NoStmtID
	if ok && p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			els, ok = p.parseIfStmt()
		} else {
			els, ok = p.parseBlockOrError("after 'else'")
		}
	}

	sp := p.withStmts(p.withExprs(p.untilLast(ifTok.Span), cond), then, els)
	return p.arenas.Stmts.NewIf(sp, cond, then, els), ok
}

// parseWhileStmt: "while" expr block.
func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	whileTok := p.advance()
	cond, body, ok := p.parseCondAndBody("after while condition")
	sp := p.withStmts(p.withExprs(p.untilLast(whileTok.Span), cond), body)
	return p.arenas.Stmts.NewWhile(sp, cond, body), ok
}

// parseCondAndBody parses `expr block`. When the condition fails, the rest
// of it is skipped to '{'; if no '{' follows, the missing body is not
// reported a second time.
func (p *Parser) parseCondAndBody(after string) (ast.ExprID, ast.StmtID, bool) {
	cond, ok := p.parseExpr()
	if !ok {
		p.skipToBlock()
		if !p.at(token.LBrace) {
			return cond, p.arenas.Stmts.NewError(p.peek().Span.ZeroAtStart()), false
		}
	}
	body, bodyOK := p.parseBlockOrError(after)
	return cond, body, bodyOK
}

// parseReturnStmt: "return" [ expr ]. The value must start on the same
// line as 'return'; a line break ends a bare return.
func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	retTok := p.advance()
	next := p.peek()
	if !canStartExpr(next.Kind) || hasLeadingNewline(next) {
		return p.arenas.Stmts.NewReturn(retTok.Span, ast.NoExprID), true
	}
	value, ok := p.parseExpr()
	sp := retTok.Span.Cover(p.arenas.Exprs.Get(value).Span)
	return p.arenas.Stmts.NewReturn(sp, value), ok
}

// skipToBlock skips a broken condition up to its '{' without leaving the
// statement or its line.
func (p *Parser) skipToBlock() {
	for !p.at(token.Semicolon) && !isBoundary(p.peek().Kind) && !startsLine(p.peek()) {
		p.advance()
	}
}

func hasLeadingNewline(tok token.Token) bool {
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaNewline {
			return true
		}
	}
	return false
}

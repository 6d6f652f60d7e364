package parser

import (
	"quill/internal/token"
)

// Synchronisation sets. Recovery always stops at EOF.

// isStmtStarter reports tokens that can only begin a new statement or item.
func isStmtStarter(k token.Kind) bool {
	switch k {
	case token.KwLet, token.KwIf, token.KwWhile, token.KwReturn,
		token.KwBreak, token.KwContinue, token.KwFn, token.LBrace:
		return true
	default:
		return false
	}
}

// isBoundary is the statement-level stop set without ';'.
func isBoundary(k token.Kind) bool {
	return k == token.EOF || k == token.RBrace || isStmtStarter(k)
}

// startsLine reports a token on a new line that can begin a statement.
// Without ';' a line break is the only thing separating statements.
func startsLine(tok token.Token) bool {
	return hasLeadingNewline(tok) && (isStmtStarter(tok.Kind) || canStartExpr(tok.Kind))
}

// resyncStmt: восстановление внутри блока: skip to ';' (consumed),
// '}' (left for the block), a statement starter, a token that starts
// a new line, or EOF.
func (p *Parser) resyncStmt() {
	for {
		tok := p.peek()
		if tok.Kind == token.Semicolon {
			p.advance()
			return
		}
		if isBoundary(tok.Kind) || startsLine(tok) {
			return
		}
		p.advance()
	}
}

// resyncTop: восстановление на верхнем уровне. Same set as resyncStmt;
// a '}' stopped at here is consumed and reported by the item loop.
func (p *Parser) resyncTop() {
	p.resyncStmt()
}

// resyncList skips to the separator or the closer of a delimited list
// (',' or closer), without crossing a statement boundary, ';' or the
// start of a new statement line.
// Bracketed groups inside the skipped region are skipped whole.
// It reports whether it stopped on one of the list tokens.
func (p *Parser) resyncList(closer token.Kind) bool {
	depth := 0
	for {
		tok := p.peek()
		k := tok.Kind
		switch {
		case k == token.Semicolon || isBoundary(k) || (depth == 0 && startsLine(tok)):
			return false
		case depth == 0 && (k == token.Comma || k == closer):
			return true
		case k == token.LParen || k == token.LBracket:
			depth++
		case (k == token.RParen || k == token.RBracket) && depth > 0:
			depth--
		}
		p.advance()
	}
}

// resyncClose skips to closer (index expressions: ']') without crossing a
// statement boundary or the start of a new statement line, and consumes
// it if found.
func (p *Parser) resyncClose(closer token.Kind) bool {
	depth := 0
	for {
		tok := p.peek()
		k := tok.Kind
		switch {
		case k == token.Semicolon || isBoundary(k) || (depth == 0 && startsLine(tok)):
			return false
		case depth == 0 && k == closer:
			p.advance()
			return true
		case k == token.LParen || k == token.LBracket:
			depth++
		case (k == token.RParen || k == token.RBracket) && depth > 0:
			depth--
		}
		p.advance()
	}
}

package parser

import (
	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// parsePostfixExpr: primary { "(" args ")" | "[" expr "]" | "." IDENT }
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return expr, false
	}

	for {
		switch p.peek().Kind {
		case token.LParen:
			expr, ok = p.parseCallSuffix(expr)
		case token.LBracket:
			expr, ok = p.parseIndexSuffix(expr)
		case token.Dot:
			expr, ok = p.parseMemberSuffix(expr)
		default:
			return expr, true
		}
		if !ok {
			return expr, false
		}
	}
}

// parseCallSuffix: "(" [ expr { "," expr } [","] ] ")".
// Sync for a bad argument: the next ',' or ')' at the same nesting.
func (p *Parser) parseCallSuffix(callee ast.ExprID) (ast.ExprID, bool) {
	calleeSpan := p.arenas.Exprs.Get(callee).Span
	open := p.advance()
	args := make([]ast.ExprID, 0, 4)
	ok := true

	for !p.at(token.RParen) {
		arg, argOK := p.parseExpr()
		args = append(args, arg)
		if argOK && !p.atOr(token.Comma, token.RParen) {
			p.unexpected(diag.SynUnclosedParen, "',' or ')' in argument list", token.Comma, token.RParen)
			argOK = false
		}
		if !argOK && !p.resyncList(token.RParen) {
			ok = false
			break
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
	if ok {
		p.advance() // ')'
	}
	sp := p.withExprs(cover(calleeSpan, p.untilLast(open.Span)), args...)
	return p.arenas.Exprs.NewCall(sp, callee, args), ok
}

// parseIndexSuffix: "[" expr "]". Sync: ']' within the statement.
func (p *Parser) parseIndexSuffix(target ast.ExprID) (ast.ExprID, bool) {
	targetSpan := p.arenas.Exprs.Get(target).Span
	open := p.advance()
	index, ok := p.parseExpr()
	if ok && !p.at(token.RBracket) {
		p.unclosed(diag.SynUnclosedBracket, open, token.RBracket)
		ok = false
	}
	if ok {
		p.advance()
	} else {
		ok = p.resyncClose(token.RBracket)
	}
	sp := p.withExprs(cover(targetSpan, p.untilLast(open.Span)), index)
	return p.arenas.Exprs.NewIndex(sp, target, index), ok
}

// parseMemberSuffix: "." IDENT. A missing name leaves an unnamed member
// node and fails without consuming anything else.
func (p *Parser) parseMemberSuffix(target ast.ExprID) (ast.ExprID, bool) {
	targetSpan := p.arenas.Exprs.Get(target).Span
	dot := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		sp := targetSpan.Cover(dot.Span)
		return p.arenas.Exprs.NewMember(sp, target, source.NoStringID, dot.Span.ZeroAtEnd()), false
	}
	sp := cover(targetSpan, dot.Span, name.Span)
	return p.arenas.Exprs.NewMember(sp, target, p.intern(name.Text), name.Span), true
}

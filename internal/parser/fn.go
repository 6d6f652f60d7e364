package parser

import (
	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// parseFnItem: "fn" IDENT "(" [ IDENT { "," IDENT } [","] ] ")" block.
// Without a name or '(' the item becomes ItemError and the caller resyncs.
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	fnTok := p.advance()

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	name, nameSpan := source.NoStringID, fnTok.Span.ZeroAtEnd()
	if ok {
		name, nameSpan = p.intern(nameTok.Text), nameTok.Span
	} else if !p.at(token.LParen) {
		return p.arenas.Items.NewError(p.untilLast(fnTok.Span)), false
	}

	if !p.at(token.LParen) {
		p.unexpected(diag.SynUnexpectedToken, "'(' after function name", token.LParen)
		return p.arenas.Items.NewError(p.untilLast(fnTok.Span)), false
	}
	params, paramsOK := p.parseFnParams()
	if !paramsOK && !p.at(token.LBrace) {
		return p.arenas.Items.NewError(p.untilLast(fnTok.Span)), false
	}

	body, bodyOK := p.parseBlockOrError("to start function body")
	sp := p.withStmts(p.untilLast(fnTok.Span), body)
	// после тела мы снова синхронизированы, даже если имя или параметры были сломаны
	return p.arenas.Items.NewFn(sp, name, nameSpan, params, body), bodyOK
}

// parseFnParams: "(" [ IDENT { "," IDENT } [","] ] ")".
// Sync for a bad parameter: the next ',' or ')'.
func (p *Parser) parseFnParams() ([]ast.FnParam, bool) {
	p.advance() // '('
	params := make([]ast.FnParam, 0, 4)

	for !p.at(token.RParen) {
		if p.at(token.Ident) {
			tok := p.advance()
			params = append(params, ast.FnParam{Name: p.intern(tok.Text), Span: tok.Span})
			if p.atOr(token.Comma, token.RParen) {
				if p.at(token.Comma) {
					p.advance()
				}
				continue
			}
			p.unexpected(diag.SynUnclosedParen, "',' or ')' in parameter list", token.Comma, token.RParen)
		} else {
			p.unexpected(diag.SynExpectIdentifier, "parameter name", token.Ident)
		}
		if !p.resyncList(token.RParen) {
			return params, false
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.advance() // ')'
	return params, true
}

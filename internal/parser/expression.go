package parser

import (
	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// Expression rules return (id, ok). id is always a node, an ExprError
// placeholder when nothing could be parsed. ok is false when an error was
// reported inside; callers then resynchronise.

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precAssignment)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return left, false
	}

	for {
		info, isOp := getBinaryOperator(p.peek().Kind)
		if !isOp || info.prec < minPrec {
			return left, true
		}
		opTok := p.advance()

		if info.op.IsAssign() {
			p.checkAssignTarget(left, opTok)
		}

		nextMinPrec := info.prec + 1
		if info.rightAssoc {
			nextMinPrec = info.prec
		}
		right, rightOK := p.parseBinaryExpr(nextMinPrec)

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.Exprs.NewBinary(cover(leftSpan, opTok.Span, rightSpan), info.op, left, right)
		if !rightOK {
			return left, false
		}
	}
}

// checkAssignTarget: слева от присваивания - только ident, index, member
// (possibly parenthesised). Reported, but the node is still built.
func (p *Parser) checkAssignTarget(target ast.ExprID, opTok token.Token) {
	expr := p.arenas.Exprs.Get(target)
	for expr.Kind == ast.ExprGroup {
		g, _ := p.arenas.Exprs.Group(target)
		target = g.Inner
		expr = p.arenas.Exprs.Get(target)
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprIndex, ast.ExprMember, ast.ExprError:
		return
	}
	p.errorAt(diag.SynInvalidAssignTarget, expr.Span, "invalid left-hand side of '"+opTok.Text+"'").
		WithNote(opTok.Span, "assignment operator here").
		Emit()
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	type prefixOp struct {
		op   ast.ExprUnaryOp
		span source.Span
	}
	var prefixes []prefixOp
	for {
		op, ok := getUnaryOperator(p.peek().Kind)
		if !ok {
			break
		}
		opTok := p.advance()
		prefixes = append(prefixes, prefixOp{op: op, span: opTok.Span})
	}

	expr, ok := p.parsePostfixExpr()

	// Применяем префиксы справа налево
	for i := len(prefixes) - 1; i >= 0; i-- {
		exprSpan := p.arenas.Exprs.Get(expr).Span
		expr = p.arenas.Exprs.NewUnary(prefixes[i].span.Cover(exprSpan), prefixes[i].op, expr)
	}
	return expr, ok
}

// parsePrimaryExpr: IDENT | literal | true | false | nil | "(" expr ")".
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text)), true
	case token.IntLit:
		return p.literal(ast.ExprLitInt), true
	case token.FloatLit:
		return p.literal(ast.ExprLitFloat), true
	case token.StringLit:
		return p.literal(ast.ExprLitString), true
	case token.KwTrue:
		return p.literal(ast.ExprLitTrue), true
	case token.KwFalse:
		return p.literal(ast.ExprLitFalse), true
	case token.KwNil:
		return p.literal(ast.ExprLitNil), true
	case token.LParen:
		return p.parseGroupExpr()
	case token.Invalid:
		// лексер уже сообщил об ошибке; второй диагностики не нужно
		p.advance()
		return p.arenas.Exprs.NewError(tok.Span), true
	}

	p.errorAt(diag.SynExpectExpression, tok.Span, "expected expression, got "+tok.Describe()).
		WithExpected("expression").
		Emit()
	return p.arenas.Exprs.NewError(tok.Span.ZeroAtStart()), false
}

func (p *Parser) literal(kind ast.ExprLitKind) ast.ExprID {
	tok := p.advance()
	return p.arenas.Exprs.NewLiteral(tok.Span, kind, p.intern(tok.Text))
}

// parseGroupExpr: "(" expr ")". Sync on failure: ')' within the statement.
func (p *Parser) parseGroupExpr() (ast.ExprID, bool) {
	open := p.advance()
	inner, ok := p.parseExpr()
	if ok && !p.at(token.RParen) {
		p.unclosed(diag.SynUnclosedParen, open, token.RParen)
		ok = false
	}
	if ok {
		p.advance()
	} else {
		ok = p.resyncClose(token.RParen)
	}
	return p.arenas.Exprs.NewGroup(p.withExprs(p.untilLast(open.Span), inner), inner), ok
}

package parser

import (
	"quill/internal/ast"
	"quill/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precAssignment     = 1 // = += -= *= /= %=
	precLogicalOr      = 2 // || or
	precLogicalAnd     = 3 // && and
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

// binaryOp describes a binary operator token: precedence, associativity
// and the AST operator it builds.
type binaryOp struct {
	prec       int
	rightAssoc bool
	op         ast.ExprBinaryOp
}

var binaryOps = map[token.Kind]binaryOp{
	token.Assign:        {precAssignment, true, ast.ExprBinaryAssign},
	token.PlusAssign:    {precAssignment, true, ast.ExprBinaryAddAssign},
	token.MinusAssign:   {precAssignment, true, ast.ExprBinarySubAssign},
	token.StarAssign:    {precAssignment, true, ast.ExprBinaryMulAssign},
	token.SlashAssign:   {precAssignment, true, ast.ExprBinaryDivAssign},
	token.PercentAssign: {precAssignment, true, ast.ExprBinaryModAssign},

	token.OrOr:   {precLogicalOr, false, ast.ExprBinaryLogicalOr},
	token.KwOr:   {precLogicalOr, false, ast.ExprBinaryLogicalOr},
	token.AndAnd: {precLogicalAnd, false, ast.ExprBinaryLogicalAnd},
	token.KwAnd:  {precLogicalAnd, false, ast.ExprBinaryLogicalAnd},

	token.EqEq:   {precEquality, false, ast.ExprBinaryEq},
	token.BangEq: {precEquality, false, ast.ExprBinaryNotEq},

	token.Lt:   {precComparison, false, ast.ExprBinaryLess},
	token.LtEq: {precComparison, false, ast.ExprBinaryLessEq},
	token.Gt:   {precComparison, false, ast.ExprBinaryGreater},
	token.GtEq: {precComparison, false, ast.ExprBinaryGreaterEq},

	token.Plus:  {precAdditive, false, ast.ExprBinaryAdd},
	token.Minus: {precAdditive, false, ast.ExprBinarySub},

	token.Star:    {precMultiplicative, false, ast.ExprBinaryMul},
	token.Slash:   {precMultiplicative, false, ast.ExprBinaryDiv},
	token.Percent: {precMultiplicative, false, ast.ExprBinaryMod},
}

// getBinaryOperator returns the operator for kind; ok is false for
// tokens that do not continue an expression.
func getBinaryOperator(kind token.Kind) (binaryOp, bool) {
	op, ok := binaryOps[kind]
	return op, ok
}

func getUnaryOperator(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.ExprUnaryNeg, true
	case token.Bang, token.KwNot:
		return ast.ExprUnaryNot, true
	default:
		return 0, false
	}
}

// canStartExpr reports whether k can begin an expression.
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNil,
		token.LParen, token.Minus, token.Bang, token.KwNot, token.Invalid:
		return true
	default:
		return false
	}
}

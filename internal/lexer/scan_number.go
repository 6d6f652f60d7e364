package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanNumber scans integer and float literals:
//
//	0x1F, 0b1010, 1_000, 3.14, .5, 1e9, 2.5E-3
//
// "_" separators are allowed between digits. A malformed literal (missing
// digits after a prefix or an exponent, letters glued to the digits) is still
// consumed as one lexeme and returned as an Invalid token with LexBadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	bad := ""

	switch {
	case lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		if lx.digits(isHex) == 0 {
			bad = "hexadecimal literal has no digits"
		}
	case lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'b' || lx.cursor.PeekAt(1) == 'B'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		if lx.digits(isBin) == 0 {
			bad = "binary literal has no digits"
		}
	default:
		lx.digits(isDec)
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			lx.digits(isDec)
			kind = token.FloatLit
		}
		if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
			lx.cursor.Bump()
			if s := lx.cursor.Peek(); s == '+' || s == '-' {
				lx.cursor.Bump()
			}
			if lx.digits(isDec) == 0 {
				bad = "exponent has no digits"
			}
			kind = token.FloatLit
		}
	}

	// буквы, приклеенные к числу, съедаем целиком: "12abc", "0x1g"
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if bad == "" {
			bad = "invalid character in numeric literal"
		}
	}

	tok := lx.makeToken(kind, start)
	if bad != "" {
		tok.Kind = token.Invalid
		lx.errLex(diag.LexBadNumber, tok.Span, bad)
		return tok
	}
	if tok.Text[len(tok.Text)-1] == '_' {
		tok.Kind = token.Invalid
		lx.errLex(diag.LexBadNumber, tok.Span, "numeric literal ends with '_'")
		return tok
	}
	lx.checkTokenLen(tok)
	return tok
}

// digits consumes digits accepted by ok plus '_' separators and returns the
// number of real digits.
func (lx *Lexer) digits(ok func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case ok(b):
			n++
		case b == '_' && n > 0:
		default:
			return n
		}
		lx.cursor.Bump()
	}
}

package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// scanString scans a double-quoted literal. Strings do not span lines:
// a newline or EOF before the closing quote reports LexUnterminatedString
// and the token ends right before the newline.
// Escapes: \n \t \r \0 \\ \" \' and \u{1-6 hex digits}.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for {
		if lx.cursor.EOF() || lx.cursor.AtNewline() {
			tok := lx.makeToken(token.StringLit, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
			return tok
		}
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			tok := lx.makeToken(token.StringLit, start)
			lx.checkTokenLen(tok)
			return tok
		case '\\':
			lx.scanEscape()
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if lx.cursor.EOF() || lx.cursor.AtNewline() {
		return // unterminated, reported by the caller
	}
	switch lx.cursor.Peek() {
	case 'n', 't', 'r', '0', '\\', '"', '\'':
		lx.cursor.Bump()
	case 'u':
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			lx.badEscape(start, "expected '{' after \\u")
			return
		}
		n := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			n++
		}
		if n == 0 || n > 6 || !lx.cursor.Eat('}') {
			lx.badEscape(start, "unicode escape must be \\u{1-6 hex digits}")
		}
	default:
		lx.cursor.Bump()
		lx.badEscape(start, "unknown escape sequence")
	}
}

func (lx *Lexer) badEscape(start source.Position, msg string) {
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), msg)
}

package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// In TriviaSkip mode the runs are scanned the same way and then dropped.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for {
		tr, ok := lx.scanTrivia()
		if !ok {
			return
		}
		if lx.opts.Trivia == TriviaAttach {
			lx.hold = append(lx.hold, tr)
		}
	}
}

// scanTrivia scans one trivia run:
//   - spaces, tabs, form feeds and lone '\r' coalesce into TriviaSpace
//   - consecutive newlines ("\n" or "\r\n") coalesce into TriviaNewline
//   - "//..." up to the newline is TriviaLineComment
//   - "/* ... */" (nestable) is TriviaBlockComment; unterminated ones run to EOF
func (lx *Lexer) scanTrivia() (token.Trivia, bool) {
	if lx.cursor.EOF() {
		return token.Trivia{}, false
	}
	start := lx.cursor.Mark()
	var kind token.TriviaKind

	switch b := lx.cursor.Peek(); {
	case isSpaceByte(b) && !lx.cursor.AtNewline():
		for isSpaceByte(lx.cursor.Peek()) && !lx.cursor.AtNewline() {
			lx.cursor.Bump()
		}
		kind = token.TriviaSpace
	case lx.cursor.AtNewline():
		for lx.cursor.AtNewline() {
			lx.cursor.Bump()
		}
		kind = token.TriviaNewline
	case b == '/' && lx.cursor.PeekAt(1) == '/':
		for !lx.cursor.EOF() && !lx.cursor.AtNewline() {
			lx.cursor.Bump()
		}
		kind = token.TriviaLineComment
	case b == '/' && lx.cursor.PeekAt(1) == '*':
		lx.scanBlockComment()
		kind = token.TriviaBlockComment
	default:
		return token.Trivia{}, false
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: lx.cursor.Slice(sp)}, true
}

func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
		switch {
		case b0 == '/' && b1 == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case b0 == '*' && b1 == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
}

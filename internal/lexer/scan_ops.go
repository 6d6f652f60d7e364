package lexer

import (
	"fmt"

	"quill/internal/diag"
	"quill/internal/token"
)

// scanOperatorOrPunct is the fallback of Next: maximal munch over the
// operator table. Anything else is one unknown character: an Invalid token
// spanning exactly that rune, plus LexUnknownChar.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	if op, ok := lx.table.MatchOperator(lx.cursor.Rest()); ok {
		for range len(op.Text) {
			lx.cursor.Bump()
		}
		return lx.makeToken(op.Kind, start)
	}

	r := lx.cursor.Bump()
	tok := lx.makeToken(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", r))
	return tok
}

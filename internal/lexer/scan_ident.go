package lexer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"quill/internal/diag"
	"quill/internal/token"
)

// scanIdentOrKeyword scans [A-Za-z_\p{L}][A-Za-z0-9_\p{L}\p{Nd}\p{M}]* and
// resolves keywords through the grammar table.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.cursor.PeekRune()
		if r == utf8.RuneError || !isIdentContinueRune(r) {
			break
		}
		lx.cursor.Bump()
	}

	tok := lx.makeToken(token.Ident, start)
	if kw, ok := lx.table.LookupKeyword(tok.Text); ok {
		tok.Kind = kw
		return tok
	}
	lx.checkTokenLen(tok)
	if !norm.NFC.IsNormalString(tok.Text) {
		diag.ReportWarning(lx.opts.Reporter, diag.LexNonNormalizedIdent, tok.Span,
			"identifier is not in Unicode NFC form").
			WithNote(tok.Span, "normalized spelling: "+norm.NFC.String(tok.Text)).
			Emit()
	}
	return tok
}

// checkTokenLen reports identifiers and literals longer than MaxTokenLen.
// The token itself is kept whole.
func (lx *Lexer) checkTokenLen(tok token.Token) {
	if lx.opts.MaxTokenLen <= 0 || len(tok.Text) <= lx.opts.MaxTokenLen {
		return
	}
	lx.errLex(diag.LexTokenTooLong, tok.Span, "token is too long")
}

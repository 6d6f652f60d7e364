package lexer

import (
	"iter"

	"quill/internal/source"
	"quill/internal/token"
)

// Lexer turns one source file into tokens, one Next call at a time.
// A Lexer is single-use and not safe for concurrent use; lex distinct files
// with distinct lexers.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	table  *token.Table
	hold   []token.Trivia // накопленные leading trivia
	eof    *token.Token   // sticky EOF sentinel
}

func New(file *source.File, opts Options) *Lexer {
	table := opts.Table
	if table == nil {
		table = token.DefaultTable()
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		table:  table,
	}
}

// Next returns the next token. Depending on Options.Trivia, whitespace and
// comments are attached as Leading, returned as tokens, or dropped.
// After end of input every call returns the same EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.eof != nil {
		return *lx.eof
	}

	if lx.opts.Trivia == TriviaEmit {
		if tr, ok := lx.scanTrivia(); ok {
			return token.Token{Kind: tr.Kind.TokenKind(), Span: tr.Span, Text: tr.Text}
		}
	} else {
		lx.collectLeadingTrivia()
	}

	if lx.cursor.EOF() {
		eof := token.Token{
			Kind:    token.EOF,
			Span:    lx.EmptySpan(),
			Leading: lx.takeLeading(),
		}
		lx.eof = &eof
		return eof
	}

	var tok token.Token
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf && lx.atIdentStartRune():
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.takeLeading()
	return tok
}

// Tokens returns every remaining token up to and including EOF.
func (lx *Lexer) Tokens() []token.Token {
	var out []token.Token
	for tok := range lx.All() {
		out = append(out, tok)
	}
	return out
}

// All streams the remaining tokens; the sequence ends after EOF.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Tokenize lexes file from the start. The sequence is restartable only by
// calling Tokenize again.
func Tokenize(file *source.File, opts Options) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		New(file, opts).All()(yield)
	}
}

// Pos returns the current cursor position.
func (lx *Lexer) Pos() source.Position {
	return lx.cursor.Pos()
}

// EmptySpan returns a zero-width span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.PointSpan(lx.file.ID, lx.cursor.Pos())
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

func (lx *Lexer) takeLeading() []token.Trivia {
	if len(lx.hold) == 0 || lx.opts.Trivia != TriviaAttach {
		lx.hold = lx.hold[:0]
		return nil
	}
	out := make([]token.Trivia, len(lx.hold))
	copy(out, lx.hold)
	lx.hold = lx.hold[:0]
	return out
}

func (lx *Lexer) makeToken(kind token.Kind, start source.Position) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.cursor.Slice(sp)}
}

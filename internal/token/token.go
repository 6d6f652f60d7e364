package token

import (
	"quill/internal/source"
)

// Token represents a single source token with its location and leading trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

func (t Token) IsLiteral() bool   { return t.Kind.IsLiteral() }
func (t Token) IsKeyword() bool   { return t.Kind.IsKeyword() }
func (t Token) IsPunctOrOp() bool { return t.Kind.IsPunctOrOp() }
func (t Token) IsIdent() bool     { return t.Kind == Ident }
func (t Token) IsEOF() bool       { return t.Kind == EOF }
func (t Token) IsTriviaTok() bool { return t.Kind.IsTrivia() }

package token

import "quill/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	}
	return "Trivia(?)"
}

// TokenKind maps trivia onto the token kind used when trivia is surfaced.
func (k TriviaKind) TokenKind() Kind {
	switch k {
	case TriviaNewline:
		return Newline
	case TriviaLineComment:
		return LineComment
	case TriviaBlockComment:
		return BlockComment
	default:
		return Whitespace
	}
}

// Trivia is a run of whitespace, newlines or a comment.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

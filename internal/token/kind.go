package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks an unrecognised character or malformed lexeme.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	Ident

	IntLit
	FloatLit
	StringLit

	KwFn
	KwLet
	KwMut
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwBreak
	KwContinue
	KwTrue
	KwFalse
	KwNil
	KwAnd
	KwOr
	KwNot

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %

	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=

	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	AndAnd // &&
	OrOr   // ||
	Bang   // !
	Arrow  // ->

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Dot       // .

	// Trivia kinds, produced only when the lexer surfaces trivia as tokens.
	Whitespace
	Newline
	LineComment
	BlockComment

	kindCount
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	StringLit:     "StringLit",
	KwFn:          "KwFn",
	KwLet:         "KwLet",
	KwMut:         "KwMut",
	KwIf:          "KwIf",
	KwElse:        "KwElse",
	KwWhile:       "KwWhile",
	KwReturn:      "KwReturn",
	KwBreak:       "KwBreak",
	KwContinue:    "KwContinue",
	KwTrue:        "KwTrue",
	KwFalse:       "KwFalse",
	KwNil:         "KwNil",
	KwAnd:         "KwAnd",
	KwOr:          "KwOr",
	KwNot:         "KwNot",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Slash:         "Slash",
	Percent:       "Percent",
	Assign:        "Assign",
	PlusAssign:    "PlusAssign",
	MinusAssign:   "MinusAssign",
	StarAssign:    "StarAssign",
	SlashAssign:   "SlashAssign",
	PercentAssign: "PercentAssign",
	EqEq:          "EqEq",
	BangEq:        "BangEq",
	Lt:            "Lt",
	LtEq:          "LtEq",
	Gt:            "Gt",
	GtEq:          "GtEq",
	AndAnd:        "AndAnd",
	OrOr:          "OrOr",
	Bang:          "Bang",
	Arrow:         "Arrow",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
	Comma:         "Comma",
	Semicolon:     "Semicolon",
	Colon:         "Colon",
	Dot:           "Dot",
	Whitespace:    "Whitespace",
	Newline:       "Newline",
	LineComment:   "LineComment",
	BlockComment:  "BlockComment",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ParseKind is the inverse of Kind.String. Used by the manifest loader.
func ParseKind(name string) (Kind, bool) {
	for k := Invalid; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return Invalid, false
}

func (k Kind) IsEOF() bool { return k == EOF }

// IsKeyword reports whether k is a keyword kind.
func (k Kind) IsKeyword() bool { return k >= KwFn && k <= KwNot }

// IsLiteral reports whether k is a literal kind (true/false/nil are keywords).
func (k Kind) IsLiteral() bool { return k >= IntLit && k <= StringLit }

// IsPunctOrOp reports whether k is an operator or punctuation.
func (k Kind) IsPunctOrOp() bool { return k >= Plus && k <= Dot }

// IsTrivia reports whether k is a surfaced trivia kind.
func (k Kind) IsTrivia() bool { return k >= Whitespace && k <= BlockComment }

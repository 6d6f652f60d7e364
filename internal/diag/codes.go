package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexBadEscape                Code = 1006
	LexNonNormalizedIdent       Code = 1007

	// Синтаксические
	SynUnexpectedToken     Code = 2001
	SynExpectExpression    Code = 2002
	SynExpectIdentifier    Code = 2003
	SynUnclosedParen       Code = 2004
	SynUnclosedBrace       Code = 2005
	SynUnclosedBracket     Code = 2006
	SynExpectBlock         Code = 2007
	SynUnexpectedTopLevel  Code = 2008
	SynInvalidAssignTarget Code = 2009
	SynTooManyErrors       Code = 2010

	// IO / driver
	IOLoadFileError Code = 4001
)

// ErrorKind groups codes into the two recoverable error kinds of the front-end.
type ErrorKind uint8

const (
	KindOther ErrorKind = iota
	// KindLex – unrecognised or malformed lexeme, recovered by single-character skip.
	KindLex
	// KindSyntax – grammar violation, recovered by skipping to a synchronisation point.
	KindSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindSyntax:
		return "SyntaxError"
	}
	return "Error"
}

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexTokenTooLong:             "Token exceeds maximum length",
	LexBadEscape:                "Invalid escape sequence",
	LexNonNormalizedIdent:       "Identifier is not in Unicode NFC form",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectExpression:         "Expected expression",
	SynExpectIdentifier:         "Expected identifier",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectBlock:              "Expected block",
	SynUnexpectedTopLevel:       "Unexpected top-level token",
	SynInvalidAssignTarget:      "Invalid assignment target",
	SynTooManyErrors:            "Too many errors",
	IOLoadFileError:             "I/O load file error",
}

// Kind classifies the code.
func (c Code) Kind() ErrorKind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindLex
	case ic >= 2000 && ic < 3000:
		return KindSyntax
	}
	return KindOther
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// TriviaMode selects what happens to whitespace and comments.
type TriviaMode uint8

const (
	// TriviaAttach keeps trivia as Token.Leading of the next significant token.
	TriviaAttach TriviaMode = iota
	// TriviaEmit surfaces trivia as tokens of their own.
	TriviaEmit
	// TriviaSkip drops trivia; positions still account for it.
	TriviaSkip
)

func (m TriviaMode) String() string {
	switch m {
	case TriviaAttach:
		return "attach"
	case TriviaEmit:
		return "emit"
	case TriviaSkip:
		return "skip"
	}
	return "unknown"
}

// ParseTriviaMode parses the manifest/flag spelling of a TriviaMode.
func ParseTriviaMode(s string) (TriviaMode, bool) {
	switch s {
	case "", "attach":
		return TriviaAttach, true
	case "emit":
		return TriviaEmit, true
	case "skip":
		return TriviaSkip, true
	}
	return TriviaAttach, false
}

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем, но продолжаем лексить
	Trivia   TriviaMode
	Table    *token.Table // nil means token.DefaultTable()
	// MaxTokenLen bounds identifiers and literals in bytes; 0 disables the check.
	MaxTokenLen int
}

func (lx *Lexer) report(d diag.Diagnostic) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(d)
	}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.report(diag.NewError(code, sp, msg))
}

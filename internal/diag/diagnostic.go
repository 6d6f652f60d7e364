package diag

import (
	"quill/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Expected lists the token kinds that would have been accepted, by name.
	Expected []string
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

// WithNote returns a copy with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Span: sp, Msg: msg})
	return d
}

// WithExpected returns a copy carrying the expected token names.
func (d Diagnostic) WithExpected(names ...string) Diagnostic {
	d.Expected = append(append([]string(nil), d.Expected...), names...)
	return d
}

// Kind is shorthand for d.Code.Kind().
func (d Diagnostic) Kind() ErrorKind {
	return d.Code.Kind()
}

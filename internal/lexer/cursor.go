package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"quill/internal/source"
)

// Cursor is the scanning position inside one file. Every consumed character
// goes through Bump, which is the only place line/column bookkeeping happens,
// so skipped trivia can never desynchronise line/column from the offset.
type Cursor struct {
	File  *source.File
	src   string
	Off   uint32
	Line  uint32
	Col   uint32
	Limit uint32 // exclusive upper bound for Off
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		src:   f.Text(),
		Off:   0,
		Line:  1,
		Col:   1,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// PeekAt returns the byte n positions ahead or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.src[c.Off+n]
}

// PeekRune decodes the current character. size is 0 at EOF.
// Invalid UTF-8 decodes as utf8.RuneError with size 1.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.src[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(c.src[c.Off:c.Limit])
}

// AtNewline reports whether the cursor sits on "\n" or "\r\n".
func (c *Cursor) AtNewline() bool {
	b := c.Peek()
	return b == '\n' || (b == '\r' && c.PeekAt(1) == '\n')
}

// Bump consumes one character and returns it. "\r\n" is one character here:
// it bumps the line once and resets the column.
func (c *Cursor) Bump() rune {
	r, sz := c.PeekRune()
	if sz == 0 {
		return 0
	}
	switch {
	case r == '\n':
		c.Off++
		c.newline()
	case r == '\r' && c.PeekAt(1) == '\n':
		c.Off += 2
		c.newline()
		r = '\n'
	default:
		c.Off += uint32(sz) // #nosec G115 -- rune size is at most 4
		c.Col++
	}
	return r
}

func (c *Cursor) newline() {
	c.Line++
	c.Col = 1
}

// Eat consumes the next byte if it matches b. b must not be a newline byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.src[c.Off] == b {
		c.Bump()
		return true
	}
	return false
}

// Pos returns the current position.
func (c *Cursor) Pos() source.Position {
	return source.Position{Line: c.Line, Column: c.Col, Offset: c.Off}
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() source.Position {
	return c.Pos()
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m source.Position) source.Span {
	return source.MustSpan(c.File.ID, m, c.Pos())
}

// Reset moves the cursor back to a mark taken earlier in the same scan.
func (c *Cursor) Reset(m source.Position) {
	c.Off, c.Line, c.Col = m.Offset, m.Line, m.Column
}

// Slice returns the text between two offsets without copying.
func (c *Cursor) Slice(sp source.Span) string {
	return c.src[sp.Start.Offset:sp.End.Offset]
}

// Rest returns the unconsumed text.
func (c *Cursor) Rest() string {
	return c.src[c.Off:c.Limit]
}

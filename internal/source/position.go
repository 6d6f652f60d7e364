package source

import "fmt"

// Position identifies a point in a source file.
// Line and Column are 1-based; Column counts characters (runes), not bytes.
// Offset is the 0-based byte offset into File.Content.
//
// Ordering and equality are defined by Offset only: Line/Column are carried
// for rendering and never take part in comparisons.
type Position struct {
	Line   uint32
	Column uint32
	Offset uint32
}

// NewPosition builds a Position. No validation: the lexer is trusted to pass
// monotonically increasing values during a single scan.
func NewPosition(line, column, offset uint32) Position {
	return Position{Line: line, Column: column, Offset: offset}
}

// StartOfFile is the position of the first character of any file.
func StartOfFile() Position {
	return Position{Line: 1, Column: 1, Offset: 0}
}

// Compare returns -1, 0 or +1 comparing offsets.
func (p Position) Compare(other Position) int {
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly before other.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// SameOffset reports whether both positions point at the same byte.
func (p Position) SameOffset(other Position) bool {
	return p.Offset == other.Offset
}

// IsValid reports whether the position was produced by a scan (line/column are 1-based).
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

package source

import (
	"errors"
	"fmt"
)

// ErrInvalidSpan is returned when a span would end before it starts.
// It signals a broken internal invariant, not a user error.
var ErrInvalidSpan = errors.New("invalid span")

// Span is a half-open range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start Position
	End   Position
}

// NewSpan validates end >= start (by offset) and builds a span.
func NewSpan(file FileID, start, end Position) (Span, error) {
	if end.Offset < start.Offset {
		return Span{}, fmt.Errorf("%w: end offset %d before start offset %d", ErrInvalidSpan, end.Offset, start.Offset)
	}
	return Span{File: file, Start: start, End: end}, nil
}

// MustSpan is NewSpan for internal construction paths; it panics on ErrInvalidSpan.
func MustSpan(file FileID, start, end Position) Span {
	sp, err := NewSpan(file, start, end)
	if err != nil {
		panic(err)
	}
	return sp
}

// PointSpan returns a zero-width span at pos.
func PointSpan(file FileID, pos Position) Span {
	return Span{File: file, Start: pos, End: pos}
}

func (s Span) Empty() bool {
	return s.Start.Offset == s.End.Offset
}

// Len returns the span length in bytes.
func (s Span) Len() uint32 {
	return s.End.Offset - s.Start.Offset
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File &&
		s.Start.Offset <= other.Start.Offset &&
		other.End.Offset <= s.End.Offset
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Offset < s.Start.Offset {
		s.Start = other.Start
	}
	if other.End.Offset > s.End.Offset {
		s.End = other.End
	}
	return s
}

// ZeroAtEnd returns a zero-width span positioned at s.End.
func (s Span) ZeroAtEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}

// ZeroAtStart returns a zero-width span positioned at s.Start.
func (s Span) ZeroAtStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%s-%s", s.File, s.Start, s.End)
}

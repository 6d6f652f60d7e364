package lexer

import (
	"errors"
	"fmt"

	"quill/internal/token"
)

// ErrLookaheadExceeded is returned by Stream.Peek for k outside [0, depth].
var ErrLookaheadExceeded = errors.New("lookahead exceeded")

// TokenSource produces tokens one at a time. *Lexer implements it.
type TokenSource interface {
	Next() token.Token
}

// Stream is a bounded lookahead buffer over a TokenSource.
// It keeps a ring of depth+1 slots: the current token and up to depth more.
// Tokens are pulled from the source only when Peek or Advance needs them.
type Stream struct {
	src    TokenSource
	ring   []token.Token
	head   int // индекс текущего токена в ring
	n      int // сколько токенов сейчас в буфере
	depth  int
	pulled int
}

// NewStream wraps src with lookahead depth. depth < 0 is treated as 0.
func NewStream(src TokenSource, depth int) *Stream {
	depth = max(depth, 0)
	return &Stream{
		src:   src,
		ring:  make([]token.Token, depth+1),
		depth: depth,
	}
}

// Depth returns the maximum k accepted by Peek.
func (s *Stream) Depth() int {
	return s.depth
}

// Peek returns the token k positions ahead of the current one without
// consuming anything. Peek(0) is the current token.
func (s *Stream) Peek(k int) (token.Token, error) {
	if k < 0 || k > s.depth {
		return token.Token{}, fmt.Errorf("%w: peek %d with depth %d", ErrLookaheadExceeded, k, s.depth)
	}
	s.fill(k + 1)
	return s.ring[(s.head+k)%len(s.ring)], nil
}

// Current returns Peek(0).
func (s *Stream) Current() token.Token {
	s.fill(1)
	return s.ring[s.head]
}

// Advance consumes and returns the current token.
// Past end of input it keeps returning EOF.
func (s *Stream) Advance() token.Token {
	s.fill(1)
	tok := s.ring[s.head]
	s.ring[s.head] = token.Token{}
	s.head = (s.head + 1) % len(s.ring)
	s.n--
	return tok
}

// Pulled returns how many tokens have been taken from the source so far.
func (s *Stream) Pulled() int {
	return s.pulled
}

func (s *Stream) fill(want int) {
	for s.n < want {
		s.ring[(s.head+s.n)%len(s.ring)] = s.src.Next()
		s.n++
		s.pulled++
	}
}

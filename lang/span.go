package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Position identifies a location in source text.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number, counted in runes
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is an immutable view over a fragment of the source text together with
// the position where that fragment begins.
//
// The same type describes both the unconsumed remainder of the input, which is
// threaded through every parser, and individual tokens such as identifiers and
// keywords.
type Span struct {
	Fragment string
	Offset   int
	Line     int
	Column   int
}

// NewSpan returns a Span over the entire input positioned at line 1,
// column 1.
func NewSpan(input string) Span {
	return Span{
		Fragment: input,
		Offset:   0,
		Line:     1,
		Column:   1,
	}
}

// Position returns the location where the span begins.
func (s Span) Position() Position {
	return Position{Offset: s.Offset, Line: s.Line, Column: s.Column}
}

// String returns the fragment text.
func (s Span) String() string { return s.Fragment }

// Len returns the byte length of the fragment.
func (s Span) Len() int { return len(s.Fragment) }

// IsEmpty reports whether no input remains.
func (s Span) IsEmpty() bool { return len(s.Fragment) == 0 }

// Same reports whether two spans denote the same remaining text.
// Origin positions are ignored.
func (s Span) Same(o Span) bool { return s.Fragment == o.Fragment }

// Peek returns the first rune of the fragment, or 0 if it is empty.
func (s Span) Peek() rune {
	if s.IsEmpty() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.Fragment)

	return r
}

// HasPrefix reports whether the fragment begins with prefix.
func (s Span) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.Fragment, prefix)
}

// Take returns a span over the first n bytes of s, positioned where s begins.
func (s Span) Take(n int) Span {
	n = s.clamp(n)

	return Span{
		Fragment: s.Fragment[:n],
		Offset:   s.Offset,
		Line:     s.Line,
		Column:   s.Column,
	}
}

// Advance returns the remainder of s after its first n bytes, with the line
// and column recomputed across the consumed text. Columns count runes; each
// byte of an invalid UTF-8 sequence counts as one column.
func (s Span) Advance(n int) Span {
	n = s.clamp(n)
	line, col := s.Line, s.Column

	for _, r := range s.Fragment[:n] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return Span{
		Fragment: s.Fragment[n:],
		Offset:   s.Offset + n,
		Line:     line,
		Column:   col,
	}
}

// Split returns the remainder after the first n bytes and the span over
// those n bytes.
func (s Span) Split(n int) (rest, token Span) {
	return s.Advance(n), s.Take(n)
}

// Point returns an empty span positioned where s begins. It marks a location
// without carrying text.
func (s Span) Point() Span { return s.Take(0) }

func (s Span) clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > len(s.Fragment):
		return len(s.Fragment)
	default:
		return n
	}
}

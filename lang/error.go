package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax           = NewError("syntax error")
	ErrNoProgress       = NewError("parser made no progress")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")
	ErrEmptySource      = NewError("empty source")
	ErrReadInput        = NewError("failed to read input")
	ErrQuery            = NewError("query failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so that
// wrapped or attributed copies of a sentinel still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Kind classifies a syntax error by how the grammar may react to it.
type Kind int

const (
	// KindExpected means a grammar alternative did not match. Alternation
	// tries the next alternative.
	KindExpected Kind = iota

	// KindCommitted means a construct was malformed after its leading keyword
	// was consumed. The whole parse fails.
	KindCommitted

	// KindNoProgress means a rule succeeded without consuming input.
	KindNoProgress

	// KindMaxDepth means nesting exceeded the configured maximum depth.
	KindMaxDepth
)

// String returns a string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindExpected:
		return "expected"

	case KindCommitted:
		return "committed"

	case KindNoProgress:
		return "no-progress"

	case KindMaxDepth:
		return "max-depth"

	default:
		return "unknown"
	}
}

// SyntaxError describes where and why parsing failed.
type SyntaxError struct {
	Kind     Kind
	Position Position
	Expected []string // sorted, de-duplicated descriptions of what would match
	Context  string   // grammar rule that committed, if any
	Found    string   // source text at Position, up to the end of its line
	Hint     string
	Source   string // full source, set by the top-level parser for snippets
}

// maxFoundLen bounds the number of runes recorded in SyntaxError.Found.
const maxFoundLen = 24

func expected(s Span, what ...string) *SyntaxError {
	exp := slices.Clone(what)
	slices.Sort(exp)

	return &SyntaxError{
		Kind:     KindExpected,
		Position: s.Position(),
		Expected: slices.Compact(exp),
		Found:    foundText(s),
	}
}

// foundText returns the text at s up to the end of its line, truncated to
// maxFoundLen runes. It reads no further than the truncation point, so the
// cost does not depend on how much input remains.
func foundText(s Span) string {
	text := s.Fragment
	end := 0

	for n := 0; end < len(text) && text[end] != '\n'; n++ {
		if n == maxFoundLen {
			more := strings.TrimLeft(text[end:], "\r")
			if more != "" && more[0] != '\n' {
				return strings.TrimRight(text[:end], "\r") + "…"
			}

			break
		}

		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	return strings.TrimRight(text[:end], "\r")
}

// Recoverable reports whether the grammar may backtrack past this error.
func (e *SyntaxError) Recoverable() bool { return e.Kind == KindExpected }

// commit returns a copy of e that can no longer be backtracked, attributed
// to the named construct.
func (e *SyntaxError) commit(context string) *SyntaxError {
	c := *e
	if c.Kind == KindExpected {
		c.Kind = KindCommitted
	}

	if c.Context == "" {
		c.Context = context
	}

	return &c
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var b strings.Builder

	b.WriteString("syntax error at line ")
	b.WriteString(strconv.Itoa(e.Position.Line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(e.Position.Column))
	b.WriteString(": ")
	b.WriteString(e.Summary())

	if e.Source != "" {
		b.WriteString("\n")
		b.WriteString(e.Snippet())
	}

	return strings.TrimRight(b.String(), "\n")
}

// Summary describes the failure without its position or snippet.
func (e *SyntaxError) Summary() string {
	var b strings.Builder

	switch e.Kind {
	case KindNoProgress:
		b.WriteString("rule succeeded without consuming input")

	case KindMaxDepth:
		b.WriteString("nesting too deep")

	default:
		if len(e.Expected) > 0 {
			quoted := make([]string, len(e.Expected))
			for i, exp := range e.Expected {
				quoted[i] = strconv.Quote(exp)
			}

			b.WriteString("expected ")
			b.WriteString(strings.Join(quoted, " or "))
		} else {
			b.WriteString("unexpected input")
		}
	}

	if e.Context != "" {
		b.WriteString(" in ")
		b.WriteString(e.Context)
	}

	if e.Found != "" {
		b.WriteString(", found ")
		b.WriteString(strconv.Quote(e.Found))
	} else if e.Kind == KindExpected || e.Kind == KindCommitted {
		b.WriteString(", found end of input")
	}

	if e.Hint != "" {
		b.WriteString(" (")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}

	return b.String()
}

// Snippet returns the offending source line with a caret under the failing
// column. It is empty when Source is unset or the line is out of range.
func (e *SyntaxError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Position.Line <= 0 || e.Position.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := strings.TrimRight(lines[e.Position.Line-1], "\r")
	num := strconv.Itoa(e.Position.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if e.Position.Column > 0 {
		padding += strings.Repeat(" ", e.Position.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// Unwrap returns the sentinel error matching the error kind.
func (e *SyntaxError) Unwrap() error {
	switch e.Kind {
	case KindNoProgress:
		return ErrNoProgress

	case KindMaxDepth:
		return ErrMaxDepthExceeded

	default:
		return ErrSyntax
	}
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Summary()),
		slog.String("kind", e.Kind.String()),
		slog.Int("line", e.Position.Line),
		slog.Int("column", e.Position.Column),
	}

	if len(e.Expected) > 0 {
		attrs = append(attrs, slog.Any("expected", e.Expected))
	}

	if e.Context != "" {
		attrs = append(attrs, slog.String("context", e.Context))
	}

	return slog.GroupValue(attrs...)
}

// furthest returns whichever error occurred later in the input. Errors at the
// same offset have their expected sets merged.
func furthest(a, b *SyntaxError) *SyntaxError {
	switch {
	case a == nil:
		return b

	case b == nil:
		return a

	case a.Position.Offset > b.Position.Offset:
		return a

	case b.Position.Offset > a.Position.Offset:
		return b
	}

	merged := *a
	merged.Expected = slices.Compact(
		slices.Sorted(slices.Values(append(slices.Clone(a.Expected), b.Expected...))),
	)

	return &merged
}

// asSyntaxError extracts a *SyntaxError from err.
func asSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}

	return nil, false
}

// isRecoverable reports whether err is a backtrackable syntax error.
func isRecoverable(err error) bool {
	se, ok := asSyntaxError(err)

	return ok && se.Recoverable()
}

// maxSuggestDistance is the largest edit distance for keyword suggestions.
const maxSuggestDistance = 2

// suggestKeyword returns the statement keyword closest to word, or "" if none
// is within maxSuggestDistance edits. An exact match is not a suggestion.
func suggestKeyword(word string) string {
	best, bestDist := "", maxSuggestDistance+1

	for _, kw := range []string{keywordLet, keywordModule, keywordNamespace} {
		if word == kw {
			return ""
		}

		d := levenshtein.DistanceForStrings(
			[]rune(word), []rune(kw), levenshtein.DefaultOptions,
		)
		if d < bestDist {
			best, bestDist = kw, d
		}
	}

	return best
}

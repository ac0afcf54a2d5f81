package repl

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/ardnew/ilang/lang"
)

// Outcome classifies the result of submitting a line to a [Session].
type Outcome int

const (
	// OutcomeParsed means the accumulated source parsed and was committed.
	OutcomeParsed Outcome = iota

	// OutcomePending means the source ended before a statement was complete.
	// The line is held until more input arrives or [Session.Flush] is called.
	OutcomePending

	// OutcomeFailed means the source could not be parsed. Pending lines are
	// discarded and the committed source is unchanged.
	OutcomeFailed
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes what a submitted line did to the session.
type Result struct {
	Outcome Outcome
	// Statements holds the top-level statements added by the input, or the
	// last statement when the input extended it.
	Statements lang.Main
	Err        error
}

// Session accumulates source text line by line and keeps the parse of
// everything committed so far. Each submission re-parses the whole source,
// so a line may extend the body of the statement before it.
type Session struct {
	opts    []lang.Option
	source  string
	main    lang.Main
	pending []string
}

// NewSession returns an empty session parsing with opts. Sessions never use
// the process-wide parse cache, since every submission is a new source.
func NewSession(opts ...lang.Option) *Session {
	return &Session{opts: append([]lang.Option{lang.WithoutCache()}, opts...)}
}

// Load replaces the committed source with src. Blank source resets the
// session.
func (s *Session) Load(ctx context.Context, src string) error {
	if strings.TrimSpace(src) == "" {
		s.Reset()

		return nil
	}

	main, err := lang.ParseString(ctx, src, s.opts...)
	if err != nil {
		return err
	}

	s.commit(src, main)

	return nil
}

// Submit appends line to the pending input and parses the result together
// with the committed source.
func (s *Session) Submit(ctx context.Context, line string) Result {
	lines := append(slices.Clone(s.pending), line)
	candidate := s.join(lines)

	main, err := lang.ParseString(ctx, candidate, s.opts...)
	if err == nil {
		added := s.added(main)
		s.commit(candidate, main)

		return Result{Outcome: OutcomeParsed, Statements: added}
	}

	if incomplete(candidate, err) {
		s.pending = lines

		return Result{Outcome: OutcomePending, Err: err}
	}

	s.pending = nil

	return Result{Outcome: OutcomeFailed, Err: err}
}

// Flush ends pending input, reporting the failure that kept it pending.
func (s *Session) Flush(ctx context.Context) Result {
	if len(s.pending) == 0 {
		return Result{Outcome: OutcomeParsed}
	}

	candidate := s.join(s.pending)
	s.pending = nil

	main, err := lang.ParseString(ctx, candidate, s.opts...)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	added := s.added(main)
	s.commit(candidate, main)

	return Result{Outcome: OutcomeParsed, Statements: added}
}

// Discard drops pending input without parsing it.
func (s *Session) Discard() { s.pending = nil }

// Pending reports whether input is waiting for more lines.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Source returns the committed source text.
func (s *Session) Source() string { return s.source }

// Main returns the parse of the committed source.
func (s *Session) Main() lang.Main { return s.main }

// Reset discards the committed source and pending input.
func (s *Session) Reset() {
	s.source = ""
	s.main = nil
	s.pending = nil
}

// Names returns the names bound by top-level statements in source order,
// without duplicates.
func (s *Session) Names() []string {
	var names []string

	add := func(name string) {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	for _, st := range s.main.Statements() {
		switch st.Kind {
		case lang.MainNamespace:
			add(lang.JoinIdents(st.Namespace.Name, "."))

		case lang.MainModule:
			add(lang.JoinIdents(st.Module.ModuleName, "."))

		case lang.MainFunction:
			add(st.Function.Name.Name())

		case lang.MainLetBinding:
			for _, name := range st.LetBinding.Names() {
				add(name)
			}
		}
	}

	return names
}

// Function returns the last top-level function named name.
func (s *Session) Function(name string) (*lang.Function, bool) {
	for i := len(s.main) - 1; i >= 0; i-- {
		st := &s.main[i]
		if st.Kind == lang.MainFunction && st.Function.Name.Name() == name {
			return st.Function, true
		}
	}

	return nil, false
}

func (s *Session) commit(src string, main lang.Main) {
	s.source = src
	s.main = main
	s.pending = nil
}

func (s *Session) join(lines []string) string {
	input := strings.Join(lines, "\n")
	if s.source == "" {
		return input
	}

	return s.source + "\n" + input
}

// added returns the statements of main that are new relative to the
// committed parse.
func (s *Session) added(main lang.Main) lang.Main {
	switch {
	case len(main) > len(s.main):
		return main[len(s.main):]
	case len(main) > 0:
		return main[len(main)-1:]
	default:
		return nil
	}
}

// incomplete reports whether more input could still make candidate parse:
// err is a syntax error located at the end of candidate, or candidate leaves
// a bracket or string open.
func incomplete(candidate string, err error) bool {
	var se *lang.SyntaxError
	if !errors.As(err, &se) {
		return false
	}

	if se.Kind == lang.KindMaxDepth || se.Kind == lang.KindNoProgress {
		return false
	}

	if unbalanced(candidate) {
		return true
	}

	return se.Position.Offset >= len(strings.TrimRight(candidate, " \t\r\n"))
}

// unbalanced reports whether s ends inside a string literal or with an
// unclosed parenthesis or square bracket.
func unbalanced(s string) bool {
	var (
		depth   int
		quoted  bool
		escaped bool
	)

	for _, r := range s {
		switch {
		case escaped:
			escaped = false

		case quoted:
			switch r {
			case '\\':
				escaped = true
			case '"':
				quoted = false
			}

		case r == '"':
			quoted = true

		case r == '(' || r == '[':
			depth++

		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		}
	}

	return quoted || depth > 0
}

package lang

import (
	"strings"
	"unicode/utf8"
)

// parseFunc is the shape shared by every grammar rule: it consumes a prefix
// of the input span and returns the remainder with the parsed value.
//
// On failure the returned span is the input span, the value is the zero
// value, and the error is a *SyntaxError whose Kind tells alternation whether
// it may try something else.
type parseFunc[T any] func(Span) (Span, T, error)

// alt tries each parser in order against the same input and returns the
// first success. Recoverable failures are merged by furthest position;
// anything else is returned immediately.
func alt[T any](ps ...parseFunc[T]) parseFunc[T] {
	return func(s Span) (Span, T, error) {
		var (
			zero T
			miss *SyntaxError
		)

		for _, p := range ps {
			rest, v, err := p(s)
			if err == nil {
				return rest, v, nil
			}

			se, ok := asSyntaxError(err)
			if !ok || !se.Recoverable() {
				return s, zero, err
			}

			miss = furthest(miss, se)
		}

		if miss == nil {
			miss = expected(s)
		}

		return s, zero, miss
	}
}

// many0 applies p until it fails recoverably and collects the results.
func many0[T any](p parseFunc[T]) parseFunc[[]T] {
	return func(s Span) (Span, []T, error) {
		var out []T

		for rest := s; ; {
			next, v, err := p(rest)
			if err != nil {
				if isRecoverable(err) {
					return rest, out, nil
				}

				return s, nil, err
			}

			if next.Same(rest) {
				return s, nil, noProgress(rest)
			}

			out = append(out, v)
			rest = next
		}
	}
}

// many1 is many0 but fails unless p matches at least once.
func many1[T any](p parseFunc[T]) parseFunc[[]T] {
	return func(s Span) (Span, []T, error) {
		rest, first, err := p(s)
		if err != nil {
			return s, nil, err
		}

		rest, more, err := many0(p)(rest)
		if err != nil {
			return s, nil, err
		}

		return rest, append([]T{first}, more...), nil
	}
}

// separated parses zero or more p separated by sep. A separator must be
// followed by another element.
func separated[T, S any](p parseFunc[T], sep parseFunc[S]) parseFunc[[]T] {
	return func(s Span) (Span, []T, error) {
		rest, first, err := p(s)
		if err != nil {
			if isRecoverable(err) {
				return s, nil, nil
			}

			return s, nil, err
		}

		out := []T{first}

		for {
			afterSep, _, err := sep(rest)
			if err != nil {
				if isRecoverable(err) {
					return rest, out, nil
				}

				return s, nil, err
			}

			next, v, err := p(afterSep)
			if err != nil {
				return s, nil, err
			}

			out = append(out, v)
			rest = next
		}
	}
}

// mapTo transforms the result of p with f, which also receives the span of
// the consumed text.
func mapTo[A, B any](p parseFunc[A], f func(Span, A) B) parseFunc[B] {
	return func(s Span) (Span, B, error) {
		rest, v, err := p(s)
		if err != nil {
			var zero B

			return s, zero, err
		}

		return rest, f(s.Take(rest.Offset-s.Offset), v), nil
	}
}

// cut makes recoverable failures of p fatal, attributing them to context.
func cut[T any](p parseFunc[T], context string) parseFunc[T] {
	return func(s Span) (Span, T, error) {
		rest, v, err := p(s)
		if err != nil {
			if se, ok := asSyntaxError(err); ok {
				return s, v, se.commit(context)
			}

			return s, v, err
		}

		return rest, v, nil
	}
}

// trimmed skips inline space on both sides of p.
func trimmed[T any](p parseFunc[T]) parseFunc[T] {
	return func(s Span) (Span, T, error) {
		rest, v, err := p(space0(s))
		if err != nil {
			return s, v, err
		}

		return space0(rest), v, nil
	}
}

// tag matches the literal text lit.
func tag(lit string) parseFunc[Span] {
	return func(s Span) (Span, Span, error) {
		if !s.HasPrefix(lit) {
			return s, Span{}, expected(s, lit)
		}

		rest, tok := s.Split(len(lit))

		return rest, tok, nil
	}
}

// keyword matches the literal word kw when it is not immediately followed by
// an identifier character.
func keyword(kw string) parseFunc[Span] {
	return func(s Span) (Span, Span, error) {
		if !s.HasPrefix(kw) {
			return s, Span{}, expected(s, kw)
		}

		rest, tok := s.Split(len(kw))
		if IsAlphanumeric(rest.Peek()) {
			return s, Span{}, expected(s, kw)
		}

		return rest, tok, nil
	}
}

// takeWhile consumes the longest prefix whose runes satisfy pred. It never
// fails; the token may be empty.
func takeWhile(s Span, pred func(rune) bool) (rest, token Span) {
	n := strings.IndexFunc(s.Fragment, func(r rune) bool { return !pred(r) })
	if n < 0 {
		n = len(s.Fragment)
	}

	return s.Split(n)
}

// takeWhile1 is takeWhile but fails unless at least one rune matches.
func takeWhile1(pred func(rune) bool, what string) parseFunc[Span] {
	return func(s Span) (Span, Span, error) {
		rest, tok := takeWhile(s, pred)
		if tok.IsEmpty() {
			return s, Span{}, expected(s, what)
		}

		return rest, tok, nil
	}
}

// space0 skips spaces and tabs.
func space0(s Span) Span {
	rest, _ := takeWhile(s, IsSpace)

	return rest
}

// blank0 skips all whitespace, including line breaks.
func blank0(s Span) Span {
	rest, _ := takeWhile(s, IsBlank)

	return rest
}

// runeLen returns the byte length of the first rune in s, or 0 at the end.
func runeLen(s Span) int {
	_, n := utf8.DecodeRuneInString(s.Fragment)

	return n
}

func noProgress(s Span) *SyntaxError {
	return &SyntaxError{
		Kind:     KindNoProgress,
		Position: s.Position(),
		Found:    foundText(s),
	}
}

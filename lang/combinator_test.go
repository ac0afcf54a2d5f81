package lang

import (
	"errors"
	"testing"
)

func zeroWidth(s Span) (Span, int, error) { return s, 0, nil }

func TestMany_ZeroWidthParserFails(t *testing.T) {
	tests := []struct {
		name string
		p    parseFunc[[]int]
	}{
		{"many0", many0(zeroWidth)},
		{"many1", many1(zeroWidth)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSpan("abc")

			rest, got, err := tt.p(src)
			if !errors.Is(err, ErrNoProgress) {
				t.Fatalf("err = %v, want ErrNoProgress", err)
			}

			se, ok := asSyntaxError(err)
			if !ok || se.Kind != KindNoProgress || se.Recoverable() {
				t.Errorf("error = %#v, want an unrecoverable KindNoProgress", err)
			}

			if got != nil || !rest.Same(src) {
				t.Errorf("got %v, rest %q; want nothing consumed", got, rest.Fragment)
			}
		})
	}
}

func TestMany_ZeroWidthAfterProgress(t *testing.T) {
	// Consumes one rune while input begins with "a", then stalls.
	stall := func(s Span) (Span, int, error) {
		if s.HasPrefix("a") {
			return s.Advance(1), 1, nil
		}

		return s, 0, nil
	}

	_, _, err := many0(stall)(NewSpan("aab"))

	se, ok := asSyntaxError(err)
	if !ok || se.Kind != KindNoProgress {
		t.Fatalf("err = %v, want KindNoProgress", err)
	}

	if se.Position.Offset != 2 || se.Found != "b" {
		t.Errorf("error at offset %d found %q, want offset 2 found \"b\"", se.Position.Offset, se.Found)
	}
}

func TestAlt_NoProgressIsNotBacktracked(t *testing.T) {
	tried := 0
	other := func(s Span) (Span, []int, error) {
		tried++

		return s.Advance(1), []int{1}, nil
	}

	_, _, err := alt[[]int](many0(zeroWidth), other)(NewSpan("abc"))
	if !errors.Is(err, ErrNoProgress) {
		t.Fatalf("err = %v, want ErrNoProgress", err)
	}

	if tried != 0 {
		t.Errorf("later alternative tried %d times, want 0", tried)
	}
}

func TestMany0_StopsOnRecoverableMiss(t *testing.T) {
	rest, got, err := many0(tag("ab"))(NewSpan("ababx"))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || rest.Fragment != "x" {
		t.Errorf("got %d matches, rest %q; want 2 matches, rest \"x\"", len(got), rest.Fragment)
	}
}

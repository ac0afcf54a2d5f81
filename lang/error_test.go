package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestError_IsMatchesWrappedSentinel(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.String("source", "stdin"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("wrapped error should match its sentinel")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("wrapped error should match its cause")
	}

	if errors.Is(err, ErrQuery) {
		t.Error("wrapped error should not match an unrelated sentinel")
	}

	if got := err.Error(); got != "failed to read input: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_WithDoesNotModifyReceiver(t *testing.T) {
	base := NewError("base")
	_ = base.With(slog.Int("n", 1))

	if len(base.attrs) != 0 {
		t.Error("With should return a new error")
	}
}

func TestWrapError_ReturnsExistingError(t *testing.T) {
	orig := ErrQuery.With(slog.String("query", "x"))

	if got := WrapError(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("WrapError should return the wrapped *Error")
	}

	if got := WrapError(io.EOF); !errors.Is(got, io.EOF) {
		t.Error("WrapError should wrap a plain error")
	}
}

func TestSyntaxError_Message(t *testing.T) {
	se := &SyntaxError{
		Kind:     KindCommitted,
		Position: Position{Offset: 7, Line: 1, Column: 8},
		Expected: []string{"identifier"},
		Context:  "module",
		Found:    "42",
	}

	want := `syntax error at line 1, column 8: expected "identifier" in module, found "42"`
	if got := se.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}

	se.Found = ""
	if got := se.Error(); !strings.HasSuffix(got, "found end of input") {
		t.Errorf("Error() = %q, want end of input", got)
	}
}

func TestSyntaxError_Snippet(t *testing.T) {
	se := &SyntaxError{
		Position: Position{Line: 2, Column: 5},
		Source:   "let x =\n  a + \n",
	}

	want := "  2 |   a + \n          ^\n"
	if diff := cmp.Diff(want, se.Snippet()); diff != "" {
		t.Errorf("Snippet() mismatch (-want +got):\n%s", diff)
	}

	se.Position.Line = 9
	if got := se.Snippet(); got != "" {
		t.Errorf("Snippet() out of range = %q, want empty", got)
	}
}

func TestSyntaxError_UnwrapByKind(t *testing.T) {
	tests := []struct {
		kind Kind
		want error
	}{
		{KindExpected, ErrSyntax},
		{KindCommitted, ErrSyntax},
		{KindNoProgress, ErrNoProgress},
		{KindMaxDepth, ErrMaxDepthExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if err := error(&SyntaxError{Kind: tt.kind}); !errors.Is(err, tt.want) {
				t.Errorf("%v should match %v", tt.kind, tt.want)
			}
		})
	}
}

func TestSyntaxError_Commit(t *testing.T) {
	se := expected(NewSpan("x"), "number")
	c := se.commit("let binding")

	if se.Kind != KindExpected {
		t.Error("commit should not modify the receiver")
	}

	if c.Kind != KindCommitted || c.Context != "let binding" || c.Recoverable() {
		t.Errorf("committed = %+v", c)
	}

	if again := c.commit("module"); again.Context != "let binding" {
		t.Errorf("the innermost context should be kept, got %q", again.Context)
	}
}

func TestFurthest(t *testing.T) {
	s := NewSpan("abc def")
	near := expected(s, "b", "a")
	far := expected(s.Advance(4), "c")

	if got := furthest(near, far); got != far {
		t.Error("the later error should win")
	}

	if got := furthest(far, near); got != far {
		t.Error("the later error should win regardless of order")
	}

	merged := furthest(near, expected(s, "c", "a"))
	if diff := cmp.Diff([]string{"a", "b", "c"}, merged.Expected); diff != "" {
		t.Errorf("merged expected mismatch (-want +got):\n%s", diff)
	}

	if furthest(nil, near) != near || furthest(near, nil) != near {
		t.Error("a nil error should yield the other")
	}
}

func TestExpected_FoundIsTruncated(t *testing.T) {
	se := expected(NewSpan(strings.Repeat("x", 40)+"\nnext"), "y")

	if want := strings.Repeat("x", maxFoundLen) + "…"; se.Found != want {
		t.Errorf("Found = %q, want %q", se.Found, want)
	}
}

func TestFoundText(t *testing.T) {
	long := strings.Repeat("x", maxFoundLen)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc", "abc"},
		{"stops at newline", "abc\ndef", "abc"},
		{"trims carriage return", "abc\r\ndef", "abc"},
		{"exact length", long, long},
		{"exact length before crlf", long + "\r\nmore", long},
		{"one rune over", long + "y", long + "…"},
		{"multibyte runes", strings.Repeat("é", maxFoundLen+3), strings.Repeat("é", maxFoundLen) + "…"},
		{"long line", strings.Repeat("x + ", 100000), strings.Repeat("x + ", maxFoundLen/4) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foundText(NewSpan(tt.input)); got != tt.want {
				t.Errorf("foundText(%.30q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuggestKeyword(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"modul", "module"},
		{"modlue", "module"},
		{"namespce", "namespace"},
		{"lte", "let"},
		{"le", "let"},
		{"let", ""},
		{"module", ""},
		{"x", ""},
		{"value", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := suggestKeyword(tt.word); got != tt.want {
				t.Errorf("suggestKeyword(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

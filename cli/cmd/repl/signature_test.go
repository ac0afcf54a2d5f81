package repl

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ilang/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{
			name:   "typing name",
			input:  "add",
			cursor: 3,
		},
		{
			name:       "first value",
			input:      "add ",
			cursor:     4,
			wantName:   "add",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "typing first value",
			input:      "add 1",
			cursor:     5,
			wantName:   "add",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "second value",
			input:      "add 1 ",
			cursor:     6,
			wantName:   "add",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "dotted name",
			input:      "math.mul 2 ",
			cursor:     11,
			wantName:   "math.mul",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "bracketed value counts once",
			input:      "add (1, 2) ",
			cursor:     11,
			wantName:   "add",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "inside bracketed call",
			input:      "x + (inc ",
			cursor:     9,
			wantName:   "inc",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "after operator",
			input:      "a + neg ",
			cursor:     8,
			wantName:   "neg",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "function body",
			input:      "let f x = g ",
			cursor:     12,
			wantName:   "g",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:   "keyword is not a call",
			input:  "let ",
			cursor: 4,
		},
		{
			name:   "literal is not a call",
			input:  `"text" `,
			cursor: 7,
		},
		{
			name:       "string with spaces is one value",
			input:      `say "a b" `,
			cursor:     10,
			wantName:   "say",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "cursor before end",
			input:      "add 1 2",
			cursor:     4,
			wantName:   "add",
			wantIndex:  0,
			wantInCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			want := functionCall{name: tt.wantName, argIndex: tt.wantIndex, inCall: tt.wantInCall}

			if got != want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, want)
			}
		})
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"  a  b ", []string{"a", "b"}},
		{"f (1, 2) x", []string{"f", "(1, 2)", "x"}},
		{`f "a \" b" c`, []string{"f", `"a \" b"`, "c"}},
		{"f [a b] ", []string{"f", "[a b]"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitFields(tt.input)); diff != "" {
			t.Errorf("splitFields(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		source     string
		wantHead   string
		wantParams []string
		wantTail   string
	}{
		{
			source:     "let inc x =\n  x + 1",
			wantHead:   "let inc",
			wantParams: []string{"x"},
			wantTail:   " =",
		},
		{
			source:     "let inline add (a : int, b : int) : int =\n  a + b",
			wantHead:   "let inline add",
			wantParams: []string{"(a : int, b : int)"},
			wantTail:   " : int =",
		},
		{
			source:     "let pair (a, b) : int * int =\n  a",
			wantHead:   "let pair",
			wantParams: []string{"(a, b)"},
			wantTail:   " : int * int =",
		},
	}

	for _, tt := range tests {
		main, err := lang.ParseString(context.Background(), tt.source)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tt.source, err)
		}

		if main[0].Kind != lang.MainFunction {
			t.Fatalf("ParseString(%q) kind = %v, want Function", tt.source, main[0].Kind)
		}

		head, params, tail := signature(main[0].Function)
		if head != tt.wantHead || tail != tt.wantTail {
			t.Errorf("signature(%q) = (%q, _, %q), want (%q, _, %q)",
				tt.source, head, tail, tt.wantHead, tt.wantTail)
		}

		if diff := cmp.Diff(tt.wantParams, params); diff != "" {
			t.Errorf("signature(%q) params mismatch (-want +got):\n%s", tt.source, diff)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	main, err := lang.ParseString(context.Background(), "let inc x =\n  x + 1")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	// Styles render as plain text when output is not a terminal.
	if got, want := renderSignatureHint(main[0].Function, 0), "let inc x ="; got != want {
		t.Errorf("renderSignatureHint() = %q, want %q", got, want)
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	input := "let f (a, b) = outer (inner a \"s p a c e\") (mul.by b 2) "

	for b.Loop() {
		detectFunctionCall(input, len(input))
	}
}

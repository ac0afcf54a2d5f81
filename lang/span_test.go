package lang

import "testing"

func TestSpan_Advance_TracksLineAndColumn(t *testing.T) {
	s := NewSpan("ab\ncdé\nf")

	tests := []struct {
		n      int
		offset int
		line   int
		column int
		rest   string
	}{
		{n: 0, offset: 0, line: 1, column: 1, rest: "ab\ncdé\nf"},
		{n: 2, offset: 2, line: 1, column: 3, rest: "\ncdé\nf"},
		{n: 3, offset: 3, line: 2, column: 1, rest: "cdé\nf"},
		{n: 7, offset: 7, line: 2, column: 4, rest: "\nf"},
		{n: 8, offset: 8, line: 3, column: 1, rest: "f"},
		{n: 100, offset: 9, line: 3, column: 2, rest: ""},
	}

	for _, tt := range tests {
		got := s.Advance(tt.n)

		if got.Offset != tt.offset || got.Line != tt.line || got.Column != tt.column {
			t.Errorf("Advance(%d) = %d %d:%d, want %d %d:%d",
				tt.n, got.Offset, got.Line, got.Column, tt.offset, tt.line, tt.column)
		}

		if got.Fragment != tt.rest {
			t.Errorf("Advance(%d) fragment = %q, want %q", tt.n, got.Fragment, tt.rest)
		}
	}
}

func TestSpan_Split_ReturnsTokenAtOrigin(t *testing.T) {
	s := NewSpan("let x").Advance(4)

	rest, tok := s.Split(1)
	if tok.Fragment != "x" || tok.Column != 5 {
		t.Errorf("token = %q at column %d, want \"x\" at column 5", tok.Fragment, tok.Column)
	}

	if !rest.IsEmpty() || rest.Column != 6 {
		t.Errorf("rest = %q at column %d, want empty at column 6", rest.Fragment, rest.Column)
	}
}

func TestSpan_Same_IgnoresPosition(t *testing.T) {
	a := NewSpan("x\nrest").Advance(2)
	b := NewSpan("rest")

	if !a.Same(b) {
		t.Error("spans over the same text should be the same")
	}

	if a.Position() == b.Position() {
		t.Error("positions should differ")
	}

	if a.Same(NewSpan("rest!")) {
		t.Error("spans over different text should differ")
	}
}

func TestSpan_PeekAndPoint(t *testing.T) {
	s := NewSpan("éa")
	if s.Peek() != 'é' {
		t.Errorf("Peek() = %q, want 'é'", s.Peek())
	}

	if NewSpan("").Peek() != 0 {
		t.Error("Peek() on empty span should be 0")
	}

	p := s.Advance(2).Point()
	if !p.IsEmpty() || p.Column != 2 || p.Offset != 2 {
		t.Errorf("Point() = %+v, want empty at column 2", p)
	}
}

func TestPosition_String(t *testing.T) {
	p := Position{Offset: 10, Line: 3, Column: 7}
	if got := p.String(); got != "3:7" {
		t.Errorf("String() = %q, want %q", got, "3:7")
	}
}

func TestSpan_Advance_InvalidBytesAreColumns(t *testing.T) {
	got := NewSpan("a\xff\xfeb").Advance(3)

	if got.Offset != 3 || got.Line != 1 || got.Column != 4 || got.Fragment != "b" {
		t.Errorf("Advance(3) = %d %d:%d %q, want 3 1:4 \"b\"",
			got.Offset, got.Line, got.Column, got.Fragment)
	}
}

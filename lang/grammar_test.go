package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testParser(opts ...Option) *parser {
	return newParser(context.Background(), opts...)
}

// operandText renders the operand of an expression link.
func operandText(fs FunctionStatement) string {
	if fs.Kind == StatementCall {
		return "call " + JoinIdents(fs.Call.Name, ".")
	}

	return strings.TrimSpace(fs.Value.Position.Fragment)
}

func TestExpression_ChainIsRightNested(t *testing.T) {
	rest, e, err := testParser().expression(NewSpan("a + b - c"))
	if err != nil {
		t.Fatal(err)
	}

	if !rest.IsEmpty() {
		t.Errorf("rest = %q", rest.Fragment)
	}

	// Expression{a, Plus, Expression{b, Minus, Expression{c, nil, nil}}}
	if operandText(e.FunctionStatement) != "a" || e.Operation == nil || *e.Operation != OpPlus {
		t.Fatalf("first link = %q %v", operandText(e.FunctionStatement), e.Operation)
	}

	second := e.Expression
	if second == nil || operandText(second.FunctionStatement) != "b" ||
		second.Operation == nil || *second.Operation != OpMinus {
		t.Fatalf("second link = %+v", second)
	}

	third := second.Expression
	if third == nil || operandText(third.FunctionStatement) != "c" {
		t.Fatalf("third link = %+v", third)
	}

	if third.Operation != nil || third.Expression != nil {
		t.Error("last link should have no operation and no next expression")
	}

	if e.Position.Fragment != "a + b - c" || second.Position.Fragment != "b - c" {
		t.Errorf("positions = %q, %q", e.Position.Fragment, second.Position.Fragment)
	}
}

func TestExpression_Operands(t *testing.T) {
	tests := []struct {
		input string
		want  []string
		rest  string
	}{
		{input: "f x + 1", want: []string{"call f", "1"}},
		{input: "(f x) * y", want: []string{"call f", "y"}},
		{input: "(a + b) / 2", want: []string{"(a + b)", "2"}},
		{input: "m.f (1, 2) x << 3", want: []string{"call m.f", "3"}},
		{input: `"s" + x`, want: []string{`"s"`, "x"}},
		{input: "a +\n  b", want: []string{"a", "b"}},
		{input: "a\n+ b", want: []string{"a"}, rest: "\n+ b"},
		{input: "( \n a \n )", want: []string{"( \n a \n )"}},
		{input: "1 2", want: []string{"1"}, rest: " 2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, e, err := testParser().expression(NewSpan(tt.input))
			if err != nil {
				t.Fatal(err)
			}

			var got []string
			for link := range e.Links() {
				got = append(got, operandText(link.FunctionStatement))
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("operands mismatch (-want +got):\n%s", diff)
			}

			if rest.Fragment != tt.rest {
				t.Errorf("rest = %q, want %q", rest.Fragment, tt.rest)
			}
		})
	}
}

func TestExpression_MissingOperandFails(t *testing.T) {
	_, _, err := testParser().expression(NewSpan("a + "))
	if err == nil || !isRecoverable(err) {
		t.Fatalf("err = %v, want recoverable error", err)
	}
}

func TestExpression_LongChainDoesNotNest(t *testing.T) {
	src := "x" + strings.Repeat(" + x", 10000)

	rest, e, err := testParser().expression(NewSpan(src))
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for range e.Links() {
		n++
	}

	if n != 10001 || !rest.IsEmpty() {
		t.Errorf("links = %d, rest = %q", n, rest.Fragment)
	}
}

func TestFunctionCall(t *testing.T) {
	p := testParser()

	rest, call, err := p.functionCall(NewSpan(`io.print "hi" (1, x) (a + b)`))
	if err != nil {
		t.Fatal(err)
	}

	if JoinIdents(call.Name, ".") != "io.print" || len(call.Values) != 3 {
		t.Fatalf("call = %s with %d values", JoinIdents(call.Name, "."), len(call.Values))
	}

	kinds := []ValueKind{call.Values[0].Kind, call.Values[1].Kind, call.Values[2].Kind}
	if diff := cmp.Diff([]ValueKind{FunctionValueList, FunctionValueList, FunctionValueExpression}, kinds); diff != "" {
		t.Errorf("value kinds mismatch (-want +got):\n%s", diff)
	}

	if !rest.IsEmpty() {
		t.Errorf("rest = %q", rest.Fragment)
	}

	if _, _, err := testParser().functionCall(NewSpan("f")); err == nil {
		t.Error("a name without values is not a call")
	}
}

func TestModule(t *testing.T) {
	tests := []struct {
		input  string
		access *Accessibility
		name   string
	}{
		{input: "module name1.name2", name: "name1.name2"},
		{input: "module public a.b", access: ptr(AccessPublic), name: "a.b"},
		{input: "module internal a", access: ptr(AccessInternal), name: "a"},
		{input: "module private a", access: ptr(AccessPrivate), name: "a"},
		{input: "module public", name: "public"},
		{input: "module  publicity", name: "publicity"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, m, err := module(NewSpan(tt.input))
			if err != nil {
				t.Fatal(err)
			}

			if !rest.IsEmpty() {
				t.Errorf("rest = %q", rest.Fragment)
			}

			if diff := cmp.Diff(tt.access, m.Accessibility); diff != "" {
				t.Errorf("accessibility mismatch (-want +got):\n%s", diff)
			}

			if got := JoinIdents(m.ModuleName, "."); got != tt.name {
				t.Errorf("name = %q, want %q", got, tt.name)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestNamespace(t *testing.T) {
	_, ns, err := namespace(NewSpan("namespace Company.Product"))
	if err != nil {
		t.Fatal(err)
	}

	if got := JoinIdents(ns.Name, "."); got != "Company.Product" {
		t.Errorf("name = %q", got)
	}
}

func TestCommittedKeywords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		context string
	}{
		{name: "module without name", input: "module 42", context: "module"},
		{name: "namespace at end", input: "namespace", context: "namespace"},
		{name: "let without values", input: "let = 5", context: "let binding"},
		{name: "let without equals", input: "let x 1", context: "let binding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := testParser().mainStatement(NewSpan(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not a *SyntaxError", err)
			}

			if se.Kind != KindCommitted || se.Context != tt.context {
				t.Errorf("kind = %v context = %q, want committed %q", se.Kind, se.Context, tt.context)
			}
		})
	}
}

func TestFunction(t *testing.T) {
	src := "let inline add (a : int, b : int) : int =\n  a + b"

	rest, fn, err := testParser().function(NewSpan(src))
	if err != nil {
		t.Fatal(err)
	}

	if !rest.IsEmpty() {
		t.Errorf("rest = %q", rest.Fragment)
	}

	if fn.Modifier == nil || *fn.Modifier != ModifierInline {
		t.Error("expected inline modifier")
	}

	if fn.Name.Name() != "add" || fn.ParameterList.Kind != ParameterList || len(fn.ParameterList.List) != 2 {
		t.Errorf("header = %s %+v", fn.Name.Name(), fn.ParameterList)
	}

	if diff := cmp.Diff([]string{"int"}, names(fn.ReturnType)); diff != "" {
		t.Errorf("return type mismatch (-want +got):\n%s", diff)
	}

	if len(fn.FunctionBody) != 1 || fn.FunctionBody[0].Kind != BodyExpression {
		t.Fatalf("body = %+v", fn.FunctionBody)
	}

	if pos := fn.FunctionBody[0].Anchor().Position(); pos.Line != 2 || pos.Column != 3 {
		t.Errorf("body anchor = %v, want 2:3", pos)
	}
}

func TestFunction_HeaderMismatchIsRecoverable(t *testing.T) {
	for _, input := range []string{"let x = 1", "let (a, b) = p", "let f x : = 1"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := testParser().function(NewSpan(input))
			if err == nil || !isRecoverable(err) {
				t.Errorf("function(%q) = %v, want recoverable error", input, err)
			}
		})
	}
}

func TestLetBinding_Values(t *testing.T) {
	_, let, err := testParser().letBinding(NewSpan("let (a, b) c = pair"))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, let.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if let.LetPosition.Fragment != "let" || let.LetPosition.Column != 1 {
		t.Errorf("let position = %+v", let.LetPosition)
	}
}

func TestBodyStatement_Alternatives(t *testing.T) {
	tests := []struct {
		input string
		want  BodyKind
	}{
		{input: "let x = 1", want: BodyLetBinding},
		{input: "print x", want: BodyFunctionCall},
		{input: "print x + 1", want: BodyExpression},
		{input: "x", want: BodyExpression},
		{input: "(f x)", want: BodyExpression},
		{input: "42", want: BodyExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, stmt, err := testParser().bodyStatement(NewSpan(tt.input))
			if err != nil {
				t.Fatal(err)
			}

			if stmt.Kind != tt.want {
				t.Errorf("kind = %v, want %v", stmt.Kind, tt.want)
			}

			if pos := stmt.Anchor().Position(); pos.Offset != 0 {
				t.Errorf("anchor = %v, want start of statement", pos)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	_, _, err := testParser(WithMaxDepth(3)).bodyStatement(NewSpan("((((1))))"))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("err = %v, want ErrMaxDepthExceeded", err)
	}

	_, _, err = testParser(WithMaxDepth(3)).bodyStatement(NewSpan("((1))"))
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

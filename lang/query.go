package lang

import (
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query is a compiled boolean predicate over top-level statements.
//
// The predicate is an expr-lang expression evaluated against the native map
// of each statement (see [MainStatement.ToNative]), for example:
//
//	kind == "Function" && inline
//	kind == "LetBinding" && len(body) > 1
//	line > 10 && name startsWith "test"
//
// Keys absent from a statement evaluate to nil.
type Query struct {
	source  string
	program *vm.Program
}

// CompileQuery compiles predicate into a Query.
func CompileQuery(predicate string) (*Query, error) {
	program, err := expr.Compile(predicate, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrQuery.Wrap(err).With(slog.String("query", predicate))
	}

	return &Query{source: predicate, program: program}, nil
}

// String returns the predicate source.
func (q *Query) String() string { return q.source }

// Match reports whether the predicate holds for the statement. A predicate
// that does not produce a bool is an error.
func (q *Query) Match(s *MainStatement) (bool, error) {
	out, err := expr.Run(q.program, s.ToNative())
	if err != nil {
		return false, ErrQuery.Wrap(err).With(
			slog.String("query", q.source),
			slog.String("position", s.Position().String()),
		)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, ErrQuery.With(
			slog.String("query", q.source),
			slog.String("result_type", resultTypeName(out)),
		)
	}

	return ok, nil
}

// Filter returns the statements of m that match the predicate, in order.
func (q *Query) Filter(m Main) (Main, error) {
	var out Main

	for _, s := range m.Statements() {
		ok, err := q.Match(s)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, *s)
		}
	}

	return out, nil
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

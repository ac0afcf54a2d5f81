package lang

import (
	"encoding/json"
	"strings"
)

// MarshalJSON implements json.Marshaler for Main.
func (m Main) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToNative())
}

// ToNative converts the statements to native Go values: one map per
// statement, with nested slices and maps for bodies and values.
//
// Every statement map has "kind", "line", and "column" keys. Literals become
// string, int64, float64, or bool; identifier references become
// {"ident": name}.
func (m Main) ToNative() []any {
	out := make([]any, len(m))
	for i := range m {
		out[i] = m[i].ToNative()
	}

	return out
}

// ToNative converts the statement to a native map.
func (s *MainStatement) ToNative() map[string]any {
	switch s.Kind {
	case MainNamespace:
		return positioned(s.Position(), map[string]any{
			"kind": s.Kind.String(),
			"name": JoinIdents(s.Namespace.Name, "."),
		})

	case MainModule:
		var access any
		if s.Module.Accessibility != nil {
			access = s.Module.Accessibility.String()
		}

		return positioned(s.Position(), map[string]any{
			"kind":          s.Kind.String(),
			"name":          JoinIdents(s.Module.ModuleName, "."),
			"accessibility": access,
		})

	case MainFunction:
		return s.Function.ToNative()

	default:
		return s.LetBinding.ToNative()
	}
}

// ToNative converts the function to a native map.
func (f *Function) ToNative() map[string]any {
	var ret any
	if f.ReturnType != nil {
		ret = JoinIdents(f.ReturnType, " * ")
	}

	return positioned(f.Position.Position(), map[string]any{
		"kind":        MainFunction.String(),
		"name":        f.Name.Name(),
		"inline":      f.Modifier != nil && *f.Modifier == ModifierInline,
		"params":      f.ParameterList.ToNative(),
		"return_type": ret,
		"body":        bodyToNative(f.FunctionBody),
	})
}

// ToNative converts the let binding to a native map. "name" is the first
// bound identifier and "names" lists all of them.
func (l *LetBinding) ToNative() map[string]any {
	values := make([]any, len(l.ValueList))
	for i := range l.ValueList {
		values[i] = l.ValueList[i].ToNative()
	}

	names := l.Names()

	var name any
	if len(names) > 0 {
		name = names[0]
	}

	return positioned(l.LetPosition.Position(), map[string]any{
		"kind":   MainLetBinding.String(),
		"name":   name,
		"names":  names,
		"values": values,
		"body":   bodyToNative(l.FunctionBody),
	})
}

// Names returns the identifiers bound by the let binding in source order.
func (l *LetBinding) Names() []string {
	var names []string

	for _, pv := range l.ValueList {
		switch pv.Kind {
		case ParameterValue:
			names = append(names, pv.Value.Name())

		case ParameterList:
			for _, e := range pv.List {
				names = append(names, e.Value.Name())
			}
		}
	}

	return names
}

// ToNative converts a parameter list: a bare value becomes its name, a
// bracketed list becomes a slice of {"value", "type"} maps.
func (pv ParameterValueList) ToNative() any {
	if pv.Kind == ParameterValue {
		return pv.Value.Name()
	}

	list := make([]any, len(pv.List))
	for i, e := range pv.List {
		m := map[string]any{"value": e.Value.Name()}
		if e.Type != nil {
			m["type"] = JoinIdents(e.Type, " * ")
		}

		list[i] = m
	}

	return list
}

func bodyToNative(body []FunctionBodyStatement) []any {
	out := make([]any, len(body))
	for i := range body {
		out[i] = body[i].ToNative()
	}

	return out
}

// ToNative converts the body statement to a native map.
func (s *FunctionBodyStatement) ToNative() map[string]any {
	switch s.Kind {
	case BodyLetBinding:
		return s.LetBinding.ToNative()

	case BodyFunctionCall:
		return positioned(s.Anchor().Position(), s.FunctionCall.ToNative())

	default:
		return positioned(s.Anchor().Position(), s.Expression.ToNative())
	}
}

// ToNative converts the call to a native map.
func (c *FunctionCall) ToNative() map[string]any {
	args := make([]any, len(c.Values))
	for i := range c.Values {
		args[i] = c.Values[i].ToNative()
	}

	return map[string]any{
		"kind": BodyFunctionCall.String(),
		"name": JoinIdents(c.Name, "."),
		"args": args,
	}
}

// ToNative converts the chain to a native map whose "chain" is a flat list
// of {"operand", "op"} links. The last link has no "op".
func (e *Expression) ToNative() map[string]any {
	var chain []any

	for link := range e.Links() {
		m := map[string]any{}

		switch link.FunctionStatement.Kind {
		case StatementCall:
			m["operand"] = link.FunctionStatement.Call.ToNative()
		default:
			m["operand"] = link.FunctionStatement.Value.ToNative()
		}

		if link.Operation != nil {
			m["op"] = link.Operation.Symbol()
		}

		chain = append(chain, m)
	}

	return map[string]any{
		"kind":  BodyExpression.String(),
		"text":  strings.TrimSpace(e.Position.Fragment),
		"chain": chain,
	}
}

// ToNative converts the value: a single-element value list becomes its
// element, a longer list becomes a slice, and a bracketed expression becomes
// its chain map.
func (v *FunctionValue) ToNative() any {
	if v.Kind == FunctionValueExpression {
		return v.Expression.ToNative()
	}

	if len(v.ValueList) == 1 && v.Position.Peek() != '(' {
		return v.ValueList[0].ToNative()
	}

	list := make([]any, len(v.ValueList))
	for i := range v.ValueList {
		list[i] = v.ValueList[i].ToNative()
	}

	return list
}

// ToNative converts a literal to its Go value and an identifier to
// {"ident": name}.
func (v *ValueExpression) ToNative() any {
	if v.Kind == ValueTypeExpression {
		return v.Type.Value()
	}

	return map[string]any{"ident": v.Parameter.Name()}
}

func positioned(pos Position, m map[string]any) map[string]any {
	m["line"] = pos.Line
	m["column"] = pos.Column

	return m
}

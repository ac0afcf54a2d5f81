package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Print writes an indented tree of the statements to the writer.
func (m Main) Print(ctx context.Context, w io.Writer) error {
	pr := &printer{w: w}

	for _, s := range m.Statements() {
		s.print(ctx, pr, 0)
	}

	return pr.err
}

// FormatJSON writes the native form of the statements as JSON.
func (m Main) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(m.ToNative(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(m.ToNative())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the native form of the statements as YAML.
func (m Main) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, m.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// printer writes tree lines and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

// put writes one line at the given depth, joining items with ": ".
func (pr *printer) put(depth int, item ...string) {
	if pr.err != nil {
		return
	}

	_, pr.err = io.WriteString(
		pr.w,
		strings.Repeat("  ", depth)+strings.Join(item, ": ")+"\n",
	)
}

func at(label string, pos Position) string {
	return label + " (" + pos.String() + ")"
}

func (s *MainStatement) print(ctx context.Context, pr *printer, depth int) {
	switch s.Kind {
	case MainNamespace:
		pr.put(depth, at("Namespace", s.Position()), JoinIdents(s.Namespace.Name, "."))

	case MainModule:
		name := JoinIdents(s.Module.ModuleName, ".")
		if s.Module.Accessibility != nil {
			name = s.Module.Accessibility.String() + " " + name
		}

		pr.put(depth, at("Module", s.Position()), name)

	case MainFunction:
		s.Function.print(ctx, pr, depth)

	default:
		s.LetBinding.print(ctx, pr, depth)
	}
}

func (f *Function) print(ctx context.Context, pr *printer, depth int) {
	pr.put(depth, at("Function", f.Position.Position()), f.Name.Name())

	if f.Modifier != nil {
		pr.put(depth+1, "Modifier", f.Modifier.String())
	}

	pr.put(depth+1, "Parameters", f.ParameterList.source())

	if f.ReturnType != nil {
		pr.put(depth+1, "ReturnType", JoinIdents(f.ReturnType, " * "))
	}

	printBody(ctx, pr, depth+1, f.FunctionBody)
}

func (l *LetBinding) print(ctx context.Context, pr *printer, depth int) {
	values := make([]string, len(l.ValueList))
	for i, pv := range l.ValueList {
		values[i] = pv.source()
	}

	pr.put(depth, at("LetBinding", l.LetPosition.Position()), strings.Join(values, " "))
	printBody(ctx, pr, depth+1, l.FunctionBody)
}

func printBody(ctx context.Context, pr *printer, depth int, body []FunctionBodyStatement) {
	if len(body) == 0 {
		pr.put(depth, "Body", "(empty)")

		return
	}

	pr.put(depth, "Body")

	for i := range body {
		body[i].print(ctx, pr, depth+1)
	}
}

func (s *FunctionBodyStatement) print(ctx context.Context, pr *printer, depth int) {
	switch s.Kind {
	case BodyLetBinding:
		s.LetBinding.print(ctx, pr, depth)

	case BodyFunctionCall:
		s.FunctionCall.print(ctx, pr, depth, s.Anchor().Position())

	default:
		s.Expression.print(ctx, pr, depth)
	}
}

func (c *FunctionCall) print(ctx context.Context, pr *printer, depth int, pos Position) {
	pr.put(depth, at("FunctionCall", pos), JoinIdents(c.Name, "."))

	for i := range c.Values {
		c.Values[i].print(ctx, pr, depth+1)
	}
}

func (e *Expression) print(ctx context.Context, pr *printer, depth int) {
	pr.put(depth, at("Expression", e.Position.Position()), oneLine(e.Position.Fragment))

	for link := range e.Links() {
		switch link.FunctionStatement.Kind {
		case StatementCall:
			link.FunctionStatement.Call.print(ctx, pr, depth+1, link.Position.Position())
		default:
			link.FunctionStatement.Value.print(ctx, pr, depth+1)
		}

		if link.Operation != nil {
			pr.put(depth+1, "Operation", link.Operation.String())
		}
	}
}

func (v *FunctionValue) print(ctx context.Context, pr *printer, depth int) {
	if v.Kind == FunctionValueExpression {
		v.Expression.print(ctx, pr, depth)

		return
	}

	items := make([]string, len(v.ValueList))
	for i, ve := range v.ValueList {
		items[i] = ve.source()
	}

	pr.put(depth, at("ValueList", v.Position.Position()), strings.Join(items, ", "))
}

// oneLine joins the lines of src with single spaces, dropping the
// indentation and trailing space around each line break.
func oneLine(src string) string {
	var parts []string

	for line := range strings.Lines(src) {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " ")
}

// source renders the value as written, with literals in their source form.
func (v ValueExpression) source() string {
	if v.Kind == ValueTypeExpression {
		return v.Type.Kind.String() + " " + v.Type.Position.Fragment
	}

	return v.Parameter.Name()
}

// source renders the parameter list in canonical form.
func (pv ParameterValueList) source() string {
	if pv.Kind == ParameterValue {
		return pv.Value.Name()
	}

	entries := make([]string, len(pv.List))
	for i, e := range pv.List {
		entries[i] = e.Value.Name()
		if e.Type != nil {
			entries[i] += " : " + JoinIdents(e.Type, " * ")
		}
	}

	return "(" + strings.Join(entries, ", ") + ")"
}

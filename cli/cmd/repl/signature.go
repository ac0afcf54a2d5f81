package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ilang/lang"
)

// Hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// chainBreaks end the operand of an expression chain. A call can only start
// after one of them.
var chainBreaks = []string{"+", "-", "*", "/", "<<", ">>", "=", ":"}

// functionCall describes the call surrounding the cursor.
type functionCall struct {
	name     string // dotted function name
	argIndex int    // 0-based index of the value under the cursor
	inCall   bool   // whether the cursor is past the name of a call
}

// detectFunctionCall finds the call whose values the cursor is in.
//
// Calls are a dotted name followed by whitespace-separated values, so the
// operand under the cursor starts after the innermost unclosed bracket or
// the last operator. Its first field is the name; every later field is a
// value.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	start, depth := 0, 0

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')', ']':
			depth++

		case '(', '[':
			if depth == 0 {
				start = i + 1

				break scan
			}

			depth--
		}
	}

	segment := input[start:cursor]
	fields := splitFields(segment)

	for i := len(fields) - 1; i >= 0; i-- {
		if isChainBreak(fields[i]) {
			fields = fields[i+1:]

			break
		}
	}

	if len(fields) == 0 || !isCallName(fields[0]) {
		return functionCall{}
	}

	argIndex := len(fields) - 1

	// The last field is still being typed unless whitespace follows it.
	if segment == "" || !unicode.IsSpace(rune(segment[len(segment)-1])) {
		argIndex--
	}

	if argIndex < 0 {
		return functionCall{}
	}

	return functionCall{name: fields[0], argIndex: argIndex, inCall: true}
}

// splitFields splits s on whitespace outside brackets and string literals.
func splitFields(s string) []string {
	var (
		fields  []string
		depth   int
		quoted  bool
		escaped bool
		start   = -1
	)

	for i, r := range s {
		switch {
		case escaped:
			escaped = false

		case quoted && r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case quoted:

		case r == '(' || r == '[':
			depth++

		case r == ')' || r == ']':
			depth = max(depth-1, 0)

		case depth == 0 && unicode.IsSpace(r):
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		fields = append(fields, s[start:])
	}

	return fields
}

func isChainBreak(field string) bool {
	for _, op := range chainBreaks {
		if field == op {
			return true
		}
	}

	return false
}

// isCallName reports whether field is a dotted identifier that is not a
// keyword.
func isCallName(field string) bool {
	for part := range strings.SplitSeq(field, ".") {
		if part == "" || !lang.IsAlpha(rune(part[0])) || lang.IsReserved(part) {
			return false
		}

		for _, r := range part {
			if !lang.IsAlphanumeric(r) {
				return false
			}
		}
	}

	return !isKeyword(field)
}

func isKeyword(word string) bool {
	for _, kw := range lang.Keywords() {
		if kw == word {
			return true
		}
	}

	return false
}

// signature returns the header of f split into the part before its
// parameters and the parameters themselves. A bracketed parameter list is a
// single parameter.
func signature(f *lang.Function) (head string, params []string, tail string) {
	var b strings.Builder

	b.WriteString("let ")

	if f.Modifier != nil {
		b.WriteString(f.Modifier.String() + " ")
	}

	b.WriteString(f.Name.Name())

	pv := f.ParameterList
	if pv.Kind == lang.ParameterValue {
		params = []string{pv.Value.Name()}
	} else {
		entries := make([]string, len(pv.List))

		for i, e := range pv.List {
			entries[i] = e.Value.Name()
			if e.Type != nil {
				entries[i] += " : " + lang.JoinIdents(e.Type, " * ")
			}
		}

		params = []string{"(" + strings.Join(entries, ", ") + ")"}
	}

	if f.ReturnType != nil {
		tail = " : " + lang.JoinIdents(f.ReturnType, " * ")
	}

	return b.String(), params, tail + " ="
}

// renderSignatureHint renders the header of f with the parameter at argIndex
// highlighted.
func renderSignatureHint(f *lang.Function, argIndex int) string {
	head, params, tail := signature(f)

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(head))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(tail))

	return b.String()
}

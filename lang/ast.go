package lang

import (
	"iter"
	"strings"
)

// Main is the parse result of an entire source file: its top-level
// statements in source order.
//
// A Main and every node reachable from it are never modified after parsing
// and may be shared between goroutines.
type Main []MainStatement

// Ident is an identifier. The span carries both its text and its position.
type Ident struct {
	Span
}

// Name returns the identifier text.
func (id Ident) Name() string { return id.Fragment }

// ExpressionOperation is a binary operation joining two operands of an
// expression chain. It carries no precedence.
type ExpressionOperation int

const (
	// OpPlus is "+".
	OpPlus ExpressionOperation = iota

	// OpMinus is "-".
	OpMinus

	// OpMultiply is "*".
	OpMultiply

	// OpDivide is "/".
	OpDivide

	// OpShiftLeft is "<<".
	OpShiftLeft

	// OpShiftRight is ">>".
	OpShiftRight
)

// String returns the name of the operation.
func (op ExpressionOperation) String() string {
	switch op {
	case OpPlus:
		return "Plus"
	case OpMinus:
		return "Minus"
	case OpMultiply:
		return "Multiply"
	case OpDivide:
		return "Divide"
	case OpShiftLeft:
		return "ShiftLeft"
	case OpShiftRight:
		return "ShiftRight"
	default:
		return "Unknown"
	}
}

// Symbol returns the source text of the operation.
func (op ExpressionOperation) Symbol() string {
	for _, o := range operations {
		if o.op == op {
			return o.symbol
		}
	}

	return "?"
}

// Expression is one link of a right-leaning chain of operands. Operation and
// Expression are both nil on the last link.
//
// "a + b - c" is a + (b - c): three links, no precedence.
type Expression struct {
	Position          Span // source text of this link through the end of the chain
	FunctionStatement FunctionStatement
	Operation         *ExpressionOperation
	Expression        *Expression
}

// Links iterates over the chain starting at e.
func (e *Expression) Links() iter.Seq[*Expression] {
	return func(yield func(*Expression) bool) {
		for link := e; link != nil; link = link.Expression {
			if !yield(link) {
				return
			}
		}
	}
}

// StatementKind indicates which field of a FunctionStatement is set.
type StatementKind int

const (
	// StatementValue is a FunctionValue operand.
	StatementValue StatementKind = iota

	// StatementCall is a FunctionCall operand.
	StatementCall
)

// String returns a string representation of the statement kind.
func (k StatementKind) String() string {
	switch k {
	case StatementValue:
		return "FunctionValue"
	case StatementCall:
		return "FunctionCall"
	default:
		return "Unknown"
	}
}

// FunctionStatement is the operand of an expression link.
type FunctionStatement struct {
	Kind StatementKind
	// Exactly one of these will be set based on Kind
	Value *FunctionValue
	Call  *FunctionCall
}

// ValueKind indicates which field of a FunctionValue is set.
type ValueKind int

const (
	// FunctionValueList is a list of literals and identifiers.
	FunctionValueList ValueKind = iota

	// FunctionValueExpression is a bracketed expression.
	FunctionValueExpression
)

// String returns a string representation of the value kind.
func (k ValueKind) String() string {
	switch k {
	case FunctionValueList:
		return "ValueList"
	case FunctionValueExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// FunctionValue is a function argument or a standalone value.
type FunctionValue struct {
	Kind     ValueKind
	Position Span // source text of the value, brackets included
	// Exactly one of these will be set based on Kind
	ValueList  []ValueExpression
	Expression *Expression
}

// ValueExpressionKind indicates which field of a ValueExpression is set.
type ValueExpressionKind int

const (
	// ValueParameter references an identifier.
	ValueParameter ValueExpressionKind = iota

	// ValueTypeExpression is a literal.
	ValueTypeExpression
)

// String returns a string representation of the value expression kind.
func (k ValueExpressionKind) String() string {
	switch k {
	case ValueParameter:
		return "ParameterValue"
	case ValueTypeExpression:
		return "TypeExpression"
	default:
		return "Unknown"
	}
}

// ValueExpression is one element of a value list.
type ValueExpression struct {
	Kind      ValueExpressionKind
	Parameter Ident
	Type      *BasicTypeExpression
}

// BasicKind indicates the type of a literal.
type BasicKind int

const (
	// BasicString is a string literal.
	BasicString BasicKind = iota

	// BasicNumber is an integer literal.
	BasicNumber

	// BasicFloat is a floating-point literal.
	BasicFloat

	// BasicBool is true or false.
	BasicBool
)

// String returns a string representation of the literal kind.
func (k BasicKind) String() string {
	switch k {
	case BasicString:
		return "String"
	case BasicNumber:
		return "Number"
	case BasicFloat:
		return "Float"
	case BasicBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// BasicTypeExpression is a decoded literal. Only the field matching Kind is
// meaningful.
type BasicTypeExpression struct {
	Kind     BasicKind
	Position Span // source text of the literal, quotes included
	String   string
	Number   int64
	Float    float64
	Bool     bool
}

// Value returns the decoded literal as a Go value.
func (b *BasicTypeExpression) Value() any {
	switch b.Kind {
	case BasicString:
		return b.String
	case BasicNumber:
		return b.Number
	case BasicFloat:
		return b.Float
	case BasicBool:
		return b.Bool
	default:
		return nil
	}
}

// FunctionCall applies a dotted function name to one or more values.
type FunctionCall struct {
	Name   []Ident
	Values []FunctionValue
}

// LetBinding binds values to the statements of its body.
type LetBinding struct {
	LetPosition  Span // the "let" keyword
	ValueList    []ParameterValueList
	FunctionBody []FunctionBodyStatement
}

// ParameterKind indicates which field of a ParameterValueList is set.
type ParameterKind int

const (
	// ParameterValue is a single bare value.
	ParameterValue ParameterKind = iota

	// ParameterList is a bracketed list of values.
	ParameterList
)

// String returns a string representation of the parameter kind.
func (k ParameterKind) String() string {
	switch k {
	case ParameterValue:
		return "ParameterValue"
	case ParameterList:
		return "ParameterList"
	default:
		return "Unknown"
	}
}

// ParameterValueList is either a single value or a bracketed list of
// optionally typed values.
type ParameterValueList struct {
	Kind  ParameterKind
	Value Ident
	List  []ParameterValueType
}

// ParameterValueType is a value with an optional product type. Type is nil
// when no type was written.
type ParameterValueType struct {
	Value Ident
	Type  []Ident
}

// BodyKind indicates which field of a FunctionBodyStatement is set.
type BodyKind int

const (
	// BodyLetBinding is a nested let binding.
	BodyLetBinding BodyKind = iota

	// BodyFunctionCall is a function call not followed by an operation.
	BodyFunctionCall

	// BodyExpression is an expression chain.
	BodyExpression
)

// String returns a string representation of the body statement kind.
func (k BodyKind) String() string {
	switch k {
	case BodyLetBinding:
		return "LetBinding"
	case BodyFunctionCall:
		return "FunctionCall"
	case BodyExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// FunctionBodyStatement is one statement of a function or let body.
type FunctionBodyStatement struct {
	Kind BodyKind
	// Exactly one of these will be set based on Kind
	LetBinding   *LetBinding
	FunctionCall *FunctionCall
	Expression   *Expression
}

// Anchor returns the span whose position decides which body the statement
// belongs to: the "let" keyword of a let binding, or otherwise the first
// token of the statement.
func (s *FunctionBodyStatement) Anchor() Span {
	switch s.Kind {
	case BodyLetBinding:
		return s.LetBinding.LetPosition

	case BodyFunctionCall:
		return s.FunctionCall.Name[0].Span

	default:
		return s.Expression.Position
	}
}

// FunctionModifier modifies how a function is compiled.
type FunctionModifier int

const (
	// ModifierInline requests inlining.
	ModifierInline FunctionModifier = iota
)

// String returns the modifier keyword.
func (m FunctionModifier) String() string {
	if m == ModifierInline {
		return keywordInline
	}

	return "unknown"
}

// Function is a named function definition.
type Function struct {
	Modifier      *FunctionModifier
	Name          Ident
	ParameterList ParameterValueList
	ReturnType    []Ident // nil when no return type was written
	FunctionBody  []FunctionBodyStatement
	Position      Span // the "let" keyword
}

// Namespace opens a namespace for the statements that follow.
type Namespace struct {
	Name []Ident
}

// Accessibility restricts the visibility of a module.
type Accessibility int

const (
	// AccessPublic is visible everywhere.
	AccessPublic Accessibility = iota

	// AccessInternal is visible within the assembly.
	AccessInternal

	// AccessPrivate is visible within the enclosing namespace.
	AccessPrivate
)

// String returns the accessibility keyword.
func (a Accessibility) String() string {
	switch a {
	case AccessPublic:
		return keywordPublic
	case AccessInternal:
		return keywordInternal
	case AccessPrivate:
		return keywordPrivate
	default:
		return "unknown"
	}
}

// Module declares the module that the file defines.
type Module struct {
	Accessibility *Accessibility
	ModuleName    []Ident
}

// MainKind indicates which field of a MainStatement is set.
type MainKind int

const (
	// MainNamespace is a namespace declaration.
	MainNamespace MainKind = iota

	// MainModule is a module declaration.
	MainModule

	// MainFunction is a function definition.
	MainFunction

	// MainLetBinding is a top-level let binding.
	MainLetBinding
)

// String returns a string representation of the top-level statement kind.
func (k MainKind) String() string {
	switch k {
	case MainNamespace:
		return "Namespace"
	case MainModule:
		return "Module"
	case MainFunction:
		return "Function"
	case MainLetBinding:
		return "LetBinding"
	default:
		return "Unknown"
	}
}

// MainStatement is one top-level statement.
type MainStatement struct {
	Kind MainKind
	// Exactly one of these will be set based on Kind
	Namespace  *Namespace
	Module     *Module
	Function   *Function
	LetBinding *LetBinding
}

// Position returns the position of the first token of the statement.
func (s *MainStatement) Position() Position {
	switch s.Kind {
	case MainNamespace:
		return s.Namespace.Name[0].Position()
	case MainModule:
		return s.Module.ModuleName[0].Position()
	case MainFunction:
		return s.Function.Position.Position()
	default:
		return s.LetBinding.LetPosition.Position()
	}
}

// ModuleName returns the dotted module name when the first statement is a
// module declaration.
func (m Main) ModuleName() (string, bool) {
	if len(m) == 0 || m[0].Kind != MainModule {
		return "", false
	}

	return JoinIdents(m[0].Module.ModuleName, "."), true
}

// LetBindings iterates over the top-level let bindings in source order.
func (m Main) LetBindings() iter.Seq[*LetBinding] {
	return func(yield func(*LetBinding) bool) {
		for i := range m {
			if m[i].Kind != MainLetBinding {
				continue
			}

			if !yield(m[i].LetBinding) {
				return
			}
		}
	}
}

// Statements iterates over the top-level statements with their indices.
func (m Main) Statements() iter.Seq2[int, *MainStatement] {
	return func(yield func(int, *MainStatement) bool) {
		for i := range m {
			if !yield(i, &m[i]) {
				return
			}
		}
	}
}

// JoinIdents joins identifier names with sep.
func JoinIdents(ids []Ident, sep string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name()
	}

	return strings.Join(names, sep)
}

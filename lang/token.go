package lang

import "slices"

// Keywords recognized by the grammar.
const (
	keywordLet       = "let"
	keywordModule    = "module"
	keywordNamespace = "namespace"
	keywordType      = "type"
	keywordInline    = "inline"
	keywordPublic    = "public"
	keywordInternal  = "internal"
	keywordPrivate   = "private"
	keywordTrue      = "true"
	keywordFalse     = "false"
)

// reserved words can never be identifiers.
var reserved = []string{
	keywordLet,
	keywordModule,
	keywordNamespace,
	keywordType,
}

// IsReserved reports whether word is a reserved keyword.
func IsReserved(word string) bool { return slices.Contains(reserved, word) }

// ident parses an identifier: a letter or underscore followed by letters,
// digits, or underscores, excluding reserved words.
func ident(s Span) (Span, Ident, error) {
	if !IsAlpha(s.Peek()) {
		return s, Ident{}, expected(s, "identifier")
	}

	rest, tok := takeWhile(s, IsAlphanumeric)
	if IsReserved(tok.Fragment) {
		return s, Ident{}, expected(s, "identifier")
	}

	return rest, Ident{Span: tok}, nil
}

// dottedName parses one or more identifiers joined by '.'.
func dottedName(s Span) (Span, []Ident, error) {
	rest, first, err := ident(s)
	if err != nil {
		return s, nil, err
	}

	rest, more, err := many0(func(s Span) (Span, Ident, error) {
		rest, _, err := tag(".")(s)
		if err != nil {
			return s, Ident{}, err
		}

		rest, id, err := ident(rest)
		if err != nil {
			return s, Ident{}, err
		}

		return rest, id, nil
	})(rest)
	if err != nil {
		return s, nil, err
	}

	return rest, append([]Ident{first}, more...), nil
}

// parenIdent parses an identifier inside one pair of parentheses. Whitespace,
// including line breaks, may surround it.
func parenIdent(s Span) (Span, Ident, error) {
	rest, _, err := tag("(")(s)
	if err != nil {
		return s, Ident{}, err
	}

	rest, id, err := ident(blank0(rest))
	if err != nil {
		return s, Ident{}, err
	}

	rest, _, err = tag(")")(blank0(rest))
	if err != nil {
		return s, Ident{}, err
	}

	return rest, id, nil
}

// identValue parses an identifier, optionally parenthesized, and trims
// inline space on both sides.
var identValue = trimmed(alt[Ident](ident, parenIdent))

// bracketed parses p inside one pair of parentheses and trims inline space
// after the closing parenthesis.
func bracketed[T any](p parseFunc[T]) parseFunc[T] {
	return func(s Span) (Span, T, error) {
		var zero T

		rest, _, err := tag("(")(space0(s))
		if err != nil {
			return s, zero, err
		}

		rest, v, err := p(blank0(rest))
		if err != nil {
			return s, zero, err
		}

		rest, _, err = tag(")")(blank0(rest))
		if err != nil {
			return s, zero, err
		}

		return space0(rest), v, nil
	}
}

// bareType parses identifier values joined by '*'.
func bareType(s Span) (Span, []Ident, error) {
	rest, first, err := identValue(s)
	if err != nil {
		return s, nil, err
	}

	rest, more, err := many0(func(s Span) (Span, Ident, error) {
		rest, _, err := tag("*")(s)
		if err != nil {
			return s, Ident{}, err
		}

		return identValue(rest)
	})(rest)
	if err != nil {
		return s, nil, err
	}

	return rest, append([]Ident{first}, more...), nil
}

// parameterType parses a product type such as "a * b", bare or in one pair of
// parentheses. The bare form is attempted first.
var parameterType = alt[[]Ident](bareType, bracketed(bareType))

// bareValueType parses "value : type".
func bareValueType(s Span) (Span, ParameterValueType, error) {
	rest, value, err := identValue(s)
	if err != nil {
		return s, ParameterValueType{}, err
	}

	rest, _, err = tag(":")(rest)
	if err != nil {
		return s, ParameterValueType{}, err
	}

	rest, typ, err := parameterType(rest)
	if err != nil {
		return s, ParameterValueType{}, err
	}

	return rest, ParameterValueType{Value: value, Type: typ}, nil
}

// parameterValueType parses "value : type", bare or bracketed.
var parameterValueType = alt[ParameterValueType](
	bareValueType,
	bracketed(bareValueType),
)

// parameterEntry is one element of a bracketed parameter list: a typed or
// untyped value.
var parameterEntry = alt[ParameterValueType](
	parameterValueType,
	mapTo(identValue, func(_ Span, id Ident) ParameterValueType {
		return ParameterValueType{Value: id}
	}),
)

// commaSep matches a comma with any surrounding whitespace.
func commaSep(s Span) (Span, Span, error) {
	rest, tok, err := tag(",")(blank0(s))
	if err != nil {
		return s, Span{}, err
	}

	return blank0(rest), tok, nil
}

// parameterList parses the comma-separated entries of a bracketed parameter
// list. It matches the empty list.
var parameterList = separated(parameterEntry, commaSep)

// parameterValueList parses a single bare value or a bracketed parameter
// list. "()" is the empty list.
var parameterValueList = alt[ParameterValueList](
	mapTo(identValue, func(_ Span, id Ident) ParameterValueList {
		return ParameterValueList{Kind: ParameterValue, Value: id}
	}),
	mapTo(bracketed(parameterList), func(_ Span, l []ParameterValueType) ParameterValueList {
		return ParameterValueList{Kind: ParameterList, List: l}
	}),
)

// valueExpression parses a literal or an identifier.
var valueExpression = alt[ValueExpression](
	mapTo(basicLiteral, func(_ Span, lit BasicTypeExpression) ValueExpression {
		return ValueExpression{Kind: ValueTypeExpression, Type: &lit}
	}),
	mapTo(ident, func(_ Span, id Ident) ValueExpression {
		return ValueExpression{Kind: ValueParameter, Parameter: id}
	}),
)

// bracketedValues parses "(v, v, …)" without trimming the space that follows.
func bracketedValues(s Span) (Span, []ValueExpression, error) {
	rest, _, err := tag("(")(s)
	if err != nil {
		return s, nil, err
	}

	rest, values, err := separated(valueExpression, commaSep)(blank0(rest))
	if err != nil {
		return s, nil, err
	}

	rest, _, err = tag(")")(blank0(rest))
	if err != nil {
		return s, nil, err
	}

	if values == nil {
		values = []ValueExpression{}
	}

	return rest, values, nil
}

// valueList parses a single literal or identifier, or a bracketed
// comma-separated list mixing both.
var valueList = alt[[]ValueExpression](
	mapTo(valueExpression, func(_ Span, v ValueExpression) []ValueExpression {
		return []ValueExpression{v}
	}),
	bracketedValues,
)

var operations = []struct {
	symbol string
	op     ExpressionOperation
}{
	{"<<", OpShiftLeft},
	{">>", OpShiftRight},
	{"+", OpPlus},
	{"-", OpMinus},
	{"*", OpMultiply},
	{"/", OpDivide},
}

// operation parses one of the binary operation symbols.
func operation(s Span) (Span, ExpressionOperation, error) {
	for _, o := range operations {
		if s.HasPrefix(o.symbol) {
			return s.Advance(len(o.symbol)), o.op, nil
		}
	}

	symbols := make([]string, len(operations))
	for i, o := range operations {
		symbols[i] = o.symbol
	}

	return s, 0, expected(s, symbols...)
}

// Keywords returns every keyword of the grammar, reserved or contextual, in
// sorted order.
func Keywords() []string {
	kw := []string{
		keywordLet,
		keywordModule,
		keywordNamespace,
		keywordType,
		keywordInline,
		keywordPublic,
		keywordInternal,
		keywordPrivate,
		keywordTrue,
		keywordFalse,
	}
	slices.Sort(kw)

	return kw
}

package lang

// Grammar rules.
//
// Rules that recurse or nest bodies are methods on *parser so that they can
// track nesting depth and log. The others are plain functions in token.go
// and literal.go.

// expression parses a chain of operands joined by operations:
//
//	expression = operand [operation expression]
//	operand    = "(" function_call ")" | function_call | function_value
//
// An operation must sit on the same line as the operand before it; the
// operand after it may start on a later line. The chain is collected
// iteratively and linked from the end, so its length does not grow the stack.
func (p *parser) expression(s Span) (Span, Expression, error) {
	type link struct {
		start Span
		stmt  FunctionStatement
		op    *ExpressionOperation
	}

	var links []link

	rest := s

	for {
		next, stmt, err := p.operand(rest)
		if err != nil {
			return s, Expression{}, err
		}

		l := link{start: rest, stmt: stmt}
		rest = next

		afterOp, op, err := operation(space0(rest))
		if err != nil {
			links = append(links, l)

			break
		}

		l.op = &op
		links = append(links, l)
		rest = blank0(afterOp)
	}

	var chain *Expression

	for i := len(links) - 1; i >= 0; i-- {
		l := links[i]
		chain = &Expression{
			Position:          l.start.Take(rest.Offset - l.start.Offset),
			FunctionStatement: l.stmt,
			Operation:         l.op,
			Expression:        chain,
		}
	}

	return rest, *chain, nil
}

// operand parses the leftmost element of an expression link.
func (p *parser) operand(s Span) (Span, FunctionStatement, error) {
	return alt[FunctionStatement](
		p.bracketedCall,
		func(s Span) (Span, FunctionStatement, error) {
			rest, call, err := p.functionCall(s)
			if err != nil {
				return s, FunctionStatement{}, err
			}

			return rest, FunctionStatement{Kind: StatementCall, Call: &call}, nil
		},
		func(s Span) (Span, FunctionStatement, error) {
			rest, v, err := p.functionValue(s)
			if err != nil {
				return s, FunctionStatement{}, err
			}

			return rest, FunctionStatement{Kind: StatementValue, Value: &v}, nil
		},
	)(s)
}

// bracketedCall parses a function call inside parentheses.
func (p *parser) bracketedCall(s Span) (Span, FunctionStatement, error) {
	rest, _, err := tag("(")(s)
	if err != nil {
		return s, FunctionStatement{}, err
	}

	if err := p.enter(s); err != nil {
		return s, FunctionStatement{}, err
	}
	defer p.leave()

	rest, call, err := p.functionCall(blank0(rest))
	if err != nil {
		return s, FunctionStatement{}, err
	}

	rest, _, err = tag(")")(blank0(rest))
	if err != nil {
		return s, FunctionStatement{}, err
	}

	return rest, FunctionStatement{Kind: StatementCall, Call: &call}, nil
}

// functionCall parses a dotted name followed by one or more function values
// on the same line. Results are memoized by offset, since the same call is
// commonly reached through more than one alternative.
func (p *parser) functionCall(s Span) (Span, FunctionCall, error) {
	if m, ok := p.calls[s.Offset]; ok {
		if m.err != nil {
			return s, FunctionCall{}, m.err
		}

		return m.rest, m.call, nil
	}

	rest, call, err := p.parseFunctionCall(s)
	p.calls[s.Offset] = callMemo{rest: rest, call: call, err: err}

	return rest, call, err
}

func (p *parser) parseFunctionCall(s Span) (Span, FunctionCall, error) {
	rest, name, err := dottedName(s)
	if err != nil {
		return s, FunctionCall{}, err
	}

	rest, values, err := many1(func(s Span) (Span, FunctionValue, error) {
		rest, v, err := p.functionValue(space0(s))
		if err != nil {
			return s, FunctionValue{}, err
		}

		return rest, v, nil
	})(rest)
	if err != nil {
		return s, FunctionCall{}, err
	}

	return rest, FunctionCall{Name: name, Values: values}, nil
}

// functionValue parses a value list or a bracketed expression.
func (p *parser) functionValue(s Span) (Span, FunctionValue, error) {
	return alt[FunctionValue](
		mapTo(valueList, func(at Span, vs []ValueExpression) FunctionValue {
			return FunctionValue{Kind: FunctionValueList, Position: at, ValueList: vs}
		}),
		mapTo(p.bracketedExpression, func(at Span, e Expression) FunctionValue {
			return FunctionValue{Kind: FunctionValueExpression, Position: at, Expression: &e}
		}),
	)(s)
}

// bracketedExpression parses an expression inside parentheses. Line breaks
// are allowed after "(" and before ")".
func (p *parser) bracketedExpression(s Span) (Span, Expression, error) {
	rest, _, err := tag("(")(s)
	if err != nil {
		return s, Expression{}, err
	}

	if err := p.enter(s); err != nil {
		return s, Expression{}, err
	}
	defer p.leave()

	rest, e, err := p.expression(blank0(rest))
	if err != nil {
		return s, Expression{}, err
	}

	rest, _, err = tag(")")(blank0(rest))
	if err != nil {
		return s, Expression{}, err
	}

	return rest, e, nil
}

// bodyStatement parses one statement of a function or let body. A function
// call followed by an operation is left to the expression alternative.
func (p *parser) bodyStatement(s Span) (Span, FunctionBodyStatement, error) {
	return alt[FunctionBodyStatement](
		func(s Span) (Span, FunctionBodyStatement, error) {
			rest, let, err := p.letBinding(s)
			if err != nil {
				return s, FunctionBodyStatement{}, err
			}

			return rest, FunctionBodyStatement{Kind: BodyLetBinding, LetBinding: &let}, nil
		},
		func(s Span) (Span, FunctionBodyStatement, error) {
			rest, call, err := p.functionCall(s)
			if err != nil {
				return s, FunctionBodyStatement{}, err
			}

			if after := space0(rest); !after.IsEmpty() {
				if _, _, err := operation(after); err == nil {
					return s, FunctionBodyStatement{}, expected(after, "end of statement")
				}
			}

			return rest, FunctionBodyStatement{Kind: BodyFunctionCall, FunctionCall: &call}, nil
		},
		func(s Span) (Span, FunctionBodyStatement, error) {
			rest, e, err := p.expression(s)
			if err != nil {
				return s, FunctionBodyStatement{}, err
			}

			return rest, FunctionBodyStatement{Kind: BodyExpression, Expression: &e}, nil
		},
	)(s)
}

// letBinding parses "let values = body". Everything after "let" is
// committed.
func (p *parser) letBinding(s Span) (Span, LetBinding, error) {
	const rule = "let binding"

	rest, kw, err := keyword(keywordLet)(s)
	if err != nil {
		return s, LetBinding{}, err
	}

	if err := p.enter(kw); err != nil {
		return s, LetBinding{}, err
	}
	defer p.leave()

	rest, values, err := cut(many1(parameterValueList), rule)(rest)
	if err != nil {
		return s, LetBinding{}, err
	}

	rest, _, err = cut(tag("="), rule)(space0(rest))
	if err != nil {
		return s, LetBinding{}, err
	}

	rest, body, err := p.functionBody(rest, kw)
	if err != nil {
		return s, LetBinding{}, err
	}

	return rest, LetBinding{LetPosition: kw, ValueList: values, FunctionBody: body}, nil
}

// function parses "let [inline] name parameters [: type] = body". It is
// committed only after "=", so a header that does not match leaves the input
// to letBinding.
func (p *parser) function(s Span) (Span, Function, error) {
	rest, kw, err := keyword(keywordLet)(s)
	if err != nil {
		return s, Function{}, err
	}

	var fn Function

	fn.Position = kw
	rest = space0(rest)

	if next, _, err := keyword(keywordInline)(rest); err == nil {
		mod := ModifierInline
		fn.Modifier = &mod
		rest = space0(next)
	}

	rest, fn.Name, err = ident(rest)
	if err != nil {
		return s, Function{}, err
	}

	rest, fn.ParameterList, err = parameterValueList(rest)
	if err != nil {
		return s, Function{}, err
	}

	if next, _, err := tag(":")(space0(rest)); err == nil {
		rest, fn.ReturnType, err = parameterType(next)
		if err != nil {
			return s, Function{}, err
		}
	}

	rest, _, err = tag("=")(space0(rest))
	if err != nil {
		return s, Function{}, err
	}

	if err := p.enter(kw); err != nil {
		return s, Function{}, err
	}
	defer p.leave()

	rest, fn.FunctionBody, err = p.functionBody(rest, kw)
	if err != nil {
		return s, Function{}, err
	}

	return rest, fn, nil
}

// namespace parses "namespace a.b.c".
func namespace(s Span) (Span, Namespace, error) {
	rest, _, err := keyword(keywordNamespace)(s)
	if err != nil {
		return s, Namespace{}, err
	}

	rest, name, err := cut(dottedName, "namespace")(space0(rest))
	if err != nil {
		return s, Namespace{}, err
	}

	return rest, Namespace{Name: name}, nil
}

var accessibilities = []struct {
	keyword string
	access  Accessibility
}{
	{keywordPublic, AccessPublic},
	{keywordInternal, AccessInternal},
	{keywordPrivate, AccessPrivate},
}

// accessibleName parses an accessibility keyword followed by a dotted name.
func accessibleName(s Span) (Span, Module, error) {
	for _, a := range accessibilities {
		rest, _, err := keyword(a.keyword)(s)
		if err != nil {
			continue
		}

		rest, name, err := dottedName(space0(rest))
		if err != nil {
			return s, Module{}, err
		}

		access := a.access

		return rest, Module{Accessibility: &access, ModuleName: name}, nil
	}

	return s, Module{}, expected(s, keywordPublic, keywordInternal, keywordPrivate)
}

// module parses "module [public|internal|private] a.b.c". An accessibility
// keyword with no name after it is taken as the name.
func module(s Span) (Span, Module, error) {
	rest, _, err := keyword(keywordModule)(s)
	if err != nil {
		return s, Module{}, err
	}

	return cut(alt[Module](
		accessibleName,
		mapTo(dottedName, func(_ Span, name []Ident) Module {
			return Module{ModuleName: name}
		}),
	), "module")(space0(rest))
}

// mainStatement parses one top-level statement.
func (p *parser) mainStatement(s Span) (Span, MainStatement, error) {
	return alt[MainStatement](
		mapTo(namespace, func(_ Span, ns Namespace) MainStatement {
			return MainStatement{Kind: MainNamespace, Namespace: &ns}
		}),
		mapTo(module, func(_ Span, m Module) MainStatement {
			return MainStatement{Kind: MainModule, Module: &m}
		}),
		mapTo(p.function, func(_ Span, fn Function) MainStatement {
			return MainStatement{Kind: MainFunction, Function: &fn}
		}),
		mapTo(p.letBinding, func(_ Span, let LetBinding) MainStatement {
			return MainStatement{Kind: MainLetBinding, LetBinding: &let}
		}),
	)(s)
}

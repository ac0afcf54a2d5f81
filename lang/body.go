package lang

import "log/slog"

// functionBody collects the statements of a function or let body. The body
// has no closing token; its extent is decided from the position of each
// statement's anchor:
//
//   - The first statement is accepted unless it is a let binding on line 1,
//     which leaves the body empty and the binding to the enclosing scope.
//   - A later statement is accepted only if it starts on a later line than
//     the previous one, at the same or a greater column, and to the right of
//     the opener (the "let" keyword that introduced the body).
//   - A statement that fails to parse recoverably ends the body.
//
// A rejected statement is never consumed; the returned span starts before
// it so the enclosing body or the top level can parse it.
//
// A statement's anchor is always the first character after the whitespace
// that precedes it, since a let binding starts with its "let" keyword. The
// layout test is therefore applied before the statement is parsed.
func (p *parser) functionBody(s Span, opener Span) (Span, []FunctionBodyStatement, error) {
	return p.layoutBody(s, opener, p.bodyStatement)
}

// layoutBody applies the body layout rules to the statements produced by
// stmt. A statement that consumes no input fails with KindNoProgress.
func (p *parser) layoutBody(
	s, opener Span,
	stmt parseFunc[FunctionBodyStatement],
) (Span, []FunctionBodyStatement, error) {
	var (
		body []FunctionBodyStatement
		prev Position
		rest = s
	)

	for {
		start := blank0(rest)
		if start.IsEmpty() {
			return rest, body, nil
		}

		anchor := start.Position()

		if reason := layoutReject(start, anchor, prev, opener.Position(), len(body)); reason != "" {
			p.logger.TraceContext(p.ctx, "body end",
				slog.String("reason", reason),
				slog.String("anchor", anchor.String()),
				slog.String("opener", opener.Position().String()),
				slog.Int("statements", len(body)),
			)

			return rest, body, nil
		}

		next, st, err := stmt(start)
		if err != nil {
			if isRecoverable(err) {
				p.logger.TraceContext(p.ctx, "body end",
					slog.String("reason", "no statement"),
					slog.String("anchor", anchor.String()),
					slog.Int("statements", len(body)),
				)

				return rest, body, nil
			}

			return s, nil, err
		}

		if next.Same(start) {
			return s, nil, noProgress(start)
		}

		p.logger.TraceContext(p.ctx, "body statement",
			slog.String("kind", st.Kind.String()),
			slog.String("anchor", st.Anchor().Position().String()),
			slog.String("opener", opener.Position().String()),
		)

		body = append(body, st)
		prev = anchor
		rest = next
	}
}

// layoutReject returns why a statement anchored at anchor cannot continue
// the current body, or "" if it can.
func layoutReject(
	start Span,
	anchor, prev, opener Position,
	count int,
) string {
	if count == 0 {
		if anchor.Line == 1 && startsLetBinding(start) {
			return "let binding on first line"
		}

		return ""
	}

	switch {
	case anchor.Line <= prev.Line:
		return "same line as previous statement"

	case anchor.Column < prev.Column:
		return "dedent from previous statement"

	case anchor.Column <= opener.Column:
		return "not indented past opener"

	default:
		return ""
	}
}

// startsLetBinding reports whether a body statement at s can only be a let
// binding. No other statement may begin with the reserved word "let".
func startsLetBinding(s Span) bool {
	_, _, err := keyword(keywordLet)(s)

	return err == nil
}

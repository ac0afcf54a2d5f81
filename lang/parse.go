package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/ilang/log"
)

// DefaultMaxDepth is the default maximum nesting depth of brackets and let
// bodies.
const DefaultMaxDepth = 256

// Option configures parsing behavior.
type Option func(*parser)

// WithMaxDepth sets the maximum nesting depth of brackets and let bodies.
// A depth of zero or less disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

// WithoutCache parses without reading or filling the process-wide cache.
// Any option bypasses the cache; this one changes nothing else.
func WithoutCache() Option {
	return func(*parser) {}
}

// parser holds the state of one parse. Grammar rules never modify the input;
// the only mutable state is the nesting depth and the call memo.
type parser struct {
	ctx      context.Context
	logger   log.Logger
	maxDepth int
	depth    int
	calls    map[int]callMemo
}

type callMemo struct {
	rest Span
	call FunctionCall
	err  error
}

func newParser(ctx context.Context, opts ...Option) *parser {
	p := &parser{
		ctx:      ctx,
		maxDepth: DefaultMaxDepth,
		calls:    make(map[int]callMemo),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// enter increments the nesting depth, failing once it exceeds the maximum.
func (p *parser) enter(at Span) error {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		p.logger.DebugContext(p.ctx, "max depth exceeded",
			slog.Int("max_depth", p.maxDepth),
			slog.String("position", at.Position().String()),
		)

		return &SyntaxError{
			Kind:     KindMaxDepth,
			Position: at.Position(),
			Found:    foundText(at),
		}
	}

	p.depth++

	return nil
}

func (p *parser) leave() { p.depth-- }

// ParseString parses source text into its top-level statements.
//
// Without options the result is shared through a process-wide cache keyed by
// the source text; see [ClearCache]. Callers that parse many distinct,
// short-lived sources should pass [WithoutCache].
func ParseString(ctx context.Context, s string, opts ...Option) (Main, error) {
	if len(opts) == 0 {
		return cachedParse(ctx, s)
	}

	return parse(ctx, s, opts...)
}

func parse(ctx context.Context, s string, opts ...Option) (Main, error) {
	p := newParser(ctx, opts...)

	p.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(s)),
		slog.Int("max_depth", p.maxDepth),
	)

	main, err := p.main(NewSpan(s))
	if err != nil {
		if se, ok := asSyntaxError(err); ok {
			withSource := *se
			withSource.Source = s
			err = &withSource
		}

		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(main)),
	)

	return main, nil
}

// main parses one or more top-level statements separated by whitespace and
// requires the whole input to be consumed.
func (p *parser) main(s Span) (Main, error) {
	rest := blank0(s)
	if rest.IsEmpty() {
		return nil, ErrEmptySource
	}

	var out Main

	for !rest.IsEmpty() {
		next, stmt, err := p.mainStatement(rest)
		if err != nil {
			if isRecoverable(err) {
				return nil, p.trailing(rest, err)
			}

			return nil, err
		}

		p.logger.TraceContext(p.ctx, "statement",
			slog.String("kind", stmt.Kind.String()),
			slog.String("position", stmt.Position().String()),
		)

		out = append(out, stmt)
		rest = blank0(next)
	}

	return out, nil
}

// trailing builds the diagnostic for input that no top-level statement
// matches. A misspelled keyword is reported first. Otherwise a body statement
// is attempted there, so that a statement which fails part way through
// reports its furthest position.
func (p *parser) trailing(rest Span, err error) error {
	miss, _ := asSyntaxError(err)

	_, word := takeWhile(rest, IsAlphanumeric)
	if kw := suggestKeyword(word.Fragment); kw != "" && miss.Position.Offset == rest.Offset {
		hinted := *miss
		hinted.Hint = `did you mean "` + kw + `"?`

		return &hinted
	}

	_, _, stmtErr := p.bodyStatement(rest)
	if stmtErr == nil {
		hinted := *miss
		hinted.Hint = "statement is not part of any let body; check its indentation"

		return &hinted
	}

	if se, ok := asSyntaxError(stmtErr); ok {
		if !se.Recoverable() {
			return se
		}

		miss = furthest(miss, se)
	}

	return miss
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/ilang/lang"
)

// Query prints the top-level statements for which an expression holds.
type Query struct {
	Format string `default:"list" enum:"list,tree,json,yaml" help:"Output format (${enum})."                           short:"f"`
	Indent int    `default:"2"                               help:"Indent width for JSON and YAML output (0 is compact)." short:"i"`
	Count  bool   `                                          help:"Print only the number of matches."                     short:"c"`

	Expr   string   `arg:"" help:"Boolean expr-lang predicate over statement fields (kind, name, line, column, body, ...)." name:"expr"`
	Source []string `arg:"" help:"Source files, or '-' for stdin."                                                          name:"source" optional:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	query, err := lang.CompileQuery(q.Expr)
	if err != nil {
		return ErrQuery.Wrap(err)
	}

	sources, err := ResolveSources(ctx, q.Source)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	total := 0

	for i, src := range sources {
		main, err := src.Parse(ctx)
		if err != nil {
			return err
		}

		matches, err := query.Filter(main)
		if err != nil {
			return ErrQuery.With(slog.String("source", src.String())).Wrap(err)
		}

		total += len(matches)

		if q.Count {
			continue
		}

		if q.Format == formatList {
			for j := range matches {
				if _, err := fmt.Fprintln(w, listLine(src, &matches[j])); err != nil {
					return ErrFormat.Wrap(err)
				}
			}

			continue
		}

		if len(sources) > 1 {
			if err := writeHeader(w, q.Format, i, src); err != nil {
				return ErrFormat.Wrap(err)
			}
		}

		if err := writeMain(ctx, w, matches, q.Format, q.Indent); err != nil {
			return ErrFormat.With(slog.String("format", q.Format)).Wrap(err)
		}
	}

	if q.Count {
		if _, err := fmt.Fprintln(w, total); err != nil {
			return ErrFormat.Wrap(err)
		}
	}

	return nil
}

// listLine formats a match as "source:line:column: Kind name".
func listLine(src Source, s *lang.MainStatement) string {
	pos := s.Position()
	line := fmt.Sprintf("%s:%d:%d: %s", src, pos.Line, pos.Column, s.Kind)

	if name, ok := s.ToNative()["name"].(string); ok && name != "" {
		line += " " + name
	}

	return line
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/log"
)

// Output formats shared by the parse and query commands.
const (
	formatTree = "tree"
	formatJSON = "json"
	formatYAML = "yaml"
	formatList = "list"
)

// Parse prints the syntax tree of each source.
type Parse struct {
	Format string `default:"tree" enum:"tree,json,yaml" help:"Output format (${enum})."                           short:"f"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output (0 is compact)." short:"i"`

	Source []string `arg:"" help:"Source files, or '-' for stdin." name:"source" optional:""`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources, err := ResolveSources(ctx, p.Source)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for i, src := range sources {
		main, err := src.Parse(ctx)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "parsed source",
			slog.String("source", src.String()),
			slog.Int("statements", len(main)),
		)

		if len(sources) > 1 {
			if err := writeHeader(w, p.Format, i, src); err != nil {
				return ErrFormat.Wrap(err)
			}
		}

		if err := writeMain(ctx, w, main, p.Format, p.Indent); err != nil {
			return ErrFormat.
				With(slog.String("format", p.Format)).
				Wrap(err)
		}
	}

	return nil
}

// writeHeader separates the output of consecutive sources.
func writeHeader(w io.Writer, format string, index int, src Source) error {
	var err error

	switch format {
	case formatYAML:
		if index > 0 {
			_, err = io.WriteString(w, "---\n")
		}

		if err == nil {
			_, err = fmt.Fprintf(w, "# %s\n", src)
		}

	case formatTree, formatList:
		if index > 0 {
			_, err = io.WriteString(w, "\n")
		}

		if err == nil {
			_, err = fmt.Fprintf(w, "%s:\n", src)
		}
	}

	return err
}

func writeMain(
	ctx context.Context,
	w io.Writer,
	main lang.Main,
	format string,
	indent int,
) error {
	switch format {
	case formatJSON:
		return main.FormatJSON(ctx, w, indent)
	case formatYAML:
		return main.FormatYAML(ctx, w, indent)
	default:
		return main.Print(ctx, w)
	}
}

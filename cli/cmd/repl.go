package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ilang/cli/cmd/repl"
	"github.com/ardnew/ilang/log"
)

// Repl parses source interactively, one line at a time.
type Repl struct {
	NoHistory bool   `help:"Do not read or write the history file."`
	Source    string `arg:"" help:"Source file loaded before the first prompt." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		Logger:  log.Default().With(slog.String("command", "repl")),
		Options: settingsFrom(ctx).parseOptions(ctx),
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	if r.Source != "" {
		sources, err := ResolveSources(ctx, []string{r.Source})
		if err != nil {
			return err
		}

		src := sources[0]
		if src.IsStdin() {
			return ErrReadSource.
				With(slog.String("source", src.String())).
				Wrap(repl.ErrStdinSource)
		}

		f, err := src.Open()
		if err != nil {
			return ErrReadSource.With(slog.String("source", src.String())).Wrap(err)
		}
		defer f.Close()

		cfg.Source, cfg.Name = f, src.String()
	}

	if err := repl.Run(ctx, cfg); err != nil {
		return ErrRepl.Wrap(err)
	}

	return nil
}

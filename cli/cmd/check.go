package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/log"
)

// watchDebounce is how long the watcher waits for a burst of file events to
// settle before checking again.
const watchDebounce = 150 * time.Millisecond

// Check reports syntax errors in each source.
type Check struct {
	Jobs  int  `default:"0" help:"Number of sources checked in parallel (0 uses GOMAXPROCS)." short:"j"`
	Watch bool `            help:"Check again whenever a source file changes."                  short:"w"`
	Quiet bool `            help:"Print only the summary line."                                 short:"q"`

	Source []string `arg:"" help:"Source files, or '-' for stdin." name:"source" optional:""`
}

// checkResult is the outcome of checking one source.
type checkResult struct {
	source     Source
	bytes      int
	statements int
	err        error
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources, err := ResolveSources(ctx, c.Source)
	if err != nil {
		return err
	}

	if !c.Watch {
		return c.checkAndReport(ctx, sources)
	}

	for _, src := range sources {
		if src.IsStdin() {
			return ErrWatch.Wrap(errors.New("cannot watch stdin"))
		}
	}

	return c.watch(ctx, sources)
}

// checkAndReport checks every source, prints the diagnostics and summary,
// and returns [ErrCheckFailed] if any source has errors.
func (c *Check) checkAndReport(ctx context.Context, sources []Source) error {
	start := time.Now()

	results, err := c.check(ctx, sources)
	if err != nil {
		return err
	}

	failed := report(stderr(ctx), results, time.Since(start), c.Quiet)
	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("sources", len(results)),
		)
	}

	return nil
}

// check parses sources concurrently. Parse failures are recorded in the
// results; only cancellation is returned as an error.
func (c *Check) check(ctx context.Context, sources []Source) ([]checkResult, error) {
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]checkResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = checkSource(gctx, src)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func checkSource(ctx context.Context, src Source) checkResult {
	res := checkResult{source: src}

	r, err := src.Open()
	if err != nil {
		res.err = ErrReadSource.With(slog.String("source", src.String())).Wrap(err)

		return res
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		res.err = ErrReadSource.With(slog.String("source", src.String())).Wrap(err)

		return res
	}

	res.bytes = len(data)

	main, err := lang.ParseString(ctx, string(data), settingsFrom(ctx).parseOptions(ctx)...)
	if err != nil {
		res.err = err

		return res
	}

	res.statements = len(main)

	log.DebugContext(ctx, "checked source",
		slog.String("source", src.String()),
		slog.Int("statements", res.statements),
	)

	return res
}

// report writes one diagnostic per failed source followed by a summary line
// and returns the number of failed sources.
func report(w io.Writer, results []checkResult, elapsed time.Duration, quiet bool) int {
	var (
		failed     int
		bytes      int
		statements int
	)

	for _, res := range results {
		bytes += res.bytes
		statements += res.statements

		if res.err == nil {
			continue
		}

		failed++

		if !quiet {
			fmt.Fprint(w, diagnostic(res))
		}
	}

	status := "ok"
	if failed > 0 {
		status = english.Plural(failed, "error", "")
	}

	fmt.Fprintf(w, "checked %s (%s, %s) in %s: %s\n",
		english.Plural(len(results), "source", ""),
		humanize.Bytes(uint64(bytes)),
		english.Plural(statements, "statement", ""),
		elapsed.Round(time.Microsecond),
		status,
	)

	return failed
}

// diagnostic formats a failed result as "name:line:column: message" followed
// by the source snippet when the failure is a syntax error.
func diagnostic(res checkResult) string {
	var se *lang.SyntaxError
	if !errors.As(res.err, &se) {
		return fmt.Sprintf("%s: %v\n", res.source, res.err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s:%d:%d: %s\n", res.source, se.Position.Line, se.Position.Column, se.Summary())

	if snippet := se.Snippet(); snippet != "" {
		b.WriteString(snippet)
	}

	return b.String()
}

// watch checks sources once and again after each change until ctx is done.
func (c *Check) watch(ctx context.Context, sources []Source) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Directories are watched so that editors replacing files on save keep
	// generating events.
	watched := make(map[string]struct{}, len(sources))
	dirs := make(map[string]struct{})

	for _, src := range sources {
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			return ErrWatch.Wrap(err)
		}

		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return ErrWatch.With(slog.String("dir", dir)).Wrap(err)
		}
	}

	run := func() {
		log.TraceContext(ctx, "clearing parse cache",
			slog.Int("entries", lang.CacheLen()),
		)
		lang.ClearCache()

		if err := c.checkAndReport(ctx, sources); err != nil &&
			!errors.Is(err, ErrCheckFailed) {
			log.WarnContext(ctx, "check failed", slog.Any("error", err))
		}
	}

	run()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, hit := watched[filepath.Clean(ev.Name)]; !hit ||
				!ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			log.TraceContext(ctx, "source changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-debounce.C:
			fmt.Fprintf(stderr(ctx), "\n%s\n", time.Now().Format(time.TimeOnly))
			run()
		}
	}
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/log"
	"github.com/ardnew/ilang/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// Settings are the global options shared by every command.
type Settings struct {
	// SearchPath lists directories searched for relative source names not
	// found in the working directory.
	SearchPath []string
	// MaxDepth limits the nesting of brackets and let bodies. Zero or less
	// disables the limit.
	MaxDepth int
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	if s, ok := ctx.Value(settingsKey{}).(Settings); ok {
		return s
	}

	return Settings{MaxDepth: lang.DefaultMaxDepth}
}

// parseOptions returns the parser options for s. With the default depth and
// tracing disabled no options are returned, so parses share the cache.
func (s Settings) parseOptions(ctx context.Context) []lang.Option {
	var opts []lang.Option

	if s.MaxDepth != lang.DefaultMaxDepth {
		opts = append(opts, lang.WithMaxDepth(s.MaxDepth))
	}

	if logger := log.Default(); logger.Enabled(ctx, log.LevelTrace) {
		opts = append(opts, lang.WithLogger(logger))
	}

	return opts
}

// Source is one input to a command.
type Source struct {
	// Name is the name as given on the command line, or "-" for stdin.
	Name string
	// Path is the resolved file path. It is empty for stdin.
	Path string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// IsStdin reports whether the source is standard input.
func (s Source) IsStdin() bool { return s.Path == "" }

// String returns the name used in diagnostics.
func (s Source) String() string {
	if s.IsStdin() {
		return "<stdin>"
	}

	return s.Name
}

// Open opens the source for reading.
func (s Source) Open() (io.ReadCloser, error) {
	if s.IsStdin() {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(s.Path)
}

// Parse reads and parses the source with the settings stored in ctx.
func (s Source) Parse(ctx context.Context) (lang.Main, error) {
	r, err := s.Open()
	if err != nil {
		return nil, ErrReadSource.With(slog.String("source", s.String())).Wrap(err)
	}
	defer r.Close()

	main, err := lang.ParseReader(ctx, r, settingsFrom(ctx).parseOptions(ctx)...)
	if err != nil {
		return nil, ErrParse.With(slog.String("source", s.String())).Wrap(err)
	}

	return main, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// ResolveSources maps command-line names to sources in order.
//
// Relative names not found in the working directory are looked up on the
// search path stored in ctx. Names resolving to a file already listed are
// dropped, and every "-" collapses into a single stdin source placed last.
// An empty list yields a single stdin source.
func ResolveSources(ctx context.Context, names []string) ([]Source, error) {
	if len(names) == 0 {
		return []Source{{Name: stdinSource}}, nil
	}

	var (
		sources  []Source
		hasStdin bool
		seen     = make(map[fileKey]struct{})
		path     = settingsFrom(ctx).SearchPath
	)

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		found, err := pkg.FindSource(name, path)
		if err != nil {
			return nil, ErrReadSource.Wrap(err)
		}

		if key, ok := statKey(found); ok {
			if _, dup := seen[key]; dup {
				log.DebugContext(ctx, "duplicate source dropped",
					slog.String("source", name))

				continue
			}

			seen[key] = struct{}{}
		}

		sources = append(sources, Source{Name: name, Path: found})
	}

	if hasStdin {
		sources = append(sources, Source{Name: stdinSource})
	}

	return sources, nil
}

// statKey returns the identity of the file at path after resolving symlinks.
func statKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	//nolint:unconvert // Dev is narrower than uint64 on some platforms.
	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}

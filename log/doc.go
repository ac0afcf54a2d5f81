// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is immutable: its configuration is fixed by the functional
// options given to [Make] or [Logger.Wrap], so loggers can be shared between
// goroutines without locking. The zero Logger discards everything, which
// lets libraries accept an optional logger without nil checks.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//	logger.Info("parsed", slog.String("file", name), slog.Int("statements", n))
//
// # Levels
//
// In addition to slog's levels the package defines [LevelTrace], used for
// per-decision parser tracing. Levels marshal to and from their lowercase
// names, so they can be used directly as flag or config values.
//
// # Output
//
// [FormatText] and [FormatJSON] select slog's handlers. With [WithPretty]
// both are replaced by a terminal-oriented handler styled with lipgloss;
// styles degrade to plain text when the output is not a terminal.
//
// # Package-level logger
//
// The package functions ([Info], [Warn], ...) write through [Default], which
// is reconfigured with [Config]. Context-unaware calls use
// [DefaultContextProvider].
package log

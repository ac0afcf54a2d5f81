package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/ilang/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("parsed", slog.String("file", "main.il"), slog.Int("statements", 4))
	// Output:
	// {"level":"INFO","msg":"parsed","file":"main.il","statements":4}
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false)).
		With(slog.String("command", "check"))

	logger.Warn("no input files")
	// Output:
	// level=WARN msg="no input files" command=check
}

func ExampleLevel_UnmarshalText() {
	var level log.Level
	if err := level.UnmarshalText([]byte("TRACE")); err != nil {
		panic(err)
	}

	os.Stdout.WriteString(level.String() + "\n")
	// Output:
	// trace
}

// Package cli contains the command line interface for ilang.
//
// # Usage
//
//	ilang [flags] [parse] [source ...]
//	ilang check [--jobs N] [--watch] [source ...]
//	ilang query <expr> [source ...]
//	ilang repl [source]
//	ilang init [--force] [--stdout]
//	ilang version [--short]
//
// Sources are file names or "-" for standard input. Relative names not found
// in the working directory are looked up in each --path (-I) directory and
// then in the directories listed in $ILANG_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/ilang/config.yaml). Keys name flags and
// nested mappings are joined with "-":
//
//	max-depth: 64
//	path: [lib, vendor]
//	log:
//	  level: debug
//	  format: text
//
// "ilang init" writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ilang .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/ilang/pprof)
//
// # Examples
//
//	# Check every source under src/ using four workers
//	ilang check -j 4 src/*.il
//
//	# List the inline functions of a module as JSON
//	ilang query -f json 'kind == "Function" && inline' app.il
//
//	# Trace the parser's layout decisions
//	ilang --log-level=trace --log-format=text parse app.il
package cli

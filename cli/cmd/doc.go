// Package cmd implements the ilang subcommands: parse, check, query, repl,
// init and version.
//
// Commands receive their shared settings (search path, nesting limit) and
// the [kong.Context] through the [context.Context] passed to Run, see
// [WithContext] and [WithSettings].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)

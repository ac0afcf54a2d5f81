package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ilang/log"
)

// resolve is a [kong.ConfigurationLoader] reading flag defaults from a YAML
// document.
//
// Keys name flags. Nested mappings are joined with "-", so both
//
//	log-level: debug
//
// and
//
//	log:
//	  level: debug
//
// set --log-level. Underscores may stand in for hyphens. Scalars are passed
// to kong as strings and sequences as lists of strings. An empty document is
// an empty configuration; an invalid one is logged and ignored.
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring invalid configuration file", slog.Any("error", err))
		}

		return config{}, nil
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened YAML keys.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten adds the entries of m to c, prefixing nested keys with their
// parents' keys.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := val.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		if v, ok := flagValue(val); ok {
			c[key] = v
		}
	}
}

// flagValue converts a decoded YAML value to the form kong parses. Nulls are
// dropped.
func flagValue(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false

	case string:
		return v, true

	case []any:
		items := make([]any, 0, len(v))

		for _, item := range v {
			if s, ok := flagValue(item); ok {
				items = append(items, s)
			}
		}

		return items, true

	default:
		// Kong requires numbers and booleans as strings for parsing.
		return fmt.Sprint(v), true
	}
}

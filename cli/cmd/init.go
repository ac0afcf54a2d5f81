package cmd

import (
	"context"
	"encoding"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ilang/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of a generated configuration file.
const configFileMode os.FileMode = 0o600

// ignoredFlagPrefixes name flags never written to the configuration file.
var ignoredFlagPrefixes = []string{"help", "pprof", "version"}

// Init generates a configuration file with the current flag values.
type Init struct {
	Force  bool `help:"Overwrite existing configuration file." short:"f"`
	Stdout bool `help:"Print the configuration instead of writing it."`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	data, err := marshalConfig(ktx)
	if err != nil {
		return ErrWriteConfig.Wrap(err)
	}

	if i.Stdout {
		_, err = stdout(ctx).Write(data)

		return err
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err := os.WriteFile(confPath, data, configFileMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// marshalConfig renders the current values of the global flags as YAML, one
// key per flag in declaration order. Unset flags and flags of subcommands are
// omitted.
func marshalConfig(ktx *kong.Context) ([]byte, error) {
	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlagPrefixes, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := configValue(ktx.FlagValue(flag)); ok {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return yaml.MarshalWithOptions(doc, yaml.Indent(defaultConfigIndent))
}

// configValue converts a flag value to a YAML-friendly value. Text
// marshalers are written as their text form, and zero strings and empty
// slices are reported as unset.
func configValue(val any) (any, bool) {
	if val == nil {
		return nil, false
	}

	if m, ok := val.(encoding.TextMarshaler); ok {
		text, err := m.MarshalText()
		if err != nil || len(text) == 0 {
			return nil, false
		}

		return string(text), true
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil, false
		}

		return rv.String(), true

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		items := make([]any, 0, rv.Len())

		for i := range rv.Len() {
			if item, ok := configValue(rv.Index(i).Interface()); ok {
				items = append(items, item)
			}
		}

		return items, len(items) > 0

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}

		return configValue(rv.Elem().Interface())
	}

	return val, true
}

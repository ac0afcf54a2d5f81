package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ilang/cli/cmd"
	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/pkg"
)

// CLI is the top-level command-line interface for ilang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path     []string `help:"Directory searched for sources not found in the working directory (repeatable)." placeholder:"DIR" short:"I" type:"path"`
	MaxDepth int      `default:"${maxDepth}"                                                                      help:"Maximum nesting of brackets and let bodies (0 disables the limit)."`

	Parse   cmd.Parse   `cmd:"" default:"withargs" help:"Print the syntax tree of each source."`
	Check   cmd.Check   `cmd:""                   help:"Report syntax errors in each source."`
	Query   cmd.Query   `cmd:""                   help:"Print the statements matching a predicate."`
	Repl    cmd.Repl    `cmd:""                   help:"Parse statements interactively."`
	Init    cmd.Init    `cmd:""                   help:"Initialize configuration file."`
	Version cmd.Version `cmd:""                   help:"Print version information."`
}

// Run executes the ilang CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that errors reported while
	// parsing use the requested format regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cmd.Settings{
		SearchPath: pkg.SearchPath(cli.Path...),
		MaxDepth:   cli.MaxDepth,
	})

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

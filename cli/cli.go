package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/gentmpl/cli/cmd"
	"github.com/ardnew/gentmpl/log"
	"github.com/ardnew/gentmpl/pkg"
	"github.com/ardnew/gentmpl/profile"
	"github.com/ardnew/gentmpl/tmpl"
)

// CLI is the top-level command-line interface for gentmpl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render cmd.Render `cmd:"" help:"Render a template against a definitions model"`
	Check  cmd.Check  `cmd:"" help:"Parse templates and report errors"`
	Tokens cmd.Tokens `cmd:"" help:"Print the tokens of a template"`
	Tree   cmd.Tree   `cmd:"" help:"Print the parsed node tree of a template"`
	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
}

// Run executes the gentmpl CLI with the given context and arguments.
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
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
		"maxDepth":           strconv.Itoa(tmpl.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log flags are applied before kong parses so that parse errors and
	// config loading are already logged with the requested settings.
	cli.Log.scan(args)

	groups := []kong.Group{cli.Log.group()}
	if profile.Enabled {
		groups = append(groups, cli.Pprof.group())
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
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
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCache(ctx, tmpl.NewCache(log.Default()))

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// The context provider bound above returns the updated ctx.
	return ktx.Run()
}

package cli

import (
	"context"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/flyux/cli/cmd"
	"github.com/ardnew/flyux/pkg"
)

const (
	configJSON = "config.json"
	configYAML = "config.yaml"

	historyFile = "history"
)

// CLI is the top-level command-line interface for flyux.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path []string `help:"Search DIR for scripts before ${searchPathVar}" placeholder:"DIR" short:"I" type:"path"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run a script's main function"`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the tokens of a script"`
	AST     cmd.AST     `cmd:""                    help:"Print the function table of a script" name:"ast"`
	Check   cmd.Check   `cmd:""                    help:"Check a script for syntax errors"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the flyux CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) (err error) {
	var cli CLI

	if err = pkg.MkdirAll(); err != nil {
		return err
	}

	vars := kong.Vars{
		"searchPathVar":       pkg.EnvVar("path"),
		cmd.HistoryIdentifier: filepath.Join(pkg.CacheDir(), historyFile),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	// Logger flags take effect before kong reports any parse error.
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
		kong.Configuration(kong.JSON, pkg.ConfigPath(configJSON)),
		kong.Configuration(resolveYAML, pkg.ConfigPath(configYAML)),
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
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path...))

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}

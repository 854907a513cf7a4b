package cmd

import (
	"context"
	"os"

	"github.com/ardnew/flyux/cli/cmd/repl"
	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
)

// Repl starts an interactive session.
type Repl struct {
	Source []string `arg:"" help:"Script files whose functions are loaded into the session" name:"source" optional:""`

	Plain   bool   `help:"Use the line-oriented front end"`
	History string `default:"${history}" help:"History file, empty to keep history in memory" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	var prog *lang.Program

	if len(r.Source) > 0 {
		prog, err = loadProgram(ctx, os.Stdin, r.Source,
			lang.WithLogger(log.Default()))
		if unreadable(ctx, err) {
			return nil
		}

		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, repl.Config{
		Program: prog,
		History: r.History,
		Plain:   r.Plain,
		Out:     stdout(ctx),
		Logger:  log.Default(),
	})
}

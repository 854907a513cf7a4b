package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
)

// Check parses a script without running it.
type Check struct {
	Source []string `arg:"" default:"-" help:"Script files, or '-' for stdin" name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	_, err = loadProgram(ctx, os.Stdin, c.Source,
		lang.WithLogger(log.Default()))
	if unreadable(ctx, err) {
		return nil
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), "Syntax OK.")

	return err
}

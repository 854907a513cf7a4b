package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
)

// Run executes the main function of a script.
type Run struct {
	Source []string `arg:"" default:"-" help:"Script files, or '-' for stdin" name:"source"`

	Query       string `help:"Print the result of an expr query over the value returned by main (result, raw, returned)" placeholder:"EXPR" short:"q"`
	PrintResult bool   `help:"Print the value returned by main"                                                                               short:"r"`
	NoCache     bool   `help:"Parse without the source cache"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	out := stdout(ctx)

	prog, err := loadProgram(ctx, os.Stdin, r.Source,
		lang.WithLogger(log.Default()),
		lang.WithStdin(os.Stdin),
		lang.WithStdout(out),
		lang.WithCache(!r.NoCache),
	)
	if unreadable(ctx, err) {
		return nil
	}

	if err != nil {
		return err
	}

	res, err := prog.Run(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "run complete",
		slog.Bool("returned", res.Returned),
		slog.Int("functions", len(prog.Functions)),
	)

	switch {
	case r.Query != "":
		return query(out, r.Query, res)

	case r.PrintResult && res.Returned:
		_, err = fmt.Fprintln(out, res.Value)
	}

	return err
}

// query evaluates an expr expression over res and prints its answer.
// Strings are printed as is; anything else as JSON.
func query(w io.Writer, src string, res lang.Result) error {
	env := map[string]any{
		"result":   lang.Decode(res.Value),
		"raw":      res.Value,
		"returned": res.Returned,
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("query", src))
	}

	answer, err := expr.Run(program, env)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("query", src))
	}

	if s, ok := answer.(string); ok {
		_, err = fmt.Fprintln(w, s)

		return err
	}

	data, err := json.Marshal(answer)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

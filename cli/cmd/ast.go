package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
)

// AST prints the parsed function table of a script.
type AST struct {
	Source []string `arg:"" default:"-" help:"Script files, or '-' for stdin" name:"source"`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})" short:"f"`
	Indent int    `default:"2"                          help:"Indent width"          short:"i"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := loadProgram(ctx, os.Stdin, a.Source,
		lang.WithLogger(log.Default()))
	if unreadable(ctx, err) {
		return nil
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "print function table",
		slog.String("format", a.Format),
		slog.Int("functions", len(prog.Functions)),
	)

	out := stdout(ctx)

	switch a.Format {
	case formatJSON:
		if err := prog.FormatJSON(ctx, out, a.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		if err := prog.FormatYAML(ctx, out, a.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		return prog.Format(ctx, out, a.Indent)
	}

	return nil
}

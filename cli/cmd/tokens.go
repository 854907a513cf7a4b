package cmd

import (
	"context"
	"os"

	"github.com/ardnew/flyux/lang"
)

// Output formats of the tokens and ast commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Tokens prints the token sequence of a script.
type Tokens struct {
	Source []string `arg:"" default:"-" help:"Script files, or '-' for stdin" name:"source"`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})"         short:"f"`
	Indent int    `default:"2"                          help:"Indent width of JSON and YAML" short:"i"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := readSources(ctx, os.Stdin, t.Source)
	if unreadable(ctx, err) {
		return nil
	}

	if err != nil {
		return err
	}

	toks := lang.Tokens(src)
	out := stdout(ctx)

	switch t.Format {
	case formatJSON:
		if err := lang.FormatTokensJSON(ctx, out, toks, t.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		if err := lang.FormatTokensYAML(ctx, out, toks, t.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		return lang.FormatTokens(ctx, out, toks)
	}

	return nil
}

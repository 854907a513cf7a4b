package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/flyux/lang/token"
)

// FormatTokens writes one token per line as "line:column kind text".
// The text column is omitted for fixed-text kinds.
func FormatTokens(_ context.Context, w io.Writer, toks []token.Token) error {
	for _, tok := range toks {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return err
		}
	}

	return nil
}

// FormatTokensJSON writes the token sequence as a JSON array.
func FormatTokensJSON(
	_ context.Context,
	w io.Writer,
	toks []token.Token,
	indent int,
) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(tokensToNative(toks), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(tokensToNative(toks))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatTokensYAML writes the token sequence as a YAML sequence.
func FormatTokensYAML(
	ctx context.Context,
	w io.Writer,
	toks []token.Token,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, tokensToNative(toks), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func tokensToNative(toks []token.Token) []any {
	out := make([]any, len(toks))

	for i, tok := range toks {
		m := map[string]any{
			"kind": tok.Kind.String(),
			"pos":  tok.Pos.String(),
		}

		switch tok.Kind {
		case token.Ident, token.Number, token.String, token.Comment, token.Unknown:
			m["text"] = tok.Text
		}

		out[i] = m
	}

	return out
}

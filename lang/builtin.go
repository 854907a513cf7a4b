package lang

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// print writes its evaluated arguments space-separated on one line.
func (m *machine) print(e env, args []Expr) error {
	parts := make([]string, len(args))

	for i, arg := range args {
		v, err := m.eval(e, arg)
		if err != nil {
			return err
		}

		parts[i] = v
	}

	if _, err := io.WriteString(m.out, strings.Join(parts, " ")+"\n"); err != nil {
		return WrapError(err)
	}

	return nil
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// input writes the prompt, then reads one line. Trailing line terminators
// are removed, the text is cut to limit runes when limit is a positive
// integer, and type "number" converts it to an int or float (or 0).
// End of input yields whatever was read before it.
func (m *machine) input(e env, n *Input) (string, error) {
	prompt, err := m.eval(e, n.Prompt)
	if err != nil {
		return "", err
	}

	var typ string

	if id, ok := n.Type.(*Ident); ok {
		typ = strings.ToLower(id.Name)
	} else {
		v, err := m.eval(e, n.Type)
		if err != nil {
			return "", err
		}

		typ = strings.ToLower(v)
	}

	lim, err := m.eval(e, n.Limit)
	if err != nil {
		return "", err
	}

	limit, err := strconv.Atoi(lim)
	if err != nil || limit < 0 {
		limit = 0
	}

	if _, err := io.WriteString(m.out, prompt); err != nil {
		return "", WrapError(err)
	}

	if f, ok := m.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return "", WrapError(err)
		}
	}

	line, err := m.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", ErrReadInput.At(n.At).Wrap(err)
	}

	line = strings.TrimRight(line, "\r\n")

	if limit > 0 {
		if runes := []rune(line); len(runes) > limit {
			line = string(runes[:limit])
		}
	}

	m.logger.TraceContext(m.ctx, "input",
		slog.String("type", typ),
		slog.Int("limit", limit),
		slog.Int("length", len(line)))

	if typ != "number" {
		return line, nil
	}

	if i, err := strconv.ParseInt(line, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), nil
	}

	if f, err := strconv.ParseFloat(line, 64); err == nil {
		return FormatNumber(f), nil
	}

	return "0", nil
}

package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
	"github.com/ardnew/flyux/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the session's
// functions to a temporary script, opens $EDITOR on it and parses the
// result. On a syntax error the user may edit again; declining returns
// [ErrEditDeclined].
type editCommand struct {
	prog    *lang.Program
	ctxFunc func() context.Context
	logger  log.Logger
	edited  *lang.Program
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An emptied file cancels the edit
// and leaves edited nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.prog.Format(ctx, &buf, 2); err != nil {
		return fmt.Errorf("format functions: %w", err)
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.ScriptExt)
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()
	answers := bufio.NewReader(c.stdin)

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := c.runEditor(ctx, path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		prog, perr := lang.ParseString(ctx, string(content),
			lang.WithLogger(c.logger))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.edited = prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", perr)
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		answer, err := answers.ReadString('\n')
		if err != nil && answer == "" {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

func (c *editCommand) runEditor(ctx context.Context, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	// EDITOR may carry arguments, as in "code --wait".
	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}

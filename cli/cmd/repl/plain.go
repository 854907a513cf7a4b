package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/lang/token"
)

const (
	plainPrompt = "flyux> "
	contPrompt  = "   ... "
)

const plainHelp = `Commands:
  :help    Print this help
  :list    List defined functions and variables
  :edit    Edit the session's functions in $EDITOR
  :quit    Exit

Type a statement, an expression or a function definition to run it.
Input continues on the next line while a bracket is left open.
Press Ctrl+D to exit.`

// prompter reads edited lines. [liner.State] implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

func runPlain(ctx context.Context, cfg Config, history *History) error {
	session := newSession(cfg, cfg.In, cfg.Out)

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return complete(session, line, pos)
	})

	return (&plain{
		prompt:  ln,
		session: session,
		history: history,
		cfg:     cfg,
	}).loop(ctx)
}

// plain is the line-oriented front end.
type plain struct {
	prompt  prompter
	session *lang.Session
	history *History
	cfg     Config
}

func (p *plain) loop(ctx context.Context) error {
	defer p.prompt.Close()

	for _, line := range p.history.Lines(modeEval) {
		p.prompt.AppendHistory(line)
	}

	for ctx.Err() == nil {
		src, ok := p.read()
		if !ok {
			fmt.Fprintln(p.cfg.Out)

			return nil
		}

		src = strings.TrimSpace(src)

		switch {
		case src == "":
			continue

		case strings.HasPrefix(src, ":"):
			_, _ = p.history.WriteWithMode(src[1:], modeCtrl)

			if p.command(ctx, src[1:]) {
				return nil
			}

			continue
		}

		p.prompt.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		_, _ = p.history.WriteWithMode(strings.ReplaceAll(src, "\n", " "), modeEval)

		p.cfg.Logger.TraceContext(ctx, "repl eval", slog.String("input", src))

		res, err := p.session.Exec(ctx, src)

		switch {
		case err != nil:
			fmt.Fprintln(p.cfg.Out, "error:", err)
		case res.Returned:
			fmt.Fprintln(p.cfg.Out, res.Value)
		}
	}

	return context.Cause(ctx)
}

// read returns the next chunk of source, which spans lines while a bracket
// is open. It reports false at end of input.
func (p *plain) read() (string, bool) {
	var b strings.Builder

	for {
		prompt := plainPrompt
		if b.Len() > 0 {
			prompt = contPrompt
		}

		line, err := p.prompt.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl+C discards the pending chunk.
			b.Reset()

			continue
		case err != nil:
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		if !unbalanced(b.String()) {
			return b.String(), true
		}
	}
}

// command runs a control command and reports whether the session ends.
func (p *plain) command(ctx context.Context, input string) bool {
	name, _, _ := strings.Cut(strings.TrimSpace(input), " ")

	switch name {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		fmt.Fprintln(p.cfg.Out, plainHelp)

	case "l", "list":
		fmt.Fprintln(p.cfg.Out, listing(p.session, lipgloss.NewStyle()))

	case "e", "edit":
		cmd := &editCommand{
			prog:    p.session.Program(),
			ctxFunc: func() context.Context { return ctx },
			logger:  p.cfg.Logger,
			stdin:   p.cfg.In,
			stdout:  p.cfg.Out,
			stderr:  p.cfg.Out,
		}

		switch err := cmd.Run(); {
		case errors.Is(err, ErrEditDeclined):
			fmt.Fprintln(p.cfg.Out, "edit discarded")
		case err != nil:
			fmt.Fprintln(p.cfg.Out, "error:", err)
		case cmd.edited == nil:
			fmt.Fprintln(p.cfg.Out, "edit cancelled")
		default:
			p.session.Replace(cmd.edited)
			fmt.Fprintln(p.cfg.Out, "functions updated")
		}

	default:
		fmt.Fprintf(p.cfg.Out, "unknown command: %s (try :help)\n", name)
	}

	return false
}

// unbalanced reports whether src leaves a bracket, brace or parenthesis
// open.
func unbalanced(src string) bool {
	depth := 0

	for _, tok := range lang.Tokens(src) {
		switch tok.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
	}

	return depth > 0
}

// complete is a [liner.WordCompleter] over the session's names and the
// properties of bound records. The cursor position pos counts runes.
func complete(session *lang.Session, line string, pos int) (string, []string, string) {
	if r := []rune(line); pos <= len(r) {
		pos = len(string(r[:pos]))
	}

	word, start, end := wordBounds(line, pos)
	head, tail := line[:start], line[end:]

	candidates := childCandidates(session, parentPath(line, start))
	if word == "" {
		return head, candidates, tail
	}

	var completions []string

	for _, match := range fuzzy.Find(word, candidates) {
		completions = append(completions, match.Str)
	}

	return head, completions, tail
}

var _ prompter = (*liner.State)(nil)

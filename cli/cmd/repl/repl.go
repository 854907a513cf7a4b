package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
)

// Config configures an interactive session.
type Config struct {
	// Program holds functions defined before the first prompt. It may be nil.
	Program *lang.Program
	// History is the history file. Empty keeps history in memory.
	History string
	// Plain selects the line-oriented front end even on a terminal.
	Plain bool

	In     io.Reader
	Out    io.Writer
	Logger log.Logger
}

// Run starts an interactive session and returns when the user quits or ctx
// is canceled.
//
// The full-screen front end is used when both In and Out are terminals and
// Plain is not set; otherwise lines are read with a line editor, or
// verbatim when In is not a terminal.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	history := NewHistory(cfg.History)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "history not loaded",
			slog.String("path", cfg.History),
			slog.Any("error", err),
		)
	}

	plain := cfg.Plain || !isTerminal(cfg.In) || !isTerminal(cfg.Out)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.History),
		slog.Int("history_count", history.Len()),
		slog.Bool("plain", plain),
	)

	if plain {
		return runPlain(ctx, cfg, history)
	}

	var out bytes.Buffer

	// Input expressions read nothing in the full-screen front end: the
	// terminal belongs to the editor.
	session := newSession(cfg, strings.NewReader(""), &out)

	p := tea.NewProgram(newModel(ctx, session, &out, history, cfg.Logger),
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

func newSession(cfg Config, in io.Reader, out io.Writer) *lang.Session {
	s := lang.NewSession(
		lang.WithLogger(cfg.Logger),
		lang.WithStdin(in),
		lang.WithStdout(out),
	)

	if cfg.Program != nil {
		s.Load(cfg.Program)
	}

	return s
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// editMsg is sent when an edit completes with a parsed program.
type editMsg struct{ prog *lang.Program }

// editCancelledMsg is sent when the user emptied the edited file.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to fix a syntax error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List defined functions and variables
  edit     Edit the session's functions in $EDITOR
  clear    Clear screen
  quit     Exit

Usage:
  Type a statement, an expression or a function definition to run it
  Declarations persist from one line to the next
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down for history (the mode follows the entry)
  Use Shift+Up/Shift+Down for history of the current mode only
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode is the kind of line being entered.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)

	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// model is the Bubble Tea model of the full-screen front end.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	out          *bytes.Buffer // session output, flushed after each line
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	candidates   []string
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *lang.Session,
	out *bytes.Buffer,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		out:        out,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editMsg:
		m.session.Replace(msg.prog)
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("function_count", len(msg.prog.Functions)))

		return m, tea.Println(resultStyle.Render("✔ functions updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case call.inCall && m.mode == modeEval && len(m.matches) == 0:
		if params, ok := signature(m.session, call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.session, m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the selected candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1, false)

	case tea.KeyDown:
		return m.historyMove(1, false)

	case tea.KeyShiftUp:
		return m.historyMove(-1, true)

	case tea.KeyShiftDown:
		return m.historyMove(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Deletions and cursor motion never auto-complete.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed immediately.
func (m model) cycle(step int) (model, tea.Cmd) {
	switch len(m.matches) {
	case 0:
		return m, nil
	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the word under the cursor with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals its only candidate is confirmed.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	ctx := m.ctxFunc()

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", input))

	res, err := m.session.Exec(ctx, input)

	cmds := []tea.Cmd{
		tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input)),
	}

	if printed := strings.TrimSuffix(m.out.String(), "\n"); printed != "" {
		cmds = append(cmds, tea.Println(printed))
	}

	m.out.Reset()

	switch {
	case err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	case res.Returned:
		cmds = append(cmds, tea.Println(resultStyle.Render(res.Value)))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	name, _, _ := strings.Cut(input, " ")

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Printf("%s", helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listing(m.session, hintStyle)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("unknown command: "+name+" (try help)")))
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		prog:    m.session.Program(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == nil:
			return editCancelledMsg{}
		default:
			return editMsg{prog: cmd.edited}
		}
	})
}

// historyMove steps through history by step entries. With sameMode only
// entries of the current mode are visited; otherwise the mode follows the
// entry. Moving past the newest entry clears the input.
func (m model) historyMove(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	if step > 0 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode saves the input of the current mode and restores that of
// mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}

// listing describes every function and variable of the session, one per
// line, values rendered with style.
func listing(session *lang.Session, style lipgloss.Style) string {
	var b strings.Builder

	for fn := range session.Program().All() {
		params, _ := signature(session, fn.Name)
		fmt.Fprintf(&b, "  F> %s(%s)\n", fn.Name, strings.Join(params, ", "))
	}

	for _, name := range session.Bindings() {
		value, _ := session.Value(name)
		fmt.Fprintf(&b, "  %s %s\n", name, style.Render(preview(value)))
	}

	if b.Len() == 0 {
		return "  (nothing defined)"
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// preview shortens value to fit on one line.
func preview(value string) string {
	const limit = 40

	if r := []rune(value); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}

	return value
}

package repl

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flyux/log"
)

func newTestModel(t *testing.T, src ...string) model {
	t.Helper()

	var out bytes.Buffer

	s := newSession(Config{}, strings.NewReader(""), &out)

	for _, chunk := range src {
		if _, err := s.Exec(t.Context(), chunk); err != nil {
			t.Fatalf("Exec(%q) error: %v", chunk, err)
		}
	}

	return newModel(t.Context(), s, &out, NewHistory(""), log.Logger{})
}

func press(m model, keys ...tea.KeyType) model {
	for _, k := range keys {
		m, _ = m.handleKey(tea.KeyMsg{Type: k})
	}

	return m
}

func typeText(m model, text string) model {
	for _, r := range text {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg.Type = tea.KeySpace
		}

		m, _ = m.handleKey(msg)
	}

	return m
}

func submit(m model, line string) (model, tea.Cmd) {
	m = typeText(m, line)

	return m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModel_Eval(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	m, _ = submit(m, "x := 2")
	m, cmd := submit(m, "print(x * 3)")

	if v, ok := m.session.Value("x"); !ok || v != "2" {
		t.Errorf("x = %q, %v", v, ok)
	}

	if cmd == nil {
		t.Error("no output command")
	}

	if m.out.Len() != 0 {
		t.Errorf("session output not flushed: %q", m.out.String())
	}

	if m.input.Value() != "" || m.history.Len() != 2 {
		t.Errorf("input %q history %d", m.input.Value(), m.history.Len())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "total := 1", "tomato := 2")
	m = typeText(m, "x + to")

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v", m.matches)
	}

	m = press(m, tea.KeyTab)
	first := m.input.Value()

	m = press(m, tea.KeyTab)
	second := m.input.Value()

	got := []string{first, second}
	slices.Sort(got)

	if !m.tabActive || !slices.Equal(got, []string{"x + tomato", "x + total"}) {
		t.Errorf("cycled through %q (active %v)", got, m.tabActive)
	}

	m = press(m, tea.KeyEsc)
	if m.input.Value() != "x + to" || m.tabActive || m.mode != modeEval {
		t.Errorf("Esc left %q (active %v, mode %v)", m.input.Value(), m.tabActive, m.mode)
	}

	m = press(m, tea.KeyShiftTab, tea.KeyEnter)
	if m.tabActive || m.input.Value() == "x + to" {
		t.Errorf("Enter did not lock in the candidate: %q", m.input.Value())
	}
}

func TestModel_SingleCandidate(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, `rec := {alpha: 1, beta: 2}`)
	m = typeText(m, "rec.al")
	m = press(m, tea.KeyTab)

	if m.input.Value() != "rec.alpha" || len(m.matches) != 0 {
		t.Errorf("input %q matches %v", m.input.Value(), m.matches)
	}
}

func TestModel_Modes(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m = typeText(m, "pending")
	m = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode %v input %q", m.mode, m.input.Value())
	}

	m = typeText(m, "qu")
	if len(m.matches) != 1 || m.matches[0].Str != "quit" {
		t.Errorf("command matches = %v", m.matches)
	}

	m = press(m, tea.KeyEsc)
	if m.mode != modeEval || m.input.Value() != "pending" {
		t.Errorf("mode %v input %q", m.mode, m.input.Value())
	}

	m = press(m, tea.KeyEsc)
	if m.input.Value() != "qu" {
		t.Errorf("command input %q not restored", m.input.Value())
	}

	m, cmd := submit(m, "it")

	if !m.quitting || cmd == nil {
		t.Error("quit did not end the program")
	}

	if m.View() != "" {
		t.Errorf("View after quit = %q", m.View())
	}
}

func TestModel_History(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = submit(m, "a := 1")
	m = press(m, tea.KeyEsc)
	m, _ = submit(m, "help")
	m = press(m, tea.KeyEsc)
	m, _ = submit(m, "b := 2")

	steps := []struct {
		key   tea.KeyType
		input string
		mode  inputMode
	}{
		{tea.KeyUp, "b := 2", modeEval},
		{tea.KeyUp, "help", modeCtrl},
		{tea.KeyUp, "a := 1", modeEval},
		{tea.KeyUp, "a := 1", modeEval},
		{tea.KeyShiftDown, "b := 2", modeEval},
		{tea.KeyDown, "", modeEval},
	}

	for i, step := range steps {
		m = press(m, step.key)

		if m.input.Value() != step.input || m.mode != step.mode {
			t.Errorf("step %d: input %q mode %v, want %q %v",
				i, m.input.Value(), m.mode, step.input, step.mode)
		}
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "F> area(w, h) { R> w * h }")

	if !strings.Contains(m.View(), "Type a statement") {
		t.Errorf("empty view = %q", m.View())
	}

	m = typeText(m, "area(2, ")
	if !strings.Contains(m.View(), "area(w, h)") {
		t.Errorf("call view = %q", m.View())
	}
}

func TestListing(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	if got := listing(m.session, hintStyle); got != "  (nothing defined)" {
		t.Errorf("empty listing = %q", got)
	}

	m = newTestModel(t, "F> f(a) { R> a }", `s := "`+strings.Repeat("x", 50)+`"`)

	want := "  F> f(a)\n  s " + strings.Repeat("x", 37) + "..."
	if got := listing(m.session, hintStyle); got != want {
		t.Errorf("listing = %q, want %q", got, want)
	}
}

package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/flyux/lang"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"property", "rec.name", 8, "name", 4, 8},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "sq(fo", 5, "fo", 3, 5},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_declare", "x:=fo", 5, "fo", 3, 5},
		{"after_sigil", "R> fo", 5, "fo", 3, 5},
		{"in_record", "{k: fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a*b", 2, "b", 2, 3},
		{"unicode", "x := 名前", 11, "名前", 5, 11},
		{"empty_after_dot", "rec.", 4, "", 4, 4},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"no_dot", "a + b", 4, ""},
		{"simple_chain", "r.inner.", 8, "r.inner"},
		{"after_operator", "x + r.inner.", 12, "r.inner"},
		{"after_paren", "print(r.", 8, "r"},
		{"after_declare", "y := r.a.", 9, "r.a"},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parentPath(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func newTestSession(t *testing.T, src ...string) *lang.Session {
	t.Helper()

	s := lang.NewSession()

	for _, chunk := range src {
		if _, err := s.Exec(t.Context(), chunk); err != nil {
			t.Fatalf("Exec(%q) error: %v", chunk, err)
		}
	}

	return s
}

func TestChildCandidates(t *testing.T) {
	t.Parallel()

	s := newTestSession(t,
		`r := {name: "a", inner: {x: 1, y: 2}}`,
		`xs := [1, 2, 3]`,
		`F> sq(n) { R> n * n }`,
	)

	tests := []struct {
		parent string
		want   []string
	}{
		{"", []string{"print", "r", "sq", "xs", "if", "elif", "else"}},
		{"r", []string{"name", "inner"}},
		{"r.inner", []string{"x", "y"}},
		{"xs", []string{"length"}},
		{"r.name", nil},
		{"r.missing", nil},
		{"unbound", nil},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			t.Parallel()

			if got := childCandidates(s, tt.parent); !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %q, want %q", tt.parent, got, tt.want)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, `total := 1`, `r := {alpha: 1, beta: 2}`)

	head, got, tail := complete(s, "x + tot", 7)
	if head != "x + " || tail != "" || !slices.Equal(got, []string{"total"}) {
		t.Errorf("complete = (%q, %q, %q)", head, got, tail)
	}

	head, got, tail = complete(s, "r. + 1", 2)
	if head != "r." || tail != " + 1" || !slices.Equal(got, []string{"alpha", "beta"}) {
		t.Errorf("complete after dot = (%q, %q, %q)", head, got, tail)
	}
}

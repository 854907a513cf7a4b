package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/flyux/lang"
)

// ctrlCommands are the commands accepted in control mode.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// keywords complete at the top level alongside bound names.
var keywords = []string{"if", "elif", "else"}

// isWordBoundary reports whether r ends an identifier for completion:
// whitespace, punctuation and operator characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', '(', ')', '{', '}', '[', ']',
		'+', '-', '*', '/', '<', '>', '=', '!',
		'&', '|', ',', ':', ';', '"':
		return true
	}

	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// wordBounds returns the word under the cursor and its byte offsets in
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the property chain that ends just before wordStart,
// so "x + r.inner.na" with the word "na" has the parent "r.inner".
// It is empty for a word that is not a property.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// childCandidates returns the completions for a word following parent.
// At the top level these are the session's names and the keywords. After
// a property chain they are the keys of the record the chain resolves to,
// or length for an array.
func childCandidates(session *lang.Session, parent string) []string {
	if parent == "" {
		return append(session.Names(), keywords...)
	}

	segments := strings.Split(parent, ".")

	value, ok := session.Value(segments[0])
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		rec, ok := lang.ParseRecord(value)
		if !ok {
			return nil
		}

		if value, ok = rec.Get(seg); !ok {
			return nil
		}
	}

	if rec, ok := lang.ParseRecord(value); ok {
		return rec.Keys()
	}

	if _, ok := lang.ParseArray(value); ok {
		return []string{"length"}
	}

	return nil
}

// computeMatches ranks the candidates for the word under the cursor, best
// first. An empty top-level word has no matches so the hint stays visible;
// an empty word after a dot matches every property.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.session, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders the matches on one line, cut short with an
// ellipsis where they would exceed width.
func renderCandidateBar(
	session *lang.Session,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunction(session, match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes highlighted.
// Functions are shown with a "()" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

func isFunction(session *lang.Session, name string) bool {
	if name == "print" {
		return true
	}

	_, ok := session.Program().Lookup(name)

	return ok
}

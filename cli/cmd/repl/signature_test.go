package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		cursor int
		want   functionCall
	}{
		{"no call", "greeting", 8, functionCall{}},
		{"open paren", "add(", 4, functionCall{name: "add", inCall: true}},
		{"first arg", "add(1", 5, functionCall{name: "add", inCall: true}},
		{"second arg", "add(1,", 6, functionCall{name: "add", argIndex: 1, inCall: true}},
		{"third arg", "add(1, 2, x", 11, functionCall{name: "add", argIndex: 2, inCall: true}},
		{"closed call", "add(1, 2)", 9, functionCall{}},
		{"nested inner", "add(sq(2", 8, functionCall{name: "sq", inCall: true}},
		{"nested outer", "add(sq(2), ", 11, functionCall{name: "add", argIndex: 1, inCall: true}},
		{"array arg", "f([1, 2], ", 10, functionCall{name: "f", argIndex: 1, inCall: true}},
		{"record arg", "f({a: 1, b: 2}", 14, functionCall{name: "f", inCall: true}},
		{"string arg", `print("a, b", `, 14, functionCall{name: "print", argIndex: 1, inCall: true}},
		{"after declare", "x := sq(", 8, functionCall{name: "sq", inCall: true}},
		{"grouping", "x := (1 + ", 10, functionCall{}},
		{"if condition", "if (x", 5, functionCall{}},
		{"cursor before call", "sq(2)", 2, functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := detectFunctionCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, `F> area(w(int), h) { R> w * h } F> nop() { }`)

	tests := []struct {
		name   string
		params []string
		ok     bool
	}{
		{"area", []string{"w(int)", "h"}, true},
		{"nop", []string{}, true},
		{"print", []string{"...values"}, true},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params, ok := signature(s, tt.name)
			if ok != tt.ok || !slices.Equal(params, tt.params) {
				t.Errorf("signature(%q) = %q, %v", tt.name, params, ok)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	t.Parallel()

	// Styles render plain text when no terminal is attached.
	tests := []struct {
		params   []string
		argIndex int
	}{
		{[]string{"a", "b"}, 0},
		{[]string{"a", "b"}, 5},
		{[]string{"...values"}, 3},
		{nil, 0},
	}

	for _, tt := range tests {
		got := renderSignatureHint("fn", tt.params, tt.argIndex)

		want := "fn(" + strings.Join(tt.params, ", ") + ")"
		if got != want {
			t.Errorf("renderSignatureHint(%q, %d) = %q, want %q",
				tt.params, tt.argIndex, got, want)
		}
	}
}

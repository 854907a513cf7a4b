package repl

import (
	"strings"

	"github.com/ardnew/flyux/lang"
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// counts the commas separating its arguments. Commas nested in brackets,
// braces or string literals are not counted.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Parentheses and quotes are ASCII, so scanning bytes is safe.
	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	name, _, _ := wordBounds(input, open)

	switch name {
	case "", "if", "elif":
		return functionCall{}
	}

	call := functionCall{name: name, inCall: true}
	depth = 0
	quoted := false

	for i := open + 1; i < cursor; i++ {
		switch c := input[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			call.argIndex++
		}
	}

	return call
}

// signature returns the parameter list of the function named name, each
// parameter written as it is declared. It reports false for an unknown name.
func signature(session *lang.Session, name string) ([]string, bool) {
	if name == "print" {
		return []string{"...values"}, true
	}

	fn, ok := session.Program().Lookup(name)
	if !ok {
		return nil, false
	}

	params := make([]string, len(fn.Params))

	for i, p := range fn.Params {
		params[i] = p.Name
		if p.Type != "" {
			params[i] += "(" + p.Type + ")"
		}
	}

	return params, true
}

// renderSignatureHint renders name(params...) with the parameter at
// argIndex highlighted. A variadic parameter stays highlighted for every
// later argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if i == argIndex || (variadic && argIndex >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

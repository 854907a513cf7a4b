package lang

import (
	"maps"
	"slices"
)

// binding is one environment entry.
type binding struct {
	value    string
	typ      string // declared or inferred type; empty for parameters
	constant bool
}

// env is the flat name-to-value mapping of one function activation.
//
// Loop and conditional bodies run against the same env as their function,
// so names declared inside a block remain visible after it. A call builds a
// fresh env holding only its parameters; the caller's env is never visible
// to the callee.
type env map[string]binding

func newEnv(fn *Function, args []string) env {
	e := make(env, len(fn.Params))

	for i, param := range fn.Params {
		var arg string
		if i < len(args) {
			arg = args[i]
		}

		e[param.Name] = binding{value: arg}
	}

	return e
}

func (e env) lookup(name string) (binding, bool) {
	b, ok := e[name]

	return b, ok
}

func (e env) bind(name string, b binding) { e[name] = b }

// names returns the bound names in sorted order.
func (e env) names() []string {
	return slices.Sorted(maps.Keys(e))
}

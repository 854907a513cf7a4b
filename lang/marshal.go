package lang

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a tree of native Go maps and slices.
//
// Every node becomes a map holding its kind under "node", its source
// position under "pos", and one entry per field.
func (p *Program) ToMap() map[string]any {
	fns := make([]any, 0, len(p.Functions))

	for fn := range p.All() {
		fns = append(fns, fn.ToMap())
	}

	return map[string]any{"functions": fns}
}

// ToMap converts the function and its body to native Go types.
func (fn *Function) ToMap() map[string]any {
	params := make([]any, len(fn.Params))

	for i, param := range fn.Params {
		m := map[string]any{"name": param.Name}
		if param.Type != "" {
			m["type"] = param.Type
		}

		params[i] = m
	}

	return map[string]any{
		"node":   "Function",
		"pos":    fn.At.String(),
		"name":   fn.Name,
		"params": params,
		"body":   stmtsToNative(fn.Body),
	}
}

func stmtsToNative(body []Stmt) []any {
	out := make([]any, len(body))

	for i, stmt := range body {
		out[i] = nodeToNative(stmt)
	}

	return out
}

func exprsToNative(list []Expr) []any {
	out := make([]any, len(list))

	for i, expr := range list {
		out[i] = nodeToNative(expr)
	}

	return out
}

func node(kind string, n Node, fields map[string]any) map[string]any {
	fields["node"] = kind
	fields["pos"] = n.Pos().String()

	return fields
}

func nodeToNative(n Node) any {
	switch n := n.(type) {
	case nil:
		return nil

	case *NumberLit:
		return node("Number", n, map[string]any{"value": n.Text})
	case *StringLit:
		return node("String", n, map[string]any{"value": n.Value})
	case *Ident:
		return node("Ident", n, map[string]any{"name": n.Name})
	case *Call:
		return node("Call", n, map[string]any{
			"name": n.Name,
			"args": exprsToNative(n.Args),
		})
	case *Binary:
		return node("Binary", n, map[string]any{
			"op":    n.Op,
			"left":  nodeToNative(n.Left),
			"right": nodeToNative(n.Right),
		})
	case *Logical:
		return node("Logical", n, map[string]any{
			"op":    n.Op,
			"left":  nodeToNative(n.Left),
			"right": nodeToNative(n.Right),
		})
	case *ArrayLit:
		return node("Array", n, map[string]any{"elems": exprsToNative(n.Elems)})
	case *Index:
		return node("Index", n, map[string]any{
			"target": nodeToNative(n.Target),
			"key":    nodeToNative(n.Key),
		})
	case *RecordLit:
		fields := make([]any, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]any{"key": f.Key, "value": nodeToNative(f.Value)}
		}

		return node("Record", n, map[string]any{"fields": fields})
	case *Property:
		return node("Property", n, map[string]any{
			"target": nodeToNative(n.Target),
			"name":   n.Name,
		})
	case *IncDec:
		return node("IncDec", n, map[string]any{
			"name":   n.Name,
			"delta":  n.Delta,
			"prefix": n.Prefix,
		})
	case *Input:
		return node("Input", n, map[string]any{
			"prompt": nodeToNative(n.Prompt),
			"type":   nodeToNative(n.Type),
			"limit":  nodeToNative(n.Limit),
		})

	case *ConstDecl:
		return node("ConstDecl", n, map[string]any{
			"name":  n.Name,
			"type":  n.Type,
			"value": nodeToNative(n.Value),
		})
	case *VarDecl:
		return node("VarDecl", n, map[string]any{
			"name":  n.Name,
			"type":  n.Type,
			"value": nodeToNative(n.Value),
		})
	case *Loop:
		fields := map[string]any{
			"kind": n.Kind.loopKind(),
			"body": stmtsToNative(n.Body),
		}

		switch k := n.Kind.(type) {
		case *TimesLoop:
			fields["count"] = nodeToNative(k.Count)
		case *EachLoop:
			fields["target"] = k.Target
			fields["item"] = k.Item
		case *WhileLoop:
			fields["cond"] = nodeToNative(k.Cond)
		case *ForLoop:
			fields["init"] = nodeToNative(k.Init)
			fields["cond"] = nodeToNative(k.Cond)
			fields["step"] = nodeToNative(k.Step)
		}

		return node("Loop", n, fields)
	case *If:
		branches := make([]any, len(n.Branches))
		for i, b := range n.Branches {
			branches[i] = map[string]any{
				"cond": nodeToNative(b.Cond),
				"body": stmtsToNative(b.Body),
			}
		}

		return node("If", n, map[string]any{"branches": branches})
	case *Assign:
		return node("Assign", n, map[string]any{
			"name":  n.Name,
			"value": nodeToNative(n.Value),
		})
	case *IncDecStmt:
		return node("IncDec", n, map[string]any{
			"name":   n.Name,
			"delta":  n.Delta,
			"prefix": n.Prefix,
		})
	case *PathAssign:
		return node("PathAssign", n, map[string]any{
			"target": nodeToNative(n.Target),
			"value":  nodeToNative(n.Value),
		})
	case *ExprStmt:
		return nodeToNative(n.X)
	case *Return:
		return node("Return", n, map[string]any{"value": nodeToNative(n.Value)})
	}

	return nil
}

// Decode converts value text to its native Go form: arrays become []any,
// records become map[string]any, integers int64, floats float64, true and
// false bool, and a double-quoted string loses its quotes. Any other text
// is returned as a string.
func Decode(text string) any {
	if elems, ok := ParseArray(text); ok {
		out := make([]any, len(elems))

		for i, elem := range elems {
			out[i] = Decode(elem)
		}

		return out
	}

	if rec, ok := ParseRecord(text); ok {
		out := make(map[string]any, rec.Len())

		for _, k := range rec.Keys() {
			v, _ := rec.Get(k)
			out[k] = Decode(v)
		}

		return out
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}

	switch {
	case strings.EqualFold(text, "true"):
		return true
	case strings.EqualFold(text, "false"):
		return false
	}

	return unquote(text)
}

package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in native FLYUX syntax to the writer.
//
// With a positive indent each statement is written on its own line, nested
// blocks indented by that many spaces. An indent of zero writes each
// function on a single line. Comments are not preserved, and a chained
// comparison such as a < b < c is written back in its chained form.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := &printer{w: w, indent: indent}

	for i, fn := range p.Functions {
		if i > 0 && indent > 0 {
			pr.write("\n")
		}

		pr.function(fn)
		pr.write("\n")
	}

	return pr.err
}

// FormatJSON writes the syntax tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// printer writes native syntax. The first write error is kept and every
// later write is skipped.
type printer struct {
	w      io.Writer
	indent int
	depth  int
	err    error
}

func (pr *printer) write(s ...string) {
	for _, part := range s {
		if pr.err != nil {
			return
		}

		_, pr.err = io.WriteString(pr.w, part)
	}
}

func (pr *printer) newline() {
	if pr.indent <= 0 {
		pr.write(" ")

		return
	}

	pr.write("\n", strings.Repeat(" ", pr.depth*pr.indent))
}

func (pr *printer) function(fn *Function) {
	pr.write("F> ", fn.Name, "(")

	for i, param := range fn.Params {
		if i > 0 {
			pr.write(", ")
		}

		pr.write(param.Name)

		if param.Type != "" {
			pr.write("(", param.Type, ")")
		}
	}

	pr.write(") ")
	pr.block(fn.Body)
}

func (pr *printer) block(body []Stmt) {
	if len(body) == 0 {
		pr.write("{}")

		return
	}

	pr.write("{")
	pr.depth++

	for _, stmt := range body {
		pr.newline()
		pr.stmt(stmt)
	}

	pr.depth--
	pr.newline()
	pr.write("}")
}

func (pr *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *ConstDecl:
		if s.Type == "" {
			pr.write(s.Name, " := ")
		} else {
			pr.write(s.Name, " :(", s.Type, ") = ")
		}

		pr.expr(s.Value)

	case *VarDecl:
		pr.write(s.Name, " :[", s.Type, "] = ")
		pr.expr(s.Value)

	case *Assign:
		pr.write(s.Name, " = ")
		pr.expr(s.Value)

	case *IncDecStmt:
		pr.incDec(s.Name, s.Delta, s.Prefix)

	case *PathAssign:
		pr.expr(s.Target)
		pr.write(" = ")
		pr.expr(s.Value)

	case *ExprStmt:
		pr.expr(s.X)

	case *Return:
		pr.write("R> ")
		pr.expr(s.Value)

	case *Loop:
		pr.write("L> ")
		pr.loopHeader(s.Kind)
		pr.write(" ")
		pr.block(s.Body)

	case *If:
		for i, b := range s.Branches {
			switch {
			case i == 0:
				pr.write("if (")
			case b.Cond != nil:
				pr.write(" elif (")
			default:
				pr.write(" else ")
			}

			if b.Cond != nil {
				pr.expr(b.Cond)
				pr.write(") ")
			}

			pr.block(b.Body)
		}
	}
}

func (pr *printer) loopHeader(kind LoopKind) {
	switch k := kind.(type) {
	case *TimesLoop:
		pr.write("[")
		pr.expr(k.Count)
		pr.write("]")

	case *EachLoop:
		pr.write(k.Target, " : ", k.Item)

	case *WhileLoop:
		pr.write("(")
		pr.expr(k.Cond)
		pr.write(")")

	case *ForLoop:
		pr.write("(")
		pr.stmt(k.Init)
		pr.write("; ")
		pr.expr(k.Cond)
		pr.write("; ")
		pr.stmt(k.Step)
		pr.write(")")
	}
}

func (pr *printer) incDec(name string, delta int, prefix bool) {
	op := "++"
	if delta < 0 {
		op = "--"
	}

	if prefix {
		pr.write(op, name)
	} else {
		pr.write(name, op)
	}
}

// spell returns the source spelling of op. A "<=" written without a
// space lexes as "<", so it is written "< =".
func spell(op string) string {
	if op == "<=" {
		return "< ="
	}

	return op
}

// grouped reports whether e must be parenthesized as an operand so that
// parsing the output yields the same tree.
func grouped(e Expr) bool {
	switch e := e.(type) {
	case *Logical:
		return true
	case *Binary:
		return chainOps[e.Op]
	}

	return false
}

func (pr *printer) operand(e Expr, always bool) {
	_, bin := e.(*Binary)
	_, logic := e.(*Logical)

	if grouped(e) || (always && (bin || logic)) {
		pr.write("(")
		pr.expr(e)
		pr.write(")")

		return
	}

	pr.expr(e)
}

func (pr *printer) exprs(list []Expr) {
	for i, e := range list {
		if i > 0 {
			pr.write(", ")
		}

		pr.expr(e)
	}
}

func (pr *printer) expr(e Expr) {
	switch e := e.(type) {
	case *NumberLit:
		pr.write(e.Text)

	case *StringLit:
		pr.write(`"`, e.Value, `"`)

	case *Ident:
		pr.write(e.Name)

	case *Call:
		pr.write(e.Name, "(")
		pr.exprs(e.Args)
		pr.write(")")

	case *Binary:
		pr.operand(e.Left, false)
		pr.write(" ", spell(e.Op), " ")
		pr.operand(e.Right, true)

	case *Logical:
		// A folded chain a < b && b < c is written back as a < b < c.
		if cmp, ok := e.Right.(*Binary); ok && e.Op == "&&" {
			pr.expr(e.Left)
			pr.write(" ", spell(cmp.Op), " ")
			pr.operand(cmp.Right, true)

			return
		}

		pr.operand(e.Left, true)
		pr.write(" ", e.Op, " ")
		pr.operand(e.Right, true)

	case *ArrayLit:
		pr.write("[")
		pr.exprs(e.Elems)
		pr.write("]")

	case *Index:
		pr.expr(e.Target)
		pr.write("[")
		pr.expr(e.Key)
		pr.write("]")

	case *RecordLit:
		pr.write("{")

		for i, f := range e.Fields {
			if i > 0 {
				pr.write(", ")
			}

			pr.write(`"`, f.Key, `": `)
			pr.expr(f.Value)
		}

		pr.write("}")

	case *Property:
		pr.expr(e.Target)
		pr.write(".", e.Name)

	case *IncDec:
		pr.incDec(e.Name, e.Delta, e.Prefix)

	case *Input:
		pr.write("I>[")
		pr.exprs([]Expr{e.Prompt, e.Type, e.Limit})
		pr.write("]")
	}
}

package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/flyux/lang/token"
	"github.com/ardnew/flyux/log"
)

// Result is the outcome of running a program.
type Result struct {
	// Value is the text returned by main, if Returned is true.
	Value string `json:"value"    yaml:"value"`
	// Returned reports whether main executed a return statement.
	Returned bool `json:"returned" yaml:"returned"`
}

// Run executes the function named main with no arguments.
//
// A program without main runs nothing and returns a zero Result. Any
// runtime error aborts the run and is returned; no partial result is
// produced. Function calls recurse on the goroutine stack with no depth
// limit, so unbounded recursion exhausts the stack and crashes the process.
func (p *Program) Run(ctx context.Context) (Result, error) {
	fn, ok := p.Lookup("main")
	if !ok {
		p.logger.TraceContext(ctx, "no main function")

		return Result{}, nil
	}

	m := newMachine(ctx, p)

	out, err := m.invoke(fn, nil)
	if err != nil {
		return Result{}, err
	}

	p.logger.TraceContext(ctx, "run complete",
		slog.Bool("returned", out.returned))

	return Result{Value: out.value, Returned: out.returned}, nil
}

// machine evaluates statements and expressions against a Program's
// function table.
type machine struct {
	ctx    context.Context
	prog   *Program
	in     *bufio.Reader
	out    io.Writer
	logger log.Logger
}

func newMachine(ctx context.Context, p *Program) *machine {
	in := p.stdin
	if in == nil {
		in = strings.NewReader("")
	}

	out := p.stdout
	if out == nil {
		out = io.Discard
	}

	return &machine{
		ctx:    ctx,
		prog:   p,
		in:     bufio.NewReader(in),
		out:    out,
		logger: p.logger,
	}
}

// outcome reports whether a statement executed a return, and its value.
type outcome struct {
	value    string
	returned bool
}

func (m *machine) canceled() error {
	if m.ctx.Err() != nil {
		return WrapError(context.Cause(m.ctx))
	}

	return nil
}

// invoke runs fn in a fresh environment holding only its parameters.
// Missing arguments are empty; extra arguments are ignored.
func (m *machine) invoke(fn *Function, args []string) (outcome, error) {
	if err := m.canceled(); err != nil {
		return outcome{}, err
	}

	m.logger.TraceContext(m.ctx, "call",
		slog.String("function", fn.Name),
		slog.Int("args", len(args)))

	return m.execBlock(newEnv(fn, args), fn.Body)
}

func (m *machine) execBlock(e env, body []Stmt) (outcome, error) {
	for _, stmt := range body {
		out, err := m.exec(e, stmt)
		if err != nil || out.returned {
			return out, err
		}
	}

	return outcome{}, nil
}

func (m *machine) exec(e env, stmt Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *ConstDecl:
		return outcome{}, m.declare(e, s.Name, s.Type, s.Value, s.At, true)

	case *VarDecl:
		return outcome{}, m.declare(e, s.Name, s.Type, s.Value, s.At, false)

	case *Assign:
		return outcome{}, m.assign(e, s)

	case *IncDecStmt:
		_, err := m.step(e, s.Name, s.Delta, s.At)

		return outcome{}, err

	case *PathAssign:
		return outcome{}, m.assignPath(e, s)

	case *ExprStmt:
		if call, ok := s.X.(*Call); ok {
			return outcome{}, m.callStmt(e, call)
		}

		_, err := m.eval(e, s.X)

		return outcome{}, err

	case *Return:
		v, err := m.eval(e, s.Value)
		if err != nil {
			return outcome{}, err
		}

		return outcome{value: v, returned: true}, nil

	case *If:
		for _, branch := range s.Branches {
			if branch.Cond != nil {
				c, err := m.eval(e, branch.Cond)
				if err != nil {
					return outcome{}, err
				}

				if !Truthy(c) {
					continue
				}
			}

			return m.execBlock(e, branch.Body)
		}

		return outcome{}, nil

	case *Loop:
		return m.loop(e, s)
	}

	return outcome{}, ErrSyntax.At(stmt.Pos()).Wrapf("unsupported statement %T", stmt)
}

// declare binds name for ":=", ":(type) =" and ":[type] =".
//
// The declared type, or the type inferred from the value, normalizes the
// stored text. Constant declarations store booleans as true/false; variable
// declarations store them as 1/0. Only an explicit ":(type)" makes the
// binding constant.
func (m *machine) declare(
	e env,
	name, typ string,
	x Expr,
	at token.Position,
	isConst bool,
) error {
	v, err := m.eval(e, x)
	if err != nil {
		return err
	}

	if typ != "" && !knownType(typ) {
		return ErrUnknownType.At(at).Wrapf("%q", typ)
	}

	declared := typ
	if declared == "" {
		declared = InferType(v)
	}

	trueText, falseText := "true", "false"
	if !isConst {
		trueText, falseText = "1", "0"
	}

	v, err = normalize(declared, v, trueText, falseText)
	if err != nil {
		return WrapError(err).At(at)
	}

	if b, ok := e.lookup(name); ok && b.constant {
		return ErrConstRedefine.At(at).Wrapf("%q", name)
	}

	e.bind(name, binding{
		value:    v,
		typ:      declared,
		constant: isConst && typ != "",
	})

	return nil
}

func (m *machine) assign(e env, s *Assign) error {
	v, err := m.eval(e, s.Value)
	if err != nil {
		return err
	}

	b, ok := e.lookup(s.Name)
	if !ok {
		return ErrUndefined.At(s.At).Wrapf("variable %q", s.Name)
	}

	if b.constant {
		return ErrConstAssign.At(s.At).Wrapf("%q", s.Name)
	}

	v, err = coerce(b.typ, v)
	if err != nil {
		return WrapError(err).At(s.At).With(slog.String("name", s.Name))
	}

	b.value = v
	e.bind(s.Name, b)

	return nil
}

// step adds delta to a numeric binding and returns the new value. Untyped
// bindings (parameters) are typed by the shape of their current value.
func (m *machine) step(e env, name string, delta int, at token.Position) (string, error) {
	b, ok := e.lookup(name)
	if !ok {
		return "", ErrUndefined.At(at).Wrapf("variable %q", name)
	}

	if b.constant {
		return "", ErrConstAssign.At(at).Wrapf("%q", name)
	}

	typ := b.typ
	if typ == "" {
		typ = InferType(b.value)
	}

	switch typ {
	case TypeInt:
		n, err := strconv.ParseInt(b.value, 10, 64)
		if err != nil {
			return "", ErrIncrement.At(at).Wrapf("invalid int %q", b.value)
		}

		b.value = strconv.FormatInt(n+int64(delta), 10)

	case TypeFloat:
		f, err := strconv.ParseFloat(b.value, 64)
		if err != nil {
			return "", ErrIncrement.At(at).Wrapf("invalid float %q", b.value)
		}

		b.value = FormatNumber(f + float64(delta))

	default:
		return "", ErrIncrement.At(at).Wrapf("%q has type %s", name, typ)
	}

	e.bind(name, b)

	return b.value, nil
}

// assignPath writes through a property/index chain and stores the
// re-serialized root value.
func (m *machine) assignPath(e env, s *PathAssign) error {
	v, err := m.eval(e, s.Value)
	if err != nil {
		return err
	}

	root, path, err := m.pathOf(e, s.Target)
	if err != nil {
		return err
	}

	b, ok := e.lookup(root.Name)
	if !ok {
		return ErrUndefined.At(root.At).Wrapf("variable %q", root.Name)
	}

	if b.constant {
		return ErrConstAssign.At(s.At).Wrapf("%q", root.Name)
	}

	updated, err := SetPath(b.value, path, v)
	if err != nil {
		return WrapError(err).At(s.At).With(slog.String("name", root.Name))
	}

	b.value = updated
	e.bind(root.Name, b)

	return nil
}

// pathOf flattens a property/index chain into its root identifier and the
// ordered segments below it. Index keys are evaluated.
func (m *machine) pathOf(e env, x Expr) (*Ident, []PathKey, error) {
	var path []PathKey

	for {
		switch n := x.(type) {
		case *Property:
			path = append(path, PathKey{Key: n.Name})
			x = n.Target

		case *Index:
			key, err := m.eval(e, n.Key)
			if err != nil {
				return nil, nil, err
			}

			path = append(path, PathKey{Key: strings.Trim(key, `"`), Indexed: true})
			x = n.Target

		case *Ident:
			slices.Reverse(path)

			return n, path, nil

		default:
			return nil, nil, ErrNotObject.At(x.Pos()).
				Wrapf("cannot assign through %T", x)
		}
	}
}

func (m *machine) loop(e env, s *Loop) (outcome, error) {
	m.logger.TraceContext(m.ctx, "loop",
		slog.String("kind", s.Kind.loopKind()),
		slog.String("pos", s.At.String()))

	switch k := s.Kind.(type) {
	case *TimesLoop:
		v, err := m.eval(e, k.Count)
		if err != nil {
			return outcome{}, err
		}

		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return outcome{}, ErrLoopCount.At(s.At).Wrapf("%q", v)
		}

		for i := range n {
			e.bind("_", binding{value: strconv.Itoa(i), typ: TypeInt})

			if out, err := m.iterate(e, s.Body); err != nil || out.returned {
				return out, err
			}
		}

	case *EachLoop:
		v, err := m.ident(e, &Ident{Name: k.Target, At: s.At})
		if err != nil {
			return outcome{}, err
		}

		elems, ok := ParseArray(v)
		if !ok {
			return outcome{}, ErrNotArray.At(s.At).
				Wrapf("for-each target %q is not an array: %s", k.Target, v)
		}

		for _, elem := range elems {
			e.bind(k.Item, binding{value: elem, typ: TypeString})

			if out, err := m.iterate(e, s.Body); err != nil || out.returned {
				return out, err
			}
		}

	case *WhileLoop:
		for {
			c, err := m.eval(e, k.Cond)
			if err != nil || !Truthy(c) {
				return outcome{}, err
			}

			if out, err := m.iterate(e, s.Body); err != nil || out.returned {
				return out, err
			}
		}

	case *ForLoop:
		if out, err := m.exec(e, k.Init); err != nil || out.returned {
			return out, err
		}

		for {
			c, err := m.eval(e, k.Cond)
			if err != nil || !Truthy(c) {
				return outcome{}, err
			}

			if out, err := m.iterate(e, s.Body); err != nil || out.returned {
				return out, err
			}

			if out, err := m.exec(e, k.Step); err != nil || out.returned {
				return out, err
			}
		}
	}

	return outcome{}, nil
}

// iterate runs one loop iteration, stopping early if the context is done.
func (m *machine) iterate(e env, body []Stmt) (outcome, error) {
	if err := m.canceled(); err != nil {
		return outcome{}, err
	}

	return m.execBlock(e, body)
}

func (m *machine) eval(e env, x Expr) (string, error) {
	switch n := x.(type) {
	case *NumberLit:
		return FormatNumber(n.Value), nil

	case *StringLit:
		return n.Value, nil

	case *Ident:
		return m.ident(e, n)

	case *Call:
		return m.callExpr(e, n)

	case *Binary:
		return m.binary(e, n)

	case *Logical:
		l, err := m.eval(e, n.Left)
		if err != nil {
			return "", err
		}

		r, err := m.eval(e, n.Right)
		if err != nil {
			return "", err
		}

		if n.Op == "||" {
			return formatBool(l == "true" || r == "true"), nil
		}

		return formatBool(l == "true" && r == "true"), nil

	case *ArrayLit:
		elems := make([]string, len(n.Elems))

		for i, elem := range n.Elems {
			v, err := m.eval(e, elem)
			if err != nil {
				return "", err
			}

			elems[i] = v
		}

		return FormatArray(elems), nil

	case *RecordLit:
		rec := NewRecord()

		for _, field := range n.Fields {
			v, err := m.eval(e, field.Value)
			if err != nil {
				return "", err
			}

			rec.Set(field.Key, v)
		}

		return rec.String(), nil

	case *Index:
		return m.index(e, n)

	case *Property:
		return m.property(e, n)

	case *IncDec:
		return m.step(e, n.Name, n.Delta, n.At)

	case *Input:
		return m.input(e, n)
	}

	return "", ErrSyntax.At(x.Pos()).Wrapf("unsupported expression %T", x)
}

// ident resolves a name: the literals true and false, then the
// environment, then numeric text and the <null>/<undef> markers.
func (m *machine) ident(e env, n *Ident) (string, error) {
	switch n.Name {
	case "true":
		return "1", nil
	case "false":
		return "0", nil
	}

	if b, ok := e.lookup(n.Name); ok {
		return b.value, nil
	}

	if _, err := strconv.ParseFloat(n.Name, 64); err == nil {
		return n.Name, nil
	}

	switch strings.ToLower(n.Name) {
	case "<null>", "<undef>":
		return n.Name, nil
	}

	err := ErrUndefined.At(n.At).Wrapf("identifier %q", n.Name)

	if similar := suggest(n.Name, e.names()); len(similar) > 0 {
		err = err.Wrapf("identifier %q (did you mean %s?)",
			n.Name, strings.Join(similar, ", ")).
			With(slog.Any("suggestions", similar))
	}

	return "", err
}

// suggest returns up to three quoted names from candidates that fuzzily
// match name.
func suggest(name string, candidates []string) []string {
	var out []string

	for _, match := range fuzzy.Find(name, candidates) {
		out = append(out, strconv.Quote(match.Str))
		if len(out) == 3 {
			break
		}
	}

	return out
}

// binary evaluates arithmetic, relational, equality and logical operators.
// Numeric operators treat unparseable text as zero.
func (m *machine) binary(e env, n *Binary) (string, error) {
	l, err := m.eval(e, n.Left)
	if err != nil {
		return "", err
	}

	r, err := m.eval(e, n.Right)
	if err != nil {
		return "", err
	}

	switch n.Op {
	case "=", "==":
		return formatBool(l == r), nil
	case "&&":
		return formatBool(Truthy(l) && Truthy(r)), nil
	case "||":
		return formatBool(Truthy(l) || Truthy(r)), nil
	}

	a, b := parseNumber(l), parseNumber(r)

	switch n.Op {
	case "+":
		return FormatNumber(a + b), nil
	case "-":
		return FormatNumber(a - b), nil
	case "*":
		return FormatNumber(a * b), nil
	case "/":
		if b == 0 {
			return "0", nil
		}

		return FormatNumber(a / b), nil
	case "<":
		return formatBool(a < b), nil
	case ">":
		return formatBool(a > b), nil
	case "<=":
		return formatBool(a <= b), nil
	case ">=":
		return formatBool(a >= b), nil
	}

	return "", ErrSyntax.At(n.At).Wrapf("unsupported operator %q", n.Op)
}

// index reads target[key]. Missing record keys and out-of-range array
// indexes yield empty text; a malformed array index is an error.
func (m *machine) index(e env, n *Index) (string, error) {
	target, err := m.eval(e, n.Target)
	if err != nil {
		return "", err
	}

	key, err := m.eval(e, n.Key)
	if err != nil {
		return "", err
	}

	key = strings.Trim(key, `"`)

	if rec, ok := ParseRecord(target); ok {
		v, _ := rec.Get(key)

		return v, nil
	}

	if elems, ok := ParseArray(target); ok {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return "", ErrInvalidIndex.At(n.At).Wrapf("%q", key)
		}

		if i >= len(elems) {
			return "", nil
		}

		return elems[i], nil
	}

	return "", nil
}

// property reads target.name. Arrays have only length; a record field that
// does not exist is an error.
func (m *machine) property(e env, n *Property) (string, error) {
	target, err := m.eval(e, n.Target)
	if err != nil {
		return "", err
	}

	if elems, ok := ParseArray(target); ok && n.Name == "length" {
		return strconv.Itoa(len(elems)), nil
	}

	rec, ok := ParseRecord(target)
	if !ok {
		return "", ErrNotObject.At(n.At).Wrapf("%s", target)
	}

	v, ok := rec.Get(n.Name)
	if !ok {
		return "", ErrPropertyNotFound.At(n.At).
			Wrapf("%q", n.Name)
	}

	return v, nil
}

func (m *machine) callExpr(e env, c *Call) (string, error) {
	if c.Name == "print" {
		return Void, m.print(e, c.Args)
	}

	fn, ok := m.prog.Lookup(c.Name)
	if !ok {
		return UnknownFn, nil
	}

	args, err := m.evalArgs(e, fn, c.Args)
	if err != nil {
		return "", err
	}

	out, err := m.invoke(fn, args)
	if err != nil {
		return "", err
	}

	if !out.returned {
		return Void, nil
	}

	return out.value, nil
}

// callStmt runs a call in statement position. The callee's return value is
// discarded and an undefined function is ignored.
func (m *machine) callStmt(e env, c *Call) error {
	if c.Name == "print" {
		return m.print(e, c.Args)
	}

	fn, ok := m.prog.Lookup(c.Name)
	if !ok {
		m.logger.TraceContext(m.ctx, "unknown function ignored",
			slog.String("function", c.Name),
			slog.String("pos", c.At.String()))

		return nil
	}

	args, err := m.evalArgs(e, fn, c.Args)
	if err != nil {
		return err
	}

	_, err = m.invoke(fn, args)

	return err
}

// evalArgs evaluates the arguments that bind to fn's parameters. Extra
// arguments are not evaluated.
func (m *machine) evalArgs(e env, fn *Function, exprs []Expr) ([]string, error) {
	n := min(len(exprs), len(fn.Params))
	args := make([]string, n)

	for i := range n {
		v, err := m.eval(e, exprs[i])
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

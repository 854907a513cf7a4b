package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/flyux/lang/token"
)

// Session evaluates source one chunk at a time against a persistent
// environment, as an interactive prompt does.
//
// Function definitions accumulate in the session's Program; a later
// definition replaces an earlier one of the same name. Statements run in a
// single top-level activation whose bindings survive between chunks.
// A Session is not safe for concurrent use.
type Session struct {
	prog *Program
	env  env
	m    *machine
}

// NewSession returns a Session with no functions and no bindings.
func NewSession(opts ...Option) *Session {
	prog := new(Program)

	applyDefaults(prog)
	applyOptions(prog, opts...)
	prog.buildIndex()

	return &Session{
		prog: prog,
		env:  make(env),
		m:    newMachine(context.Background(), prog),
	}
}

// Load defines every function of prog in the session.
func (s *Session) Load(prog *Program) {
	for fn := range prog.All() {
		s.prog.define(fn)
	}
}

// Replace discards every function defined in the session and defines those
// of prog. Variable bindings are kept.
func (s *Session) Replace(prog *Program) {
	s.prog.Functions = nil
	s.prog.buildIndex()
	s.Load(prog)
}

// Program returns the session's accumulated function table.
func (s *Session) Program() *Program { return s.prog }

// Exec evaluates one chunk of source.
//
// A chunk containing a function definition defines every function in it and
// nothing else. Otherwise the chunk is run as a sequence of statements, or,
// if it does not parse as statements, as a single expression. The Result
// holds the value of a lone expression or call, or the value of an
// executed return statement.
func (s *Session) Exec(ctx context.Context, src string) (Result, error) {
	s.m.ctx = ctx

	if definesFunction(src) {
		fns, err := parse(src)
		if err != nil {
			return Result{}, err
		}

		for _, fn := range fns {
			s.prog.define(fn)
		}

		s.prog.logger.TraceContext(ctx, "session define",
			slog.Int("function_count", len(fns)))

		return Result{}, nil
	}

	body, err := parseStmts(src)
	if err != nil {
		x, xerr := parseExpr(src)
		if xerr != nil {
			return Result{}, err
		}

		body = []Stmt{&ExprStmt{X: x, At: x.Pos()}}
	}

	if len(body) == 1 {
		if x, ok := body[0].(*ExprStmt); ok {
			v, err := s.m.eval(s.env, x.X)
			if err != nil {
				return Result{}, err
			}

			if v == Void {
				return Result{}, nil
			}

			return Result{Value: v, Returned: true}, nil
		}
	}

	out, err := s.m.execBlock(s.env, body)
	if err != nil {
		return Result{}, err
	}

	return Result{Value: out.value, Returned: out.returned}, nil
}

// Names returns every name the session can resolve: bound variables,
// defined functions and builtins, sorted and without duplicates.
func (s *Session) Names() []string {
	names := s.env.names()

	for fn := range s.prog.All() {
		names = append(names, fn.Name)
	}

	names = append(names, "print")

	slices.Sort(names)

	return slices.Compact(names)
}

// Value returns the text bound to name in the session's top-level
// activation.
func (s *Session) Value(name string) (string, bool) {
	b, ok := s.env.lookup(name)

	return b.value, ok
}

// Bindings returns the names bound in the session's top-level activation,
// sorted.
func (s *Session) Bindings() []string { return s.env.names() }

func definesFunction(src string) bool {
	for _, tok := range Tokens(src) {
		if tok.Kind == token.Fn {
			return true
		}
	}

	return false
}

func parseStmts(src string) ([]Stmt, error) {
	p := newParser(src)

	var body []Stmt

	for !p.at(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return body, nil
}

func parseExpr(src string) (Expr, error) {
	p := newParser(src)

	x, err := p.parseBinary()
	if err != nil {
		return nil, err
	}

	if !p.at(token.EOF) {
		return nil, p.errorf(p.peek(0), "unexpected %s after expression",
			describe(p.peek(0)))
	}

	return x, nil
}

package lang

import (
	"io"
	"iter"
	"os"

	"github.com/ardnew/flyux/lang/token"
	"github.com/ardnew/flyux/log"
)

// Program is a parsed FLYUX source: the function table plus the options
// that govern its evaluation.
//
// The function table is built once per parse and is read-only afterwards.
// Declaration order in source does not affect resolution.
type Program struct {
	Functions []*Function

	index  map[string]*Function
	logger log.Logger // structured logger (not part of the cache key)
	stdin  io.Reader
	stdout io.Writer
	cache  bool
}

// Function is a named function definition.
type Function struct {
	Name   string         `json:"name"   yaml:"name"`
	Params []Param        `json:"params" yaml:"params"`
	Body   []Stmt         `json:"-"      yaml:"-"`
	At     token.Position `json:"pos"    yaml:"pos"`
}

// Param is a function parameter. Type is empty when no type is declared.
type Param struct {
	Name string `json:"name"           yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Lookup returns the function named name.
func (p *Program) Lookup(name string) (*Function, bool) {
	if p == nil || p.index == nil {
		return nil, false
	}

	fn, ok := p.index[name]

	return fn, ok
}

// All returns an iterator over the functions in declaration order.
func (p *Program) All() iter.Seq[*Function] {
	return func(yield func(*Function) bool) {
		if p == nil {
			return
		}

		for _, fn := range p.Functions {
			if !yield(fn) {
				return
			}
		}
	}
}

// define registers fn, replacing any function of the same name.
// A later definition of a name wins, as it does when parsing a file.
func (p *Program) define(fn *Function) {
	if p.index == nil {
		p.index = make(map[string]*Function)
	}

	if _, ok := p.index[fn.Name]; !ok {
		p.Functions = append(p.Functions, fn)
	} else {
		for i, f := range p.Functions {
			if f.Name == fn.Name {
				p.Functions[i] = fn
			}
		}
	}

	p.index[fn.Name] = fn
}

func (p *Program) buildIndex() {
	p.index = make(map[string]*Function, len(p.Functions))

	for _, fn := range p.Functions {
		p.index[fn.Name] = fn
	}
}

// Option configures a [Program].
type Option func(*Program)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

// WithStdin sets the reader consumed by input expressions.
func WithStdin(r io.Reader) Option {
	return func(p *Program) {
		p.stdin = r
	}
}

// WithStdout sets the writer used by print and input prompts.
func WithStdout(w io.Writer) Option {
	return func(p *Program) {
		p.stdout = w
	}
}

// WithCache enables or disables the parse cache used by [ParseReader].
// The cache is enabled by default.
func WithCache(enable bool) Option {
	return func(p *Program) {
		p.cache = enable
	}
}

func applyDefaults(p *Program) {
	p.stdin = os.Stdin
	p.stdout = os.Stdout
	p.cache = true
}

func applyOptions(p *Program, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
}

// Expr is an expression node. Evaluating an expression never mutates the
// tree.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expressions.
type (
	// NumberLit is a numeric literal. Text is the source spelling.
	NumberLit struct {
		Text  string
		Value float64
		At    token.Position
	}

	// StringLit is a double-quoted string literal, without its quotes.
	StringLit struct {
		Value string
		At    token.Position
	}

	// Ident is a reference to a named value.
	Ident struct {
		Name string
		At   token.Position
	}

	// Call invokes a builtin or user function.
	Call struct {
		Name string
		Args []Expr
		At   token.Position
	}

	// Binary is an arithmetic, relational or equality operation.
	Binary struct {
		Op          string
		Left, Right Expr
		At          token.Position
	}

	// Logical combines two operands with && or ||.
	Logical struct {
		Op          string
		Left, Right Expr
		At          token.Position
	}

	// ArrayLit is an array literal.
	ArrayLit struct {
		Elems []Expr
		At    token.Position
	}

	// Index reads Target[Key].
	Index struct {
		Target Expr
		Key    Expr
		At     token.Position
	}

	// RecordLit is a keyed record literal. Field order is source order.
	RecordLit struct {
		Fields []Field
		At     token.Position
	}

	// Property reads Target.Name.
	Property struct {
		Target Expr
		Name   string
		At     token.Position
	}

	// IncDec increments (Delta 1) or decrements (Delta -1) a named variable
	// and yields its new value.
	IncDec struct {
		Name   string
		Delta  int
		Prefix bool
		At     token.Position
	}

	// Input reads one line from standard input.
	Input struct {
		Prompt Expr
		Type   Expr
		Limit  Expr
		At     token.Position
	}
)

// Field is one key/value pair of a [RecordLit].
type Field struct {
	Key   string
	Value Expr
}

func (n *NumberLit) Pos() token.Position { return n.At }
func (n *StringLit) Pos() token.Position { return n.At }
func (n *Ident) Pos() token.Position     { return n.At }
func (n *Call) Pos() token.Position      { return n.At }
func (n *Binary) Pos() token.Position    { return n.At }
func (n *Logical) Pos() token.Position   { return n.At }
func (n *ArrayLit) Pos() token.Position  { return n.At }
func (n *Index) Pos() token.Position     { return n.At }
func (n *RecordLit) Pos() token.Position { return n.At }
func (n *Property) Pos() token.Position  { return n.At }
func (n *IncDec) Pos() token.Position    { return n.At }
func (n *Input) Pos() token.Position     { return n.At }

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*Ident) exprNode()     {}
func (*Call) exprNode()      {}
func (*Binary) exprNode()    {}
func (*Logical) exprNode()   {}
func (*ArrayLit) exprNode()  {}
func (*Index) exprNode()     {}
func (*RecordLit) exprNode() {}
func (*Property) exprNode()  {}
func (*IncDec) exprNode()    {}
func (*Input) exprNode()     {}

// Statements.
type (
	// ConstDecl binds Name with ":=" (Type empty, inferred from the value)
	// or ":(Type) =" (constant).
	ConstDecl struct {
		Name  string
		Type  string
		Value Expr
		At    token.Position
	}

	// VarDecl binds Name with ":[Type] =".
	VarDecl struct {
		Name  string
		Type  string
		Value Expr
		At    token.Position
	}

	// Loop repeats Body according to Kind.
	Loop struct {
		Kind LoopKind
		Body []Stmt
		At   token.Position
	}

	// If runs the body of the first branch whose condition is truthy.
	If struct {
		Branches []Branch
		At       token.Position
	}

	// Assign replaces the value of an existing binding.
	Assign struct {
		Name  string
		Value Expr
		At    token.Position
	}

	// IncDecStmt is x++, x--, ++x or --x in statement position.
	IncDecStmt struct {
		Name   string
		Delta  int
		Prefix bool
		At     token.Position
	}

	// PathAssign writes through a property/index chain rooted at a
	// variable. Target is an [*Index] or [*Property].
	PathAssign struct {
		Target Expr
		Value  Expr
		At     token.Position
	}

	// ExprStmt evaluates an expression for its effects.
	ExprStmt struct {
		X  Expr
		At token.Position
	}

	// Return ends the activation with a value.
	Return struct {
		Value Expr
		At    token.Position
	}
)

// Branch is one arm of an [If]. A nil Cond always matches.
type Branch struct {
	Cond Expr
	Body []Stmt
}

func (n *ConstDecl) Pos() token.Position  { return n.At }
func (n *VarDecl) Pos() token.Position    { return n.At }
func (n *Loop) Pos() token.Position       { return n.At }
func (n *If) Pos() token.Position         { return n.At }
func (n *Assign) Pos() token.Position     { return n.At }
func (n *IncDecStmt) Pos() token.Position { return n.At }
func (n *PathAssign) Pos() token.Position { return n.At }
func (n *ExprStmt) Pos() token.Position   { return n.At }
func (n *Return) Pos() token.Position     { return n.At }

func (*ConstDecl) stmtNode()  {}
func (*VarDecl) stmtNode()    {}
func (*Loop) stmtNode()       {}
func (*If) stmtNode()         {}
func (*Assign) stmtNode()     {}
func (*IncDecStmt) stmtNode() {}
func (*PathAssign) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*Return) stmtNode()     {}

// LoopKind selects how a [Loop] iterates.
type LoopKind interface {
	loopKind() string
}

type (
	// TimesLoop runs Count times, binding "_" to the iteration index.
	TimesLoop struct {
		Count Expr
	}

	// EachLoop binds Item to each element of the array named Target.
	EachLoop struct {
		Item   string
		Target string
	}

	// WhileLoop runs while Cond is truthy.
	WhileLoop struct {
		Cond Expr
	}

	// ForLoop runs Init once, then Body and Step while Cond is truthy.
	ForLoop struct {
		Init Stmt
		Cond Expr
		Step Stmt
	}
)

func (*TimesLoop) loopKind() string { return "times" }
func (*EachLoop) loopKind() string  { return "each" }
func (*WhileLoop) loopKind() string { return "while" }
func (*ForLoop) loopKind() string   { return "for" }

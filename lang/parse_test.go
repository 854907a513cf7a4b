package lang

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return prog
}

func mainBody(t *testing.T, src string) []Stmt {
	t.Helper()

	fn, ok := mustParse(t, src).Lookup("main")
	if !ok {
		t.Fatal("main not found")
	}

	return fn.Body
}

func TestParseString_Functions(t *testing.T) {
	t.Parallel()

	src := `
junk before F> add(a, b(int)) { R> a + b }
F> main() { print(add(1, 2)) }
F> add(x) { R> x }
`
	prog := mustParse(t, src)

	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(prog.Functions))
	}

	add, ok := prog.Lookup("add")
	if !ok {
		t.Fatal("add not found")
	}

	// The later definition replaces the earlier one in place.
	if prog.Functions[0] != add {
		t.Errorf("add is not first in declaration order")
	}

	if len(add.Params) != 1 || add.Params[0].Name != "x" {
		t.Errorf("add params = %+v, want [x]", add.Params)
	}

	first := mustParse(t, "F> f(a, b(int)) {}")
	f, _ := first.Lookup("f")

	if len(f.Params) != 2 || f.Params[1].Type != "int" {
		t.Errorf("f params = %+v", f.Params)
	}
}

func TestParseString_ChainedRelations(t *testing.T) {
	t.Parallel()

	body := mainBody(t, `F> main() { x := 1 < 2 < 3 < 4 }`)

	decl, ok := body[0].(*ConstDecl)
	if !ok {
		t.Fatalf("got %T, want *ConstDecl", body[0])
	}

	// ((1 < 2) && (2 < 3)) && (3 < 4)
	outer, ok := decl.Value.(*Logical)
	if !ok || outer.Op != "&&" {
		t.Fatalf("value = %T, want && chain", decl.Value)
	}

	last, ok := outer.Right.(*Binary)
	if !ok || last.Op != "<" {
		t.Fatalf("right = %T", outer.Right)
	}

	if n, ok := last.Left.(*NumberLit); !ok || n.Text != "3" {
		t.Errorf("last pair left = %v", last.Left)
	}

	inner, ok := outer.Left.(*Logical)
	if !ok {
		t.Fatalf("left = %T, want *Logical", outer.Left)
	}

	if first, ok := inner.Left.(*Binary); !ok || first.Op != "<" {
		t.Errorf("first pair = %T", inner.Left)
	}
}

func TestParseString_ArithmeticFoldsLeft(t *testing.T) {
	t.Parallel()

	body := mainBody(t, `F> main() { x := 1 + 2 * 3 }`)

	// No precedence: (1 + 2) * 3.
	bin, ok := body[0].(*ConstDecl).Value.(*Binary)
	if !ok || bin.Op != "*" {
		t.Fatalf("value = %#v", body[0].(*ConstDecl).Value)
	}

	if l, ok := bin.Left.(*Binary); !ok || l.Op != "+" {
		t.Errorf("left = %#v, want 1 + 2", bin.Left)
	}
}

func TestParseString_Relations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src string
		op  string
	}{
		{"a < b", "<"},
		{"a <= b", "<"}, // "<=" lexes as "<"
		{"a < = b", "<="},
		{"a > b", ">"},
		{"a >= b", ">="},
		{"a == b", "=="},
		{"a && b", "&&"},
		{"a || b", "||"},
		{"a = b", "="},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			body := mainBody(t, "F> main() { x := "+tt.src+" }")

			bin, ok := body[0].(*ConstDecl).Value.(*Binary)
			if !ok {
				t.Fatalf("value = %T, want *Binary", body[0].(*ConstDecl).Value)
			}

			if bin.Op != tt.op {
				t.Errorf("op = %q, want %q", bin.Op, tt.op)
			}
		})
	}
}

func TestParseString_Statements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want Stmt
	}{
		{"x := 1", &ConstDecl{}},
		{"x :(int) = 1", &ConstDecl{}},
		{"x :[float] = 1", &VarDecl{}},
		{"x = 1", &Assign{}},
		{"x++", &IncDecStmt{}},
		{"--x", &IncDecStmt{}},
		{"a[0] = 1", &PathAssign{}},
		{"a.b := 1", &PathAssign{}},
		{"a.b[c].d = 1", &PathAssign{}},
		{"f(1)", &ExprStmt{}},
		{"R> 1", &Return{}},
		{"if (x) { }", &If{}},
		{"L> [3] { }", &Loop{}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			body := mainBody(t, "F> main() { "+tt.src+" }")
			if len(body) != 1 {
				t.Fatalf("got %d statements, want 1", len(body))
			}

			if got, want := typeName(body[0]), typeName(tt.want); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ConstDecl:
		return "ConstDecl"
	case *VarDecl:
		return "VarDecl"
	case *Assign:
		return "Assign"
	case *IncDecStmt:
		return "IncDecStmt"
	case *PathAssign:
		return "PathAssign"
	case *ExprStmt:
		return "ExprStmt"
	case *Return:
		return "Return"
	case *If:
		return "If"
	case *Loop:
		return "Loop"
	}

	return "unknown"
}

func TestParseString_TypedDeclarations(t *testing.T) {
	t.Parallel()

	body := mainBody(t, `F> main() { c :(bool) = true v :[int] = 2 }`)

	c, ok := body[0].(*ConstDecl)
	if !ok || c.Type != "bool" || c.Name != "c" {
		t.Errorf("const = %#v", body[0])
	}

	v, ok := body[1].(*VarDecl)
	if !ok || v.Type != "int" || v.Name != "v" {
		t.Errorf("var = %#v", body[1])
	}
}

func TestParseString_LoopHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		kind   string
	}{
		{"[3]", "times"},
		{"[n", "times"},
		{"items : item", "each"},
		{"(i < 3)", "while"},
		{"((i) < (3))", "while"},
		{"(i < 3;)", "while"},
		{"(i := 0; i < 3; i++)", "for"},
		{"(i := (0); (i) < 3; i++)", "for"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()

			body := mainBody(t, "F> main() { L> "+tt.header+" { } }")

			loop, ok := body[0].(*Loop)
			if !ok {
				t.Fatalf("got %T, want *Loop", body[0])
			}

			if got := loop.Kind.loopKind(); got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestParseString_EachLoopOrder(t *testing.T) {
	t.Parallel()

	body := mainBody(t, `F> main() { L> list : item { print(item) } }`)

	each, ok := body[0].(*Loop).Kind.(*EachLoop)
	if !ok {
		t.Fatalf("kind = %T", body[0].(*Loop).Kind)
	}

	if each.Target != "list" || each.Item != "item" {
		t.Errorf("each = %+v, want target list, item item", each)
	}
}

func TestParseString_IfChain(t *testing.T) {
	t.Parallel()

	body := mainBody(t, `F> main() {
		if (a) { x := 1 } elif (b) { x := 2 } (c) { x := 3 } else { x := 4 }
		if (a) { } { }
	}`)

	first, ok := body[0].(*If)
	if !ok || len(first.Branches) != 4 {
		t.Fatalf("first if = %#v", body[0])
	}

	if first.Branches[3].Cond != nil {
		t.Errorf("else branch has a condition")
	}

	second, ok := body[1].(*If)
	if !ok || len(second.Branches) != 2 || second.Branches[1].Cond != nil {
		t.Errorf("second if = %#v", body[1])
	}
}

func TestParseString_Input(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		prompt string
		typ    string
	}{
		{`I>["name? ", string, 5]`, "name? ", "string"},
		{`I>[]`, "", ""},
		{`I>[, number]`, "", "number"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			body := mainBody(t, "F> main() { x := "+tt.src+" }")

			in, ok := body[0].(*ConstDecl).Value.(*Input)
			if !ok {
				t.Fatalf("value = %T, want *Input", body[0].(*ConstDecl).Value)
			}

			if p, ok := in.Prompt.(*StringLit); !ok || p.Value != tt.prompt {
				t.Errorf("prompt = %#v, want %q", in.Prompt, tt.prompt)
			}

			switch typ := in.Type.(type) {
			case *Ident:
				if typ.Name != tt.typ {
					t.Errorf("type = %q, want %q", typ.Name, tt.typ)
				}
			case *StringLit:
				if typ.Value != tt.typ {
					t.Errorf("type = %q, want %q", typ.Value, tt.typ)
				}
			default:
				t.Errorf("type = %T", in.Type)
			}

			if in.Limit == nil {
				t.Error("limit is nil")
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing body", "F> main()", 1},
		{"unclosed body", "F> main() {\n x := 1", 2},
		{"bad declaration", "F> main() {\n x 1 }", 2},
		{"missing type", "F> main() { x :(1) = 2 }", 1},
		{"while with separator", "F> main() { L> (a; b) { } }", 1},
		{"multi-dot number", "F> main() {\n x := 1.2.3 }", 2},
		{"bad loop header", "F> main() { L> 3 { } }", 1},
		{"unknown statement", "F> main() {\n\n + }", 3},
		{"unterminated array", "F> main() { x := [1, 2", 1},
		{"if without paren", "F> main() { if x { } }", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseString(t.Context(), tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v is not a syntax error", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			pos, ok := e.Pos()
			if !ok {
				t.Fatal("error has no position")
			}

			if pos.Line != tt.line {
				t.Errorf("error at line %d, want %d: %v", pos.Line, tt.line, err)
			}
		})
	}
}

func TestParseString_NoFunctions(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "just some words")
	if len(prog.Functions) != 0 {
		t.Errorf("got %d functions, want 0", len(prog.Functions))
	}

	if _, ok := prog.Lookup("main"); ok {
		t.Error("found main in empty program")
	}
}

func TestParseString_Comments(t *testing.T) {
	t.Parallel()

	body := mainBody(t, "F> main() { // comment\n x := 1 // more\n }")
	if len(body) != 1 {
		t.Errorf("got %d statements, want 1", len(body))
	}
}

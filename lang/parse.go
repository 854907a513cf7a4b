package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/flyux/lang/lexer"
	"github.com/ardnew/flyux/lang/token"
)

// ParseString parses a Program from a string.
//
// Parsing is all-or-nothing: the first structural mismatch is returned as
// an [ErrSyntax] error carrying its line and column, and no partial program
// is produced.
func ParseString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Program, error) {
	prog := new(Program)

	applyDefaults(prog)
	applyOptions(prog, opts...)

	prog.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(src)))

	fns, err := parse(src)
	if err != nil {
		return nil, err
	}

	prog.Functions = fns
	prog.buildIndex()

	prog.logger.TraceContext(ctx, "parse complete",
		slog.Int("function_count", len(prog.Functions)))

	return prog, nil
}

// Tokens returns every token in src, including comments.
func Tokens(src string) []token.Token {
	return lexer.Tokenize(src)
}

// parse returns the function table of src. A later definition of a name
// replaces an earlier one in place.
func parse(src string) ([]*Function, error) {
	p := newParser(src)

	var (
		fns  []*Function
		seen = make(map[string]int)
	)

	for !p.at(token.EOF) {
		if !p.at(token.Fn) {
			p.next()

			continue
		}

		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}

		if i, ok := seen[fn.Name]; ok {
			fns[i] = fn

			continue
		}

		seen[fn.Name] = len(fns)
		fns = append(fns, fn)
	}

	return fns, nil
}

// parser holds the parser state: the comment-free token sequence and a
// cursor into it.
type parser struct {
	toks []token.Token
	pos  int
	eof  token.Token
}

func newParser(src string) *parser {
	var (
		l = lexer.New(src)
		p = new(parser)
	)

	for {
		tok := l.Next()

		switch tok.Kind {
		case token.Comment:
			continue

		case token.EOF:
			p.eof = tok

			return p
		}

		p.toks = append(p.toks, tok)
	}
}

func (p *parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.eof
}

func (p *parser) next() token.Token {
	tok := p.peek(0)
	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind token.Kind) bool { return p.peek(0).Kind == kind }

func (p *parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.next()

		return true
	}

	return false
}

func (p *parser) expect(kind token.Kind, where string) (token.Token, error) {
	tok := p.peek(0)
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %q %s, found %s",
			kind.Symbol(), where, describe(tok))
	}

	return p.next(), nil
}

// save and restore bracket a speculative parse.
func (p *parser) save() int         { return p.pos }
func (p *parser) restore(mark int) { p.pos = mark }

func (p *parser) errorf(tok token.Token, format string, args ...any) error {
	return ErrSyntax.At(tok.Pos).Wrapf(format, args...)
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}

	return strconv.Quote(tok.Lexeme())
}

// incDecAt reports whether the tokens at offsets n and n+1 spell "++" or
// "--", returning +1 or -1 accordingly.
func (p *parser) incDecAt(n int) (int, bool) {
	a, b := p.peek(n), p.peek(n+1)

	switch {
	case a.Is('+') && b.Is('+'):
		return 1, true
	case a.Is('-') && b.Is('-'):
		return -1, true
	}

	return 0, false
}

// parseFunction parses: F> name [( param, ... )] ... { stmt* }.
// Anything between the parameter list and the opening brace is ignored.
func (p *parser) parseFunction() (*Function, error) {
	at := p.next().Pos

	name := p.next()
	if name.Kind != token.Ident {
		return nil, p.errorf(name, "expected function name, found %s",
			describe(name))
	}

	fn := &Function{Name: name.Text, At: at}

	if p.accept(token.LParen) {
		for !p.at(token.RParen) {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}

			fn.Params = append(fn.Params, param)
			p.accept(token.Comma)
		}

		p.next()
	}

	for !p.at(token.LBrace) {
		if p.at(token.EOF) {
			return nil, p.errorf(p.peek(0),
				"expected \"{\" to open body of function %q", fn.Name)
		}

		p.next()
	}

	body, err := p.parseBlock("function header")
	if err != nil {
		return nil, err
	}

	fn.Body = body

	return fn, nil
}

// parseParam parses: name [( type )].
func (p *parser) parseParam() (Param, error) {
	name := p.next()
	if name.Kind != token.Ident {
		return Param{}, p.errorf(name, "expected parameter name, found %s",
			describe(name))
	}

	param := Param{Name: name.Text}

	if p.accept(token.LParen) {
		typ := p.next()
		if typ.Kind != token.Ident {
			return Param{}, p.errorf(typ, "expected type after \"(\", found %s",
				describe(typ))
		}

		if _, err := p.expect(token.RParen, "after parameter type"); err != nil {
			return Param{}, err
		}

		param.Type = typ.Text
	}

	return param, nil
}

// parseBlock parses: { stmt* }.
func (p *parser) parseBlock(after string) ([]Stmt, error) {
	if _, err := p.expect(token.LBrace, "after "+after); err != nil {
		return nil, err
	}

	var body []Stmt

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.errorf(p.peek(0), "expected \"}\", found end of input")
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	p.next()

	return body, nil
}

func (p *parser) parseStmt() (Stmt, error) {
	tok := p.peek(0)

	if delta, ok := p.incDecAt(0); ok && p.peek(2).Kind == token.Ident {
		p.pos += 2
		name := p.next()

		return &IncDecStmt{Name: name.Text, Delta: delta, Prefix: true, At: tok.Pos}, nil
	}

	switch tok.Kind {
	case token.Return:
		p.next()

		value, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		return &Return{Value: value, At: tok.Pos}, nil

	case token.Loop:
		return p.parseLoop()

	case token.If:
		return p.parseIf()

	case token.Ident:
		return p.parseIdentStmt()
	}

	return nil, p.errorf(tok, "unknown statement starting with %s", describe(tok))
}

// parseIdentStmt parses the statements that begin with an identifier: calls,
// postfix increments, path assignments, declarations and assignments.
func (p *parser) parseIdentStmt() (Stmt, error) {
	name := p.peek(0)

	if p.peek(1).Kind == token.LParen {
		p.next()

		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}

		call := &Call{Name: name.Text, Args: args, At: name.Pos}

		return &ExprStmt{X: call, At: name.Pos}, nil
	}

	if delta, ok := p.incDecAt(1); ok {
		p.pos += 3

		return &IncDecStmt{Name: name.Text, Delta: delta, At: name.Pos}, nil
	}

	if stmt, ok, err := p.tryPathAssign(); ok || err != nil {
		return stmt, err
	}

	p.next()

	switch tok := p.peek(0); tok.Kind {
	case token.Declare:
		p.next()

		value, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		return &ConstDecl{Name: name.Text, Value: value, At: name.Pos}, nil

	case token.Colon:
		p.next()

		return p.parseTypedDecl(name)

	case token.Eq:
		p.next()

		value, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		return &Assign{Name: name.Text, Value: value, At: name.Pos}, nil

	default:
		return nil, p.errorf(tok, "expected \":=\" after variable %q, found %s",
			name.Text, describe(tok))
	}
}

// tryPathAssign speculatively parses a property/index chain followed by an
// assignment marker. On any mismatch the cursor is restored and ok is false.
func (p *parser) tryPathAssign() (stmt Stmt, ok bool, err error) {
	mark := p.save()

	target, perr := p.parsePrimary()
	if perr != nil {
		p.restore(mark)

		return nil, false, nil
	}

	switch target.(type) {
	case *Property, *Index:
	default:
		p.restore(mark)

		return nil, false, nil
	}

	if !p.at(token.Declare) && !p.at(token.Eq) {
		p.restore(mark)

		return nil, false, nil
	}

	p.next()

	value, err := p.parseBinary()
	if err != nil {
		return nil, true, err
	}

	return &PathAssign{Target: target, Value: value, At: target.Pos()}, true, nil
}

// parseTypedDecl parses the remainder of ":(type) = expr" (constant) or
// ":[type] = expr" (variable); the colon has been consumed.
func (p *parser) parseTypedDecl(name token.Token) (Stmt, error) {
	open := p.peek(0)

	var closer token.Kind

	switch open.Kind {
	case token.LParen:
		closer = token.RParen
	case token.LBracket:
		closer = token.RBracket
	default:
		return nil, p.errorf(open,
			"expected \":(type)\" or \":[type]\" after %q, found %s",
			name.Text, describe(open))
	}

	p.next()

	typ := p.next()
	if typ.Kind != token.Ident {
		return nil, p.errorf(typ, "expected type name after %q, found %s",
			open.Lexeme(), describe(typ))
	}

	if _, err := p.expect(closer, "after type "+strconv.Quote(typ.Text)); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Eq, "after type declaration"); err != nil {
		return nil, err
	}

	value, err := p.parseBinary()
	if err != nil {
		return nil, err
	}

	if closer == token.RParen {
		return &ConstDecl{Name: name.Text, Type: typ.Text, Value: value, At: name.Pos}, nil
	}

	return &VarDecl{Name: name.Text, Type: typ.Text, Value: value, At: name.Pos}, nil
}

// parseIf parses an if statement and every branch chained onto it.
// The chain ends after an else or a bare block.
func (p *parser) parseIf() (Stmt, error) {
	stmt := &If{At: p.next().Pos}

	if !p.at(token.LParen) {
		return nil, p.errorf(p.peek(0), "expected \"(\" after if, found %s",
			describe(p.peek(0)))
	}

	branch, err := p.parseCondBranch("if condition")
	if err != nil {
		return nil, err
	}

	stmt.Branches = append(stmt.Branches, branch)

	for {
		switch p.peek(0).Kind {
		case token.Elif:
			p.next()

			if !p.at(token.LParen) {
				return nil, p.errorf(p.peek(0), "expected \"(\" after elif, found %s",
					describe(p.peek(0)))
			}

			branch, err := p.parseCondBranch("elif condition")
			if err != nil {
				return nil, err
			}

			stmt.Branches = append(stmt.Branches, branch)

		case token.LParen:
			branch, err := p.parseCondBranch("condition")
			if err != nil {
				return nil, err
			}

			stmt.Branches = append(stmt.Branches, branch)

		case token.Else:
			p.next()

			body, err := p.parseBlock("else")
			if err != nil {
				return nil, err
			}

			stmt.Branches = append(stmt.Branches, Branch{Body: body})

			return stmt, nil

		case token.LBrace:
			body, err := p.parseBlock("condition")
			if err != nil {
				return nil, err
			}

			stmt.Branches = append(stmt.Branches, Branch{Body: body})

			return stmt, nil

		default:
			return stmt, nil
		}
	}
}

// parseCondBranch parses: ( expr ) { stmt* }.
func (p *parser) parseCondBranch(what string) (Branch, error) {
	p.next()

	cond, err := p.parseBinary()
	if err != nil {
		return Branch{}, err
	}

	if _, err := p.expect(token.RParen, "after "+what); err != nil {
		return Branch{}, err
	}

	body, err := p.parseBlock(what)
	if err != nil {
		return Branch{}, err
	}

	return Branch{Cond: cond, Body: body}, nil
}

// parseLoop parses a loop, choosing the header shape by its first token:
//
//	L> [count] { ... }             times
//	L> target : item { ... }       each
//	L> (cond) { ... }              while
//	L> (init; cond; step) { ... }  for
func (p *parser) parseLoop() (Stmt, error) {
	stmt := &Loop{At: p.next().Pos}

	tok := p.peek(0)

	switch tok.Kind {
	case token.LBracket:
		p.next()

		count, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		if !p.at(token.RBracket) && !p.at(token.LBrace) {
			return nil, p.errorf(p.peek(0),
				"expected \"]\" or \"{\" after loop count, found %s",
				describe(p.peek(0)))
		}

		p.accept(token.RBracket)

		stmt.Kind = &TimesLoop{Count: count}

	case token.Ident:
		p.next()

		if _, err := p.expect(token.Colon, "after loop target"); err != nil {
			return nil, err
		}

		item := p.next()
		if item.Kind != token.Ident {
			return nil, p.errorf(item, "expected loop variable after \":\", found %s",
				describe(item))
		}

		stmt.Kind = &EachLoop{Item: item.Text, Target: tok.Text}

	case token.LParen:
		var (
			kind LoopKind
			err  error
		)

		if p.countSeparators() == 2 {
			kind, err = p.parseForHeader()
		} else {
			kind, err = p.parseWhileHeader()
		}

		if err != nil {
			return nil, err
		}

		stmt.Kind = kind

	default:
		return nil, p.errorf(tok, "unknown loop header starting with %s",
			describe(tok))
	}

	body, err := p.parseBlock("loop header")
	if err != nil {
		return nil, err
	}

	stmt.Body = body

	return stmt, nil
}

// countSeparators counts the ';' tokens at depth one between the '(' at the
// cursor and its matching ')'. The cursor does not move.
func (p *parser) countSeparators() int {
	var (
		count = 0
		depth = 1
	)

	for i := p.pos + 1; i < len(p.toks); i++ {
		tok := p.toks[i]

		switch {
		case tok.Kind == token.LParen:
			depth++

		case tok.Kind == token.RParen:
			depth--
			if depth == 0 {
				return count
			}

		case tok.Is(';') && depth == 1:
			count++
		}
	}

	return count
}

func (p *parser) parseWhileHeader() (LoopKind, error) {
	p.next()

	cond, err := p.parseBinary()
	if err != nil {
		return nil, err
	}

	// A single trailing separator is allowed: L> (c;) { ... }
	if p.peek(0).Is(';') && p.peek(1).Kind == token.RParen {
		p.next()
	}

	if p.peek(0).Is(';') {
		return nil, p.errorf(p.peek(0),
			"invalid while-loop header: expected one condition expression")
	}

	p.accept(token.RParen)

	return &WhileLoop{Cond: cond}, nil
}

func (p *parser) parseForHeader() (LoopKind, error) {
	p.next()

	init, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	if err := p.expectSeparator("after for-loop initializer"); err != nil {
		return nil, err
	}

	cond, err := p.parseBinary()
	if err != nil {
		return nil, err
	}

	if err := p.expectSeparator("after for-loop condition"); err != nil {
		return nil, err
	}

	step, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	p.accept(token.RParen)

	return &ForLoop{Init: init, Cond: cond, Step: step}, nil
}

func (p *parser) expectSeparator(where string) error {
	if tok := p.peek(0); !tok.Is(';') {
		return p.errorf(tok, "expected \";\" %s, found %s", where, describe(tok))
	}

	p.next()

	return nil
}

// Relational and logical operators accumulate into a chain; all other
// operators fold into the most recent operand immediately.
var chainOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true,
	"&&": true, "||": true,
}

// operator returns the binary operator at the cursor and the number of
// tokens it spans, or width 0 if there is none.
func (p *parser) operator() (string, int) {
	tok, next := p.peek(0), p.peek(1)

	switch {
	case tok.Is('<') && next.Kind == token.Eq:
		return "<=", 2
	case tok.Is('>') && next.Kind == token.Eq:
		return ">=", 2
	case tok.Kind == token.Eq && next.Kind == token.Eq:
		return "==", 2
	case tok.Kind == token.Eq:
		return "=", 1
	case tok.IsIdent("&&"), tok.IsIdent("||"):
		return tok.Text, 1
	case tok.Is('+'), tok.Is('-'), tok.Is('*'), tok.Is('/'),
		tok.Is('<'), tok.Is('>'):
		return tok.Text, 1
	}

	return "", 0
}

// parseBinary parses a flat, left-to-right run of operands and operators.
// A chain such as a < b < c becomes (a < b) && (b < c).
func (p *parser) parseBinary() (Expr, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var (
		operands = []Expr{first}
		ops      []string
		opPos    []token.Position
	)

	for {
		at := p.peek(0).Pos

		op, width := p.operator()
		if width == 0 {
			break
		}

		p.pos += width

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if chainOps[op] {
			operands = append(operands, rhs)
			ops = append(ops, op)
			opPos = append(opPos, at)

			continue
		}

		last := len(operands) - 1
		operands[last] = &Binary{Op: op, Left: operands[last], Right: rhs, At: at}
	}

	if len(ops) == 0 {
		return operands[0], nil
	}

	var result Expr = &Binary{
		Op: ops[0], Left: operands[0], Right: operands[1], At: opPos[0],
	}

	for i := 1; i < len(ops); i++ {
		cmp := &Binary{
			Op: ops[i], Left: operands[i], Right: operands[i+1], At: opPos[i],
		}
		result = &Logical{Op: "&&", Left: result, Right: cmp, At: opPos[i]}
	}

	return result, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek(0)

	switch tok.Kind {
	case token.LParen:
		p.next()

		inner, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RParen, "to close grouping"); err != nil {
			return nil, err
		}

		return inner, nil

	case token.Number:
		p.next()

		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.Text)
		}

		return &NumberLit{Text: tok.Text, Value: f, At: tok.Pos}, nil

	case token.String:
		p.next()

		return &StringLit{Value: tok.Text, At: tok.Pos}, nil

	case token.LBracket:
		return p.parseArray()

	case token.LBrace:
		return p.parseRecord()

	case token.Ident:
		return p.parseIdentExpr()
	}

	if delta, ok := p.incDecAt(0); ok && p.peek(2).Kind == token.Ident {
		p.pos += 2
		name := p.next()

		return &IncDec{Name: name.Text, Delta: delta, Prefix: true, At: tok.Pos}, nil
	}

	return nil, p.errorf(tok, "unexpected %s in expression", describe(tok))
}

func (p *parser) parseArray() (Expr, error) {
	at := p.next().Pos

	var elems []Expr

	for !p.at(token.RBracket) {
		if p.at(token.EOF) {
			return nil, p.errorf(p.peek(0), "unterminated array literal")
		}

		elem, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		elems = append(elems, elem)
		p.accept(token.Comma)
	}

	p.next()

	return p.parseIndexChain(&ArrayLit{Elems: elems, At: at})
}

func (p *parser) parseIndexChain(expr Expr) (Expr, error) {
	for p.at(token.LBracket) {
		at := p.next().Pos

		key, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RBracket, "to close index"); err != nil {
			return nil, err
		}

		expr = &Index{Target: expr, Key: key, At: at}
	}

	return expr, nil
}

func (p *parser) parseRecord() (Expr, error) {
	rec := &RecordLit{At: p.next().Pos}

	for !p.at(token.RBrace) {
		key := p.next()
		if key.Kind != token.Ident && key.Kind != token.String {
			return nil, p.errorf(key, "expected key in record literal, found %s",
				describe(key))
		}

		if _, err := p.expect(token.Colon, "after record key"); err != nil {
			return nil, err
		}

		value, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		rec.Fields = append(rec.Fields, Field{Key: key.Text, Value: value})
		p.accept(token.Comma)
	}

	p.next()

	return rec, nil
}

// parseIdentExpr parses an input expression, a call, or an identifier with
// its property/index chain and an optional postfix ++ or --.
func (p *parser) parseIdentExpr() (Expr, error) {
	tok := p.next()

	if tok.Text == "I" && p.peek(0).Is('>') && p.peek(1).Kind == token.LBracket {
		return p.parseInput(tok)
	}

	if p.at(token.LParen) {
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}

		return &Call{Name: tok.Text, Args: args, At: tok.Pos}, nil
	}

	var expr Expr = &Ident{Name: tok.Text, At: tok.Pos}

	for {
		switch {
		case p.at(token.Dot):
			dot := p.next()

			name := p.next()
			if name.Kind != token.Ident {
				return nil, p.errorf(name, "expected property name after \".\", found %s",
					describe(name))
			}

			expr = &Property{Target: expr, Name: name.Text, At: dot.Pos}

			continue

		case p.at(token.LBracket):
			chained, err := p.parseIndexChain(expr)
			if err != nil {
				return nil, err
			}

			expr = chained

			continue
		}

		break
	}

	if _, bare := expr.(*Ident); bare {
		if delta, ok := p.incDecAt(0); ok {
			p.pos += 2

			return &IncDec{Name: tok.Text, Delta: delta, At: tok.Pos}, nil
		}
	}

	return expr, nil
}

// parseInput parses: I>[prompt, type, limit]. Omitted arguments are empty
// strings.
func (p *parser) parseInput(tok token.Token) (Expr, error) {
	p.pos += 2

	var (
		args        []Expr
		needDefault = true
		empty       = func() Expr { return &StringLit{At: tok.Pos} }
	)

	for !p.at(token.RBracket) {
		if p.at(token.EOF) {
			return nil, p.errorf(p.peek(0), "unterminated input expression")
		}

		if p.accept(token.Comma) {
			if needDefault {
				args = append(args, empty())
			}

			needDefault = true

			continue
		}

		arg, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
		needDefault = p.accept(token.Comma)
	}

	p.next()

	for len(args) < 3 {
		args = append(args, empty())
	}

	return &Input{Prompt: args[0], Type: args[1], Limit: args[2], At: tok.Pos}, nil
}

func (p *parser) parseCallArgs() ([]Expr, error) {
	if _, err := p.expect(token.LParen, "to open argument list"); err != nil {
		return nil, err
	}

	var args []Expr

	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			return nil, p.errorf(p.peek(0), "unterminated argument list")
		}

		arg, err := p.parseBinary()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
		p.accept(token.Comma)
	}

	p.next()

	return args, nil
}

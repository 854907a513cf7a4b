// Package lexer converts FLYUX source text into tokens.
//
// The lexer makes a single forward pass with at most two runes of
// lookahead. Whitespace is consumed silently; comments are emitted as
// tokens for the parser to discard.
package lexer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/flyux/lang/token"
)

// Lexer produces tokens from source text.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize returns every token in src in order, excluding whitespace.
func Tokenize(src string) []token.Token {
	var toks []token.Token

	for tok := range New(src).All() {
		toks = append(toks, tok)
	}

	return toks
}

// All returns an iterator over the remaining tokens.
// The EOF token is not yielded.
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := l.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

// Next scans and returns the next token, or an EOF token when the input is
// exhausted.
func (l *Lexer) Next() token.Token {
	l.skipSpace()

	start := l.position()

	r, ok := l.peek(0)
	if !ok {
		return token.Token{Kind: token.EOF, Pos: start}
	}

	emit := func(kind token.Kind, text string) token.Token {
		return token.Token{Kind: kind, Text: text, Pos: start}
	}

	switch r {
	case '(':
		l.advance()
		return emit(token.LParen, "")
	case ')':
		l.advance()
		return emit(token.RParen, "")
	case '{':
		l.advance()
		return emit(token.LBrace, "")
	case '}':
		l.advance()
		return emit(token.RBrace, "")
	case '[':
		l.advance()
		return emit(token.LBracket, "")
	case ']':
		l.advance()
		return emit(token.RBracket, "")
	case ',':
		l.advance()
		return emit(token.Comma, "")

	case '=':
		l.advance()

		switch l.peekRune() {
		case '>':
			l.advance()
			return emit(token.BindOne, "")
		case ':':
			// "=:" without a second ':' is still a plain '='; the ':' is
			// consumed either way.
			l.advance()
			if l.peekRune() == ':' {
				l.advance()
				return emit(token.ForceAssign, "")
			}
		}

		return emit(token.Eq, "")

	case ':':
		l.advance()
		if l.peekRune() == '=' {
			l.advance()
			return emit(token.Declare, "")
		}

		return emit(token.Colon, "")

	case '<':
		l.advance()
		if l.peekRune() == '=' {
			l.advance()
			if l.peekRune() == '>' {
				l.advance()
				return emit(token.BindTwo, "")
			}
		}

		return emit(token.Unknown, "<")

	case '.':
		l.advance()
		if l.peekRune() == '>' {
			l.advance()
			return emit(token.Pipe, "")
		}

		return emit(token.Dot, "")

	case '+', '-', '*', '>':
		l.advance()
		return emit(token.Unknown, string(r))

	case '/':
		l.advance()
		if l.peekRune() == '/' {
			l.advance()
			return emit(token.Comment, l.scanLine())
		}

		return emit(token.Unknown, "/")

	case '"':
		l.advance()
		return emit(token.String, l.scanString())
	}

	switch {
	case r >= '0' && r <= '9':
		return emit(token.Number, l.scanWhile(isNumber))

	case isIdentStart(r):
		l.advance()
		text := string(r) + l.scanWhile(isIdentContinue)

		return l.keyword(start, text)
	}

	l.advance()

	return emit(token.Unknown, string(r))
}

var sigil = map[string]token.Kind{
	"F": token.Fn,
	"R": token.Return,
	"L": token.Loop,
}

// keyword classifies a scanned identifier. The single letters F, R and L
// become sigils only when immediately followed by '>'.
func (l *Lexer) keyword(start token.Position, text string) token.Token {
	if kind, ok := sigil[text]; ok && l.peekRune() == '>' {
		l.advance()
		return token.Token{Kind: kind, Pos: start}
	}

	switch text {
	case "if":
		return token.Token{Kind: token.If, Pos: start}
	case "elif":
		return token.Token{Kind: token.Elif, Pos: start}
	case "else":
		return token.Token{Kind: token.Else, Pos: start}
	}

	return token.Token{Kind: token.Ident, Text: text, Pos: start}
}

// scanString consumes a string body up to and including the closing quote.
// No escape sequences are recognized. An unterminated string runs to the
// end of input.
func (l *Lexer) scanString() string {
	var sb strings.Builder

	for {
		r, ok := l.peek(0)
		if !ok {
			return sb.String()
		}

		l.advance()

		if r == '"' {
			return sb.String()
		}

		sb.WriteRune(r)
	}
}

func (l *Lexer) scanLine() string {
	return l.scanWhile(func(r rune) bool { return r != '\n' })
}

func (l *Lexer) scanWhile(accept func(rune) bool) string {
	begin := l.pos

	for {
		r, ok := l.peek(0)
		if !ok || !accept(r) {
			break
		}

		l.advance()
	}

	return l.src[begin:l.pos]
}

func (l *Lexer) skipSpace() {
	for {
		r, ok := l.peek(0)
		if !ok || !unicode.IsSpace(r) {
			return
		}

		l.advance()
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// peek decodes the rune n runes ahead of the cursor.
func (l *Lexer) peek(n int) (rune, bool) {
	pos := l.pos

	for {
		if pos >= len(l.src) {
			return utf8.RuneError, false
		}

		r, size := utf8.DecodeRuneInString(l.src[pos:])
		if n == 0 {
			return r, true
		}

		pos += size
		n--
	}
}

// peekRune returns the current rune, or 0 at end of input.
func (l *Lexer) peekRune() rune {
	r, ok := l.peek(0)
	if !ok {
		return 0
	}

	return r
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// Character classification

func isNumber(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

func isReserved(r rune) bool {
	switch r {
	case '(', ')', '{', '}', '[', ']', ',', '=', ':', '<', '>', '.', '/', '"', ';':
		return true
	}

	return false
}

func isIdentStart(r rune) bool {
	return !unicode.IsControl(r) && !unicode.IsSpace(r) && !isReserved(r)
}

func isIdentContinue(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '=', '>', '<', ':', ',':
		return false
	}

	return isIdentStart(r)
}

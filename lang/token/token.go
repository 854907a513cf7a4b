// Package token defines the lexical tokens of the FLYUX language.
package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	EOF Kind = iota

	Fn          // F>
	Return      // R>
	Loop        // L>
	If          // if
	Elif        // elif
	Else        // else
	Pipe        // .>
	BindOne     // =>
	BindTwo     // <=>
	Declare     // :=
	ForceAssign // =::

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Comma    // ,
	Eq       // =
	Colon    // :
	Dot      // .

	Ident
	Number
	String
	Comment
	Unknown
)

var kindName = [...]string{
	EOF:         "eof",
	Fn:          "fn",
	Return:      "return",
	Loop:        "loop",
	If:          "if",
	Elif:        "elif",
	Else:        "else",
	Pipe:        "pipe",
	BindOne:     "bind-one",
	BindTwo:     "bind-two",
	Declare:     "declare",
	ForceAssign: "force-assign",
	LParen:      "lparen",
	RParen:      "rparen",
	LBrace:      "lbrace",
	RBrace:      "rbrace",
	LBracket:    "lbracket",
	RBracket:    "rbracket",
	Comma:       "comma",
	Eq:          "eq",
	Colon:       "colon",
	Dot:         "dot",
	Ident:       "ident",
	Number:      "number",
	String:      "string",
	Comment:     "comment",
	Unknown:     "unknown",
}

var kindSymbol = map[Kind]string{
	Fn:          "F>",
	Return:      "R>",
	Loop:        "L>",
	If:          "if",
	Elif:        "elif",
	Else:        "else",
	Pipe:        ".>",
	BindOne:     "=>",
	BindTwo:     "<=>",
	Declare:     ":=",
	ForceAssign: "=::",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Comma:       ",",
	Eq:          "=",
	Colon:       ":",
	Dot:         ".",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Symbol returns the source spelling of fixed-text kinds, or the empty
// string for kinds whose text varies.
func (k Kind) Symbol() string { return kindSymbol[k] }

// Position is a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String formats the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit.
//
// Text holds the identifier name, the raw digits of a number, the unquoted
// content of a string, the body of a comment (without the leading //), or
// the single character of an Unknown token. It is empty for fixed-text
// kinds.
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}

// Is reports whether t is an Unknown token carrying the rune r.
func (t Token) Is(r rune) bool {
	return t.Kind == Unknown && t.Text == string(r)
}

// IsIdent reports whether t is an identifier spelled text.
func (t Token) IsIdent(text string) bool {
	return t.Kind == Ident && t.Text == text
}

// Lexeme returns the text a token stands for in source.
func (t Token) Lexeme() string {
	switch t.Kind {
	case Ident, Number, Unknown:
		return t.Text
	case String:
		return `"` + t.Text + `"`
	case Comment:
		return "//" + t.Text
	case EOF:
		return ""
	default:
		return t.Kind.Symbol()
	}
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, String, Comment, Unknown:
		return fmt.Sprintf("%s %s(%q)", t.Pos, t.Kind, t.Text)
	default:
		return fmt.Sprintf("%s %s", t.Pos, t.Kind)
	}
}

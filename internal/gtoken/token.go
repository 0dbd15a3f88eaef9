// Package gtoken defines the token value the external lexer hands to the
// incremental parser core. Lexing itself is out of scope (spec.md §1); this
// package only fixes the contract a lexer must satisfy.
package gtoken

import "github.com/dekarrin/gartree/internal/symbol"

// Well-known Lookup tags (spec.md §6, external lexer contract).
const (
	LookupWS     = "<ws>"
	LookupReturn = "<return>"
	LookupNone   = ""
)

// Class names a lexical token class for error reporting.
type Class struct {
	id    string
	human string
}

// NewClass builds a Class with the given id and a human-readable name used
// in diagnostics.
func NewClass(id, human string) Class {
	if human == "" {
		human = id
	}
	return Class{id: id, human: human}
}

// ID returns the class's unique identifier, matching the terminal name used
// in the grammar.
func (c Class) ID() string { return c.id }

// Human returns a human-readable name suitable for "expected ..." messages.
func (c Class) Human() string { return c.human }

// Token is a lexeme read from source text, annotated the way an external
// lexer must annotate it before handing it to the incremental parser:
// Lookup names how the driver should key ACTION lookups ("" defers to
// Symbol, "<ws>"/"<return>" mark whitespace and newlines).
type Token struct {
	Class    Class
	Lexeme   string
	Line     int
	LinePos  int
	FullLine string
	Lookup   string
}

// LookupSymbol returns the Symbol the driver should use to key ACTION/GOTO
// lookups for this token, per spec.md §4.1's get_lookup: the Lookup tag
// wins when set, else the token's own class name is used.
func (t Token) LookupSymbol() symbol.Symbol {
	if t.Lookup != "" {
		return symbol.Term(t.Lookup)
	}
	return symbol.Term(t.Class.ID())
}

func (t Token) String() string {
	return t.Class.ID() + " " + t.Lexeme
}

package main

import (
	"github.com/dekarrin/gartree/internal/gtoken"
	"github.com/dekarrin/gartree/internal/lex"
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/tree"
)

// demoLexer builds the internal/lex.Lexer template for garedit's built-in
// arithmetic grammar: one pattern per terminal, tried longest-match, plus a
// whitespace run that is scanned (not discarded) under gtoken's "<ws>"
// class so the driver still sees it in the terminal chain for round-trip
// reconstruction and indentation measurement (spec.md §6's external lexer
// contract).
func demoLexer() *lex.Lexer {
	lx := lex.NewLexer("")

	lx.AddClass(gtoken.NewClass(gtoken.LookupWS, "whitespace"), "")
	lx.AddClass(gtoken.NewClass("number", "number"), "")
	for _, op := range []string{"+", "-", "*", "/", "(", ")"} {
		lx.AddClass(gtoken.NewClass(op, op), "")
	}

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(lx.AddPattern(`[ \t]+`, lex.LexAs(gtoken.LookupWS), ""))
	must(lx.AddPattern(`[0-9]+(\.[0-9]+)?`, lex.LexAs("number"), ""))
	must(lx.AddPattern(`\+`, lex.LexAs("+"), ""))
	must(lx.AddPattern(`-`, lex.LexAs("-"), ""))
	must(lx.AddPattern(`\*`, lex.LexAs("*"), ""))
	must(lx.AddPattern(`/`, lex.LexAs("/"), ""))
	must(lx.AddPattern(`\(`, lex.LexAs("("), ""))
	must(lx.AddPattern(`\)`, lex.LexAs(")"), ""))

	return lx
}

// lexLine runs lx over line and allocates one terminal handle in a per
// gtoken.Token, carrying the token's Lexeme as Symbol.Name and its class ID
// as the Lookup tag the driver keys ACTION/GOTO lookups against.
func lexLine(lx *lex.Lexer, a *tree.Arena, line string) ([]tree.Handle, error) {
	toks, err := lx.Lex(line)
	if err != nil {
		return nil, err
	}

	out := make([]tree.Handle, len(toks))
	for i, tok := range toks {
		h := a.Alloc(symbol.Term(tok.Lexeme))
		a.Get(h).Lookup = tok.Class.ID()
		out[i] = h
	}
	return out, nil
}

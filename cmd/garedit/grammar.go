package main

import (
	"github.com/dekarrin/gartree/internal/grammar"
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

// demoGrammar builds the arithmetic expression grammar used by
// npillmayer-gorgo's trepl sandbox (terexlang/trepl/repl.go's
// makeExprGrammar) as garedit's built-in default, since no textual grammar
// DSL is part of this build: grammar construction is an external
// collaborator the incremental core only consumes as a table.Table
// (internal/table's Table interface doc comment).
//
//	Expr   -> Expr SumOp Term | Term
//	Term   -> Term ProdOp Factor | Factor
//	Factor -> number | ( Expr )
//	SumOp  -> + | -
//	ProdOp -> * | /
func demoGrammar() *grammar.Grammar {
	rhs := func(names ...string) []table.RHSEntry {
		out := make([]table.RHSEntry, len(names))
		for i, n := range names {
			out[i] = table.RHSEntry{Symbol: symbolFor(n)}
		}
		return out
	}

	productions := []table.Production{
		{LHS: "Expr", RHS: rhs("Expr", "SumOp", "Term")},
		{LHS: "Expr", RHS: rhs("Term")},
		{LHS: "Term", RHS: rhs("Term", "ProdOp", "Factor")},
		{LHS: "Term", RHS: rhs("Factor")},
		{LHS: "Factor", RHS: rhs("number")},
		{LHS: "Factor", RHS: rhs("(", "Expr", ")")},
		{LHS: "SumOp", RHS: rhs("+")},
		{LHS: "SumOp", RHS: rhs("-")},
		{LHS: "ProdOp", RHS: rhs("*")},
		{LHS: "ProdOp", RHS: rhs("/")},
	}

	return grammar.New("Expr", productions)
}

// symbolFor returns the Nonterminal symbol for names capitalized the way
// demoGrammar's LHSes are, or a Terminal symbol otherwise.
func symbolFor(name string) symbol.Symbol {
	switch name {
	case "Expr", "Term", "Factor", "SumOp", "ProdOp":
		return symbol.NonTerm(name)
	default:
		return symbol.Term(name)
	}
}

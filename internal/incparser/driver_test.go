package incparser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/compile"
	"github.com/dekarrin/gartree/internal/grammar"
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// exprGrammar is the same arithmetic grammar npillmayer-gorgo's trepl
// sandbox uses (terexlang/trepl/repl.go's makeExprGrammar), reused here as
// a realistic but small fixture for driving the incremental parser end to
// end.
func exprGrammar() *grammar.Grammar {
	rhs := func(names ...string) []table.RHSEntry {
		out := make([]table.RHSEntry, len(names))
		for i, n := range names {
			out[i] = table.RHSEntry{Symbol: exprSymbol(n)}
		}
		return out
	}
	return grammar.New("Expr", []table.Production{
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
	})
}

func exprSymbol(name string) symbol.Symbol {
	switch name {
	case "Expr", "Term", "Factor", "SumOp", "ProdOp":
		return symbol.NonTerm(name)
	default:
		return symbol.Term(name)
	}
}

// lexExpr tokenizes a whitespace-separated sequence of already-split
// lexemes (tests supply pre-split tokens to avoid pulling a scanner into
// this package's test fixtures).
func lexExpr(a *tree.Arena, lexemes []string) []tree.Handle {
	out := make([]tree.Handle, len(lexemes))
	for i, lx := range lexemes {
		h := a.Alloc(symbol.Term(lx))
		lookup := lx
		if _, err := parseNumber(lx); err == nil {
			lookup = "number"
		}
		a.Get(h).Lookup = lookup
		out[i] = h
	}
	return out
}

func parseNumber(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, assert.AnError
		}
		n = n*10 + int(r-'0')
	}
	if len(s) == 0 {
		return 0, assert.AnError
	}
	return n, nil
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	tbl, warns, err := compile.Build(exprGrammar(), false)
	assert.New(t).NoError(err)
	assert.New(t).Empty(warns)
	arena := tree.New()
	return New(arena, tbl, Config{})
}

func Test_IncParse_Accepts(t *testing.T) {
	assert := assert.New(t)

	d := newTestDriver(t)
	terms := lexExpr(d.Arena, []string{"1", "+", "2", "*", "3"})
	root, bos, eos := tree.BuildFlat(d.Arena, terms)
	d.Attach(root, bos, eos)

	err := d.IncParse(true)
	assert.NoError(err)
	assert.True(d.LastStatus())
	assert.False(d.ErrorNode().Valid())
}

func Test_IncParse_ParensAccept(t *testing.T) {
	assert := assert.New(t)

	d := newTestDriver(t)
	terms := lexExpr(d.Arena, []string{"(", "1", "+", "2", ")", "*", "3"})
	root, bos, eos := tree.BuildFlat(d.Arena, terms)
	d.Attach(root, bos, eos)

	err := d.IncParse(true)
	assert.NoError(err)
	assert.True(d.LastStatus())
}

func Test_IncParse_ErrorRollsBackTree(t *testing.T) {
	assert := assert.New(t)

	d := newTestDriver(t)
	// "1 + + 2" is not derivable: SumOp cannot follow SumOp.
	terms := lexExpr(d.Arena, []string{"1", "+", "+", "2"})
	root, bos, eos := tree.BuildFlat(d.Arena, terms)
	d.Attach(root, bos, eos)

	before := tree.String(d.Arena, root)

	err := d.IncParse(true)
	assert.Error(err)
	assert.False(d.LastStatus())
	assert.True(d.ErrorNode().Valid())

	after := tree.String(d.Arena, root)
	assert.Equal(before, after, "tree must be bitwise-restored after a rolled-back parse")
}

func Test_IncParse_Reparse_UnmarkedNonterminalIsReused(t *testing.T) {
	assert := assert.New(t)

	d := newTestDriver(t)
	terms := lexExpr(d.Arena, []string{"1", "+", "2"})
	root, bos, eos := tree.BuildFlat(d.Arena, terms)
	d.Attach(root, bos, eos)

	assert.NoError(d.IncParse(true))
	assert.True(d.LastStatus())
	top := d.Arena.Get(root).Children[1]

	// A second incremental pass over the same token chain, with reparse
	// set to false, must also accept, shifting the unchanged top
	// Nonterminal whole instead of rebuilding it.
	assert.NoError(d.IncParse(false))
	assert.True(d.LastStatus())
	assert.Equal(top, d.Arena.Get(root).Children[1])
}

func Test_SaveStatus_LoadStatus(t *testing.T) {
	assert := assert.New(t)

	d := newTestDriver(t)
	terms := lexExpr(d.Arena, []string{"1"})
	root, bos, eos := tree.BuildFlat(d.Arena, terms)
	d.Attach(root, bos, eos)

	assert.NoError(d.IncParse(true))
	d.SaveStatus("v1")

	terms2 := lexExpr(d.Arena, []string{"1", "+"})
	root2, bos2, eos2 := tree.BuildFlat(d.Arena, terms2)
	d.Attach(root2, bos2, eos2)
	err := d.IncParse(true)
	assert.Error(err)
	d.SaveStatus("v2")

	status, ok := d.LoadStatus("v1")
	assert.True(ok)
	assert.True(status.Accepted)

	status, ok = d.LoadStatus("v2")
	assert.True(ok)
	assert.False(status.Accepted)

	_, ok = d.LoadStatus("missing")
	assert.False(ok)
}

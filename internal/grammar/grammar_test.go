package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

// dragonGrammar is purple dragon example 4.45: E -> E + T | T ; T -> T * F
// | F ; F -> ( E ) | id.
func dragonGrammar() *Grammar {
	rhs := func(syms ...symbol.Symbol) []table.RHSEntry {
		out := make([]table.RHSEntry, len(syms))
		for i, s := range syms {
			out[i] = table.RHSEntry{Symbol: s}
		}
		return out
	}
	nt := symbol.NonTerm
	tm := symbol.Term

	return New("E", []table.Production{
		{LHS: "E", RHS: rhs(nt("E"), tm("+"), nt("T"))},
		{LHS: "E", RHS: rhs(nt("T"))},
		{LHS: "T", RHS: rhs(nt("T"), tm("*"), nt("F"))},
		{LHS: "T", RHS: rhs(nt("F"))},
		{LHS: "F", RHS: rhs(tm("("), nt("E"), tm(")"))},
		{LHS: "F", RHS: rhs(tm("id"))},
	})
}

func Test_Terminals_NonTerminals(t *testing.T) {
	assert := assert.New(t)
	g := dragonGrammar()

	assert.Equal([]string{"(", ")", "*", "+", "id"}, g.Terminals())
	assert.Equal([]string{"E", "F", "T"}, g.NonTerminals())
}

func Test_IsTerminal_IsNonterminal(t *testing.T) {
	assert := assert.New(t)
	g := dragonGrammar()

	assert.True(g.IsNonterminal("E"))
	assert.False(g.IsNonterminal("id"))
	assert.True(g.IsTerminal(symbol.Term("id")))
	assert.False(g.IsTerminal(symbol.Term("E")))
	assert.False(g.IsTerminal(symbol.NonTerm("E")))
}

func Test_Augmented(t *testing.T) {
	assert := assert.New(t)
	g := dragonGrammar()
	aug := g.Augmented()

	assert.Equal("S'", aug.StartSymbol())
	assert.Len(aug.ProductionsFor("S'"), 1)
	assert.True(aug.ProductionsFor("S'")[0].RHS[0].Symbol.Equal(symbol.NonTerm("E")))
}

func Test_FIRST(t *testing.T) {
	assert := assert.New(t)
	g := dragonGrammar()

	expect := []string{"(", "id"}
	assert.Equal(expect, g.FIRST(symbol.NonTerm("E")))
	assert.Equal(expect, g.FIRST(symbol.NonTerm("T")))
	assert.Equal(expect, g.FIRST(symbol.NonTerm("F")))
}

func Test_FOLLOW(t *testing.T) {
	assert := assert.New(t)
	g := dragonGrammar()

	assert.ElementsMatch([]string{"$", ")", "+"}, g.FOLLOW("E"))
	assert.ElementsMatch([]string{"$", ")", "+", "*"}, g.FOLLOW("T"))
	assert.ElementsMatch([]string{"$", ")", "+", "*"}, g.FOLLOW("F"))
}

func Test_CommentTokens(t *testing.T) {
	assert := assert.New(t)

	g := New("S", []table.Production{
		{LHS: "S", RHS: []table.RHSEntry{{Symbol: symbol.NonTerm("comment")}}},
		{LHS: "comment", RHS: []table.RHSEntry{{Symbol: symbol.Term("#")}, {Symbol: symbol.Term("text")}}},
		{LHS: "comment", RHS: []table.RHSEntry{{Symbol: symbol.Term("//")}}},
	})

	assert.ElementsMatch([]string{"#", "//"}, g.CommentTokens())
}

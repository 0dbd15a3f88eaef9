// Package automaton builds the LR(0) viable-prefix automaton consumed by
// internal/compile's SLR(1) table construction.
//
// ictiobus/automaton/automaton.go's NewLR0ViablePrefixNFA/ToDFA (referenced
// from internal/ictiobus/parse/slr.go) depends throughout on
// grammar.Grammar, which was filtered out of the retrieved pack — only
// grammar/item.go's LR0Item/LR1Item shapes survived. This package keeps the
// ictiobus call shape in a single constructor (NewLR0Automaton(g) returns
// the finished DFA) but is freshly written
// against gartree's own Grammar type, using the worklist closure/goto
// pattern also seen in npillmayer-gorgo's lr/tables.go (closure/gotoSet).
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

// Item is an LR(0) item: a production with a dot position, following the
// shape of ictiobus/grammar/item.go's LR0Item (NonTerminal, Left, Right
// split around the dot).
type Item struct {
	ProdIndex int
	Prod      table.Production
	Dot       int
}

// AtEnd reports whether the dot has reached the end of the RHS.
func (it Item) AtEnd() bool { return it.Dot >= len(it.Prod.RHS) }

// NextSymbol returns the symbol immediately after the dot, if any.
func (it Item) NextSymbol() (symbol.Symbol, bool) {
	if it.AtEnd() {
		return symbol.Symbol{}, false
	}
	return it.Prod.RHS[it.Dot].Symbol, true
}

// Advance returns the item with the dot moved one position to the right.
func (it Item) Advance() Item {
	it.Dot++
	return it
}

func (it Item) key() string {
	return fmt.Sprintf("%d@%d", it.ProdIndex, it.Dot)
}

func (it Item) String() string {
	s := it.Prod.LHS + " ->"
	for i, e := range it.Prod.RHS {
		if i == it.Dot {
			s += " ."
		}
		s += " " + e.Symbol.String()
	}
	if it.AtEnd() {
		s += " ."
	}
	return s
}

// itemSet is a canonicalized, sorted set of items; two item sets with the
// same canonical key are the same automaton state.
type itemSet struct {
	items []Item
}

func (s itemSet) canonicalKey() string {
	keys := make([]string, len(s.items))
	for i, it := range s.items {
		keys[i] = it.key()
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "|"
	}
	return out
}

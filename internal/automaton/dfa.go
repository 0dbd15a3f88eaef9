package automaton

import (
	"sort"

	"github.com/dekarrin/gartree/internal/grammar"
	"github.com/dekarrin/gartree/internal/symbol"
)

// DFA is the deterministic LR(0) viable-prefix automaton: States[i] is the
// item set reached along the i-th distinct path, and Trans[i][symStr] is
// the state reached from state i on that symbol.
type DFA struct {
	States []itemSet
	Trans  []map[string]int
	Start  int
}

// NewLR0Automaton builds the (already-augmented) grammar's LR(0) DFA,
// matching the "NewLR0ViablePrefixNFA(g).ToDFA()" shape referenced from
// ictiobus/parse/slr.go.
func NewLR0Automaton(g *grammar.Grammar) *DFA {
	d := &DFA{}

	startItems := closure(g, []Item{{
		ProdIndex: 0,
		Prod:      g.Productions()[0],
		Dot:       0,
	}})
	d.States = append(d.States, itemSet{items: startItems})
	d.Trans = append(d.Trans, map[string]int{})
	d.Start = 0

	seen := map[string]int{itemSet{items: startItems}.canonicalKey(): 0}

	worklist := []int{0}
	for len(worklist) > 0 {
		i := worklist[0]
		worklist = worklist[1:]

		for _, sym := range nextSymbols(d.States[i]) {
			next := gotoSet(g, d.States[i], sym)
			if len(next) == 0 {
				continue
			}
			ns := itemSet{items: next}
			key := ns.canonicalKey()
			idx, ok := seen[key]
			if !ok {
				idx = len(d.States)
				seen[key] = idx
				d.States = append(d.States, ns)
				d.Trans = append(d.Trans, map[string]int{})
				worklist = append(worklist, idx)
			}
			d.Trans[i][symKey(sym)] = idx
		}
	}

	return d
}

// closure computes the LR(0) closure of a seed item set: for every item
// with the dot before a Nonterminal, add every production of that
// Nonterminal with the dot at position 0 (npillmayer-gorgo's
// lr/tables.go closureSet worklist pattern).
func closure(g *grammar.Grammar, seed []Item) []Item {
	have := map[string]bool{}
	var out []Item
	add := func(it Item) {
		k := it.key()
		if !have[k] {
			have[k] = true
			out = append(out, it)
		}
	}
	for _, it := range seed {
		add(it)
	}

	changed := true
	for changed {
		changed = false
		for _, it := range append([]Item(nil), out...) {
			sym, ok := it.NextSymbol()
			if !ok || sym.Kind != symbol.Nonterminal {
				continue
			}
			for pi, p := range g.Productions() {
				if p.LHS != sym.Name {
					continue
				}
				ni := Item{ProdIndex: pi, Prod: p, Dot: 0}
				k := ni.key()
				if !have[k] {
					have[k] = true
					out = append(out, ni)
					changed = true
				}
			}
		}
	}
	return out
}

// gotoSet computes GOTO(state, sym): advance every item in state whose
// next symbol is sym, then take the closure.
func gotoSet(g *grammar.Grammar, state itemSet, sym symbol.Symbol) []Item {
	var advanced []Item
	for _, it := range state.items {
		next, ok := it.NextSymbol()
		if ok && next.Equal(sym) {
			advanced = append(advanced, it.Advance())
		}
	}
	if len(advanced) == 0 {
		return nil
	}
	return closure(g, advanced)
}

func nextSymbols(s itemSet) []symbol.Symbol {
	have := map[string]symbol.Symbol{}
	for _, it := range s.items {
		if sym, ok := it.NextSymbol(); ok {
			have[symKey(sym)] = sym
		}
	}
	keys := make([]string, 0, len(have))
	for k := range have {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]symbol.Symbol, len(keys))
	for i, k := range keys {
		out[i] = have[k]
	}
	return out
}

func symKey(s symbol.Symbol) string {
	return s.Kind.String() + ":" + s.Name
}

// NumberedStates returns state indices in construction order, mirroring
// ictiobus automaton.DFA's NumberStates() used to name states for table
// display (internal/ictiobus/parse/slr.go).
func (d *DFA) NumberedStates() []int {
	out := make([]int, len(d.States))
	for i := range out {
		out[i] = i
	}
	return out
}

// ItemsOf returns the item set of state i, for diagnostics and table
// construction.
func (d *DFA) ItemsOf(i int) []Item {
	return append([]Item(nil), d.States[i].items...)
}

// Goto returns the state reached from state i on sym, and whether a
// transition exists.
func (d *DFA) Goto(i int, sym symbol.Symbol) (int, bool) {
	next, ok := d.Trans[i][symKey(sym)]
	return next, ok
}

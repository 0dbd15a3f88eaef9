// Package grammar builds the Grammar value the table compiler (internal/
// compile) consumes to produce a table.Table. Grammar compilation is an
// external collaborator to the incremental parser core (spec.md §1); this
// package, along with internal/automaton and internal/compile, is gartree's
// one concrete implementation of that collaborator.
//
// The teacher's own grammar.Grammar (ictiobus/grammar/grammar.go) was not
// present in the retrieved pack — only grammar/item.go (LR0Item/LR1Item)
// and its test file survived — so this is a fresh implementation grounded
// on the *usage* visible from internal/ictiobus/parse/slr.go
// (g.Augmented(), g.FOLLOW(A), g.Terminals(), g.IsTerminal(a)) and on
// incparser.py's from_dict comment-token scan.
package grammar

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

const augmentedStart = "S'"

// Grammar is an ordered set of productions over a fixed start symbol.
type Grammar struct {
	start       string
	productions []table.Production
	byLHS       map[string][]int
}

// New builds a Grammar with the given start symbol and productions.
func New(start string, productions []table.Production) *Grammar {
	g := &Grammar{start: start, productions: productions, byLHS: map[string][]int{}}
	for i, p := range productions {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], i)
	}
	return g
}

// StartSymbol returns the grammar's start Nonterminal name.
func (g *Grammar) StartSymbol() string { return g.start }

// Productions returns every production, in definition order.
func (g *Grammar) Productions() []table.Production { return g.productions }

// ProductionsFor returns the productions with the given LHS, in definition
// order.
func (g *Grammar) ProductionsFor(lhs string) []table.Production {
	idxs := g.byLHS[lhs]
	out := make([]table.Production, len(idxs))
	for i, idx := range idxs {
		out[i] = g.productions[idx]
	}
	return out
}

// IsNonterminal reports whether name is some production's LHS.
func (g *Grammar) IsNonterminal(name string) bool {
	_, ok := g.byLHS[name]
	return ok
}

// IsTerminal reports whether sym names a terminal of this grammar, i.e.
// appears somewhere in a RHS but is not itself a Nonterminal LHS.
func (g *Grammar) IsTerminal(sym symbol.Symbol) bool {
	if sym.Kind != symbol.Terminal {
		return false
	}
	return !g.IsNonterminal(sym.Name)
}

// Terminals returns every distinct terminal name appearing in the grammar,
// sorted for deterministic iteration.
func (g *Grammar) Terminals() []string {
	set := treeset.NewWithStringComparator()
	for _, p := range g.productions {
		for _, e := range p.RHS {
			if e.Symbol.Kind == symbol.Terminal {
				set.Add(e.Symbol.Name)
			}
		}
	}
	out := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}

// NonTerminals returns every distinct LHS name, sorted for deterministic
// iteration.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, 0, len(g.byLHS))
	for k := range g.byLHS {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Augmented returns a copy of g with a fresh start production S' -> start
// prepended, the standard first step of LR table construction (referenced
// from slr.go's constructSimpleLRParseTable as g.Augmented()).
func (g *Grammar) Augmented() *Grammar {
	aug := append([]table.Production{
		{LHS: augmentedStart, RHS: []table.RHSEntry{{Symbol: symbol.NonTerm(g.start)}}},
	}, g.productions...)
	return New(augmentedStart, aug)
}

// nullable reports whether nt can derive the empty string.
func (g *Grammar) nullable(nt string, seen map[string]bool) bool {
	if seen[nt] {
		return false
	}
	seen[nt] = true
	for _, p := range g.ProductionsFor(nt) {
		if len(p.RHS) == 0 {
			return true
		}
		allNullable := true
		for _, e := range p.RHS {
			if e.Symbol.Kind == symbol.Epsilon {
				continue
			}
			if e.Symbol.Kind != symbol.Nonterminal || !g.nullable(e.Symbol.Name, seen) {
				allNullable = false
				break
			}
		}
		if allNullable {
			return true
		}
	}
	return false
}

// FIRST computes the FIRST set of a single grammar symbol.
func (g *Grammar) FIRST(sym symbol.Symbol) []string {
	set := treeset.NewWithStringComparator()
	g.first(sym, set, map[string]bool{})
	return stringsOf(set)
}

func (g *Grammar) first(sym symbol.Symbol, set *treeset.Set, visiting map[string]bool) {
	switch sym.Kind {
	case symbol.Terminal, symbol.Finish, symbol.Indentation, symbol.Magic, symbol.Any:
		set.Add(sym.Name)
		return
	case symbol.Epsilon:
		return
	case symbol.Nonterminal:
		if visiting[sym.Name] {
			return
		}
		visiting[sym.Name] = true
		for _, p := range g.ProductionsFor(sym.Name) {
			if len(p.RHS) == 0 {
				continue
			}
			for _, e := range p.RHS {
				g.first(e.Symbol, set, visiting)
				if e.Symbol.Kind != symbol.Nonterminal || !g.nullable(e.Symbol.Name, map[string]bool{}) {
					break
				}
			}
		}
	}
}

// FOLLOW computes the FOLLOW set of Nonterminal nt (referenced from
// slr.go's g.FOLLOW(A) usage in its SLR(1) conflict-table construction).
// All FOLLOW sets are computed together by fixed-point iteration rather
// than per-nonterminal recursion, since FOLLOW dependencies are often
// mutually recursive (A's FOLLOW depends on B's, and vice versa).
func (g *Grammar) FOLLOW(nt string) []string {
	all := g.followAll()
	set, ok := all[nt]
	if !ok {
		return nil
	}
	return stringsOf(set)
}

func (g *Grammar) followAll() map[string]*treeset.Set {
	sets := map[string]*treeset.Set{}
	for _, nt := range g.NonTerminals() {
		sets[nt] = treeset.NewWithStringComparator()
	}
	if _, ok := sets[g.start]; ok {
		sets[g.start].Add("$")
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			for i, e := range p.RHS {
				if e.Symbol.Kind != symbol.Nonterminal {
					continue
				}
				before := sets[e.Symbol.Name].Size()

				trailerNullable := true
				for j := i + 1; j < len(p.RHS); j++ {
					for _, f := range g.FIRST(p.RHS[j].Symbol) {
						sets[e.Symbol.Name].Add(f)
					}
					if p.RHS[j].Symbol.Kind != symbol.Nonterminal || !g.nullable(p.RHS[j].Symbol.Name, map[string]bool{}) {
						trailerNullable = false
						break
					}
				}
				if trailerNullable {
					for _, f := range stringsOf(sets[p.LHS]) {
						sets[e.Symbol.Name].Add(f)
					}
				}

				if sets[e.Symbol.Name].Size() != before {
					changed = true
				}
			}
		}
	}
	return sets
}

func stringsOf(set *treeset.Set) []string {
	out := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}

// CommentTokens scans the grammar for a "comment" Nonterminal and returns
// the terminal name of the first RHS symbol of each of its alternatives,
// matching incparser.py's from_dict: "elif rules.has_key(Nonterminal
// ('comment')): ... for a in rule.alternatives: self.comment_tokens.
// append(a[0].name)". The incremental parser's logical-line test (spec.md
// §4.3) treats these as comment-opening terminals.
func (g *Grammar) CommentTokens() []string {
	var out []string
	for _, p := range g.ProductionsFor("comment") {
		if len(p.RHS) > 0 && p.RHS[0].Symbol.Kind == symbol.Terminal {
			out = append(out, p.RHS[0].Symbol.Name)
		}
	}
	return out
}

// Package compile turns a grammar.Grammar into a table.Table, the one
// concrete syntax-table compiler gartree wires up (spec.md §1 treats
// grammar compilation as an opaque external collaborator; this is that
// collaborator). Directly grounded on ictiobus/parse/slr.go's
// constructSimpleLRParseTable — same algorithm, same "Algorithm 4.46...
// purple dragon book" derivation — adapted to build table.Action/
// table.Production instead of string-keyed actions, and to let
// symbol.AnySymbol/symbol.IndentationTerminal participate in ACTION
// lookups like any other symbol (spec.md §4.2, §4.3).
//
// CLR(1), LALR(1) and LL(1) construction (ictiobus/parse/clr1.go,
// lalr.go, ll1.go) were not ported: the incremental driver only needs one
// working table.Table implementation to exercise it end to end, and
// porting three more would duplicate that single already-wired consumer
// without adding new exercised surface (see DESIGN.md).
package compile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/gartree/internal/automaton"
	"github.com/dekarrin/gartree/internal/grammar"
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

type slrTable struct {
	gPrime    *grammar.Grammar
	gStart    string
	gTerms    []string
	start     int
	numStates int
	action    []map[string]table.Action
	gotoTab   []map[string]string
	allTerms  []symbol.Symbol
	nonTerms  []string
}

// Build constructs an SLR(1) table.Table for g. allowAmbig mirrors
// GenerateSimpleLRParser's flag: when true, shift/reduce conflicts are
// resolved by preferring shift (ambigWarns records each case); when false,
// such a conflict is returned as an error.
func Build(g *grammar.Grammar, allowAmbig bool) (table.Table, []string, error) {
	aug := g.Augmented()
	dfa := automaton.NewLR0Automaton(aug)

	st := &slrTable{
		gPrime:    aug,
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		start:     dfa.Start,
		numStates: len(dfa.States),
		nonTerms:  g.NonTerminals(),
	}

	st.allTerms = collectActionSymbols(aug)

	var ambigWarns []string
	st.action = make([]map[string]table.Action, len(dfa.States))
	st.gotoTab = make([]map[string]string, len(dfa.States))

	for i := range dfa.States {
		st.action[i] = map[string]table.Action{}
		st.gotoTab[i] = map[string]string{}

		for _, item := range dfa.ItemsOf(i) {
			if item.AtEnd() {
				if item.Prod.LHS == aug.StartSymbol() {
					st.setAction(i, symbol.FinishSymbol(), table.Action{Type: table.Accept}, &ambigWarns)
					continue
				}
				for _, name := range st.follow(item.Prod.LHS) {
					a := st.resolveTerminal(name)
					st.setAction(i, a, table.Action{
						Type:       table.Reduce,
						Production: item.Prod,
						Symbol:     item.Prod.LHS,
					}, &ambigWarns)
				}
				continue
			}

			next, _ := item.NextSymbol()
			if next.Kind == symbol.Nonterminal {
				if j, ok := dfa.Goto(i, next); ok {
					st.gotoTab[i][next.Name] = strconv.Itoa(j)
				}
				continue
			}
			if j, ok := dfa.Goto(i, next); ok {
				st.setAction(i, next, table.Action{Type: table.Shift, State: strconv.Itoa(j)}, &ambigWarns)
			}
		}
	}

	if !allowAmbig && len(ambigWarns) > 0 {
		return nil, ambigWarns, fmt.Errorf("grammar is not SLR(1): %s", ambigWarns[0])
	}

	return st, ambigWarns, nil
}

// collectActionSymbols gathers every symbol that can legally appear as an
// ACTION-table column: terminals, FinishSymbol, IndentationTerminals and
// AnySymbol variants that appear anywhere in the grammar's productions
// (spec.md §4.2/§4.3 rely on AnySymbol/IndentationTerminal participating in
// ACTION just like ordinary terminals).
func collectActionSymbols(g *grammar.Grammar) []symbol.Symbol {
	seen := map[string]symbol.Symbol{}
	seen["Finish:"] = symbol.FinishSymbol()
	for _, p := range g.Productions() {
		for _, e := range p.RHS {
			switch e.Symbol.Kind {
			case symbol.Terminal, symbol.Indentation, symbol.Any, symbol.Magic, symbol.Epsilon:
				seen[e.Symbol.Kind.String()+":"+e.Symbol.Name] = e.Symbol
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]symbol.Symbol, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out
}

// resolveTerminal maps a bare symbol name (as returned by FOLLOW, which
// tracks names only) back to the tagged symbol.Symbol used as an ACTION
// column, matching against the symbols actually collected from the
// grammar so Indentation/Any/Magic terminals keep their Kind.
func (st *slrTable) resolveTerminal(name string) symbol.Symbol {
	if name == "$" {
		return symbol.FinishSymbol()
	}
	for _, s := range st.allTerms {
		if s.Name == name {
			return s
		}
	}
	return symbol.Term(name)
}

func (st *slrTable) follow(nt string) []string {
	out := st.gPrime.FOLLOW(nt)
	if nt == st.gStart || nt == st.gPrime.StartSymbol() {
		return append(out, "$")
	}
	return out
}

func actKey(s symbol.Symbol) string {
	return s.Kind.String() + ":" + s.Name
}

func (st *slrTable) setAction(state int, sym symbol.Symbol, act table.Action, warns *[]string) {
	k := actKey(sym)
	existing, ok := st.action[state][k]
	if !ok {
		st.action[state][k] = act
		return
	}
	if actionsEqual(existing, act) {
		return
	}
	if existing.Type == table.Reduce && act.Type == table.Shift {
		*warns = append(*warns, fmt.Sprintf("shift/reduce conflict on %q in state %d (preferring shift)", sym, state))
		st.action[state][k] = act
		return
	}
	if existing.Type == table.Shift && act.Type == table.Reduce {
		*warns = append(*warns, fmt.Sprintf("shift/reduce conflict on %q in state %d (preferring shift)", sym, state))
		return
	}
	*warns = append(*warns, fmt.Sprintf("reduce/reduce conflict on %q in state %d (keeping first found)", sym, state))
}

func actionsEqual(a, o table.Action) bool {
	if a.Type != o.Type {
		return false
	}
	return a.State == o.State && a.Symbol == o.Symbol
}

func (st *slrTable) Initial() string {
	return strconv.Itoa(st.start)
}

func (st *slrTable) Action(state string, sym symbol.Symbol) table.Action {
	return st.action[mustState(state)][actKey(sym)]
}

func (st *slrTable) Goto(state string, nonterminal string) (string, bool) {
	next, ok := st.gotoTab[mustState(state)][nonterminal]
	return next, ok
}

func (st *slrTable) NextSymbols(state string) []symbol.Symbol {
	var out []symbol.Symbol
	for _, s := range st.allTerms {
		if st.Action(state, s).Type != table.None {
			out = append(out, s)
		}
	}
	return out
}

func mustState(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("compile: invalid state id %q", s))
	}
	return i
}

// String renders the ACTION/GOTO table, in the fashion of ictiobus's
// slrTable.String() (internal/ictiobus/parse/slr.go), which builds the dump
// with rosed.Edit("").InsertTableOpts(...).
func (st *slrTable) String() string {
	var data [][]string
	headers := []string{"state", "|"}
	for _, t := range st.allTerms {
		headers = append(headers, "A:"+t.String())
	}
	headers = append(headers, "|")
	for _, nt := range st.nonTerms {
		headers = append(headers, "G:"+nt)
	}
	data = append(data, headers)

	for i := 0; i < st.numStates; i++ {
		row := []string{strconv.Itoa(i), "|"}
		for _, t := range st.allTerms {
			act := st.Action(strconv.Itoa(i), t)
			cell := ""
			switch act.Type {
			case table.Accept:
				cell = "acc"
			case table.Reduce:
				cell = "r:" + act.Production.String()
			case table.Shift:
				cell = "s" + act.State
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range st.nonTerms {
			cell := ""
			if g, ok := st.Goto(strconv.Itoa(i), nt); ok {
				cell = g
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

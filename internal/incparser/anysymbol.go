package incparser

import (
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// tryAnySymbol implements the any-symbol engine (spec.md §4.2). It reports
// true when la was consumed as an any-token (the caller should advance the
// lookahead without an ordinary ACTION lookup); it reports false both when
// no any-region is active and when an active region's terminator was just
// recognised, in which case currentState has already been advanced to
// s_any and the caller's normal ACTION[currentState, lookup_of(la)] lookup
// naturally resumes parsing from there.
func (d *Driver) tryAnySymbol(la tree.Handle, currentState *string) bool {
	n := d.Arena.Get(la)

	act, variant := d.anyAction(*currentState)
	if act.Type == table.None {
		return false
	}
	sAny := act.State

	term := d.Table.Action(sAny, d.lookupOf(n))
	ncrEnd := variant == symbol.AnyNCR && d.isNCRTerminator(n)

	if term.Type != table.None || ncrEnd {
		*currentState = sAny
		d.flushAnyReturns()
		return false
	}

	d.pushAnyToken(la, *currentState)
	return true
}

// anyAction checks ACTION[state, AnySymbol] for both variants, preferring
// the default variant when both are (unusually) active.
func (d *Driver) anyAction(state string) (table.Action, string) {
	act := d.Table.Action(state, symbol.AnySym(symbol.AnyDefault))
	if act.Type != table.None {
		return act, symbol.AnyDefault
	}
	act = d.Table.Action(state, symbol.AnySym(symbol.AnyNCR))
	if act.Type != table.None {
		return act, symbol.AnyNCR
	}
	return table.Action{}, symbol.AnyDefault
}

// isNCRTerminator reports whether n additionally ends an AnySymbol("@ncr")
// region: a <return>, a synthetic NEWLINE, or EOS (spec.md §4.2).
func (d *Driver) isNCRTerminator(n *tree.Node) bool {
	if n.IsEOS() {
		return true
	}
	if n.Lookup == "<return>" {
		return true
	}
	return n.Symbol.Kind == symbol.Indentation && n.Symbol.Name == string(symbol.NEWLINE)
}

// pushAnyToken parks la on the stack under the current (pre-any) state and
// marks it as not counting toward subsequent Reduce arity (spec.md §4.2).
func (d *Driver) pushAnyToken(la tree.Handle, state string) {
	d.undo.SaveState(la)
	d.Arena.Get(la).State = stateAsInt(state)
	d.pushStack(la, state)
	d.notifyStatePush(state)
	d.anyCount[la] = true

	if d.cfg.IndentationBased && d.Arena.Get(la).Lookup == "<return>" {
		d.anyReturns = append(d.anyReturns, la)
	}
}

// flushAnyReturns runs succeeding-line indentation propagation for every
// <return> swallowed during the just-ended any-region (spec.md §4.2: "Any
// <return> nodes pushed during an indentation-sensitive any-region are
// remembered so that their succeeding-line indentation updates can be run
// at end-of-region.").
func (d *Driver) flushAnyReturns() {
	if len(d.anyReturns) == 0 {
		return
	}
	pending := d.anyReturns
	d.anyReturns = nil
	for _, ret := range pending {
		d.runIndentation(ret)
	}
}

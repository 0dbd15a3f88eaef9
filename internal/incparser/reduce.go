package incparser

import (
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/synerr"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// reduce applies production prod: pops len(prod.RHS) non-any-symbol
// children off the stack (any-symbol tokens interleaved among them are
// popped too, and attached as children, but don't count toward the arity),
// builds a new Nonterminal node, re-parents the popped children under it,
// looks up GOTO from the resulting stack top, pushes the new node, and
// dispatches to the annotation collaborator (spec.md §4.1 "Reduce
// details").
func (d *Driver) reduce(prod table.Production, currentState *string) error {
	want := len(prod.RHS)
	var children []tree.Handle
	count := 0
	for count < want {
		if d.stack.Size() == 0 {
			return synerr.NewInternalError("incparser: stack underflow during reduce of %s", prod.LHS)
		}
		e := d.popStack()
		children = append([]tree.Handle{e.Node}, children...)
		if !d.anyCount[e.Node] {
			count++
		}
	}

	for _, c := range children {
		d.undo.SaveAll(c)
	}

	newNode := d.Arena.Alloc(symbol.NonTerm(prod.LHS))
	d.Arena.SetChildren(newNode, children)
	d.inheritIndent(newNode, children)

	if d.stack.Size() == 0 {
		return synerr.NewInternalError("incparser: stack underflow computing GOTO for %s", prod.LHS)
	}
	topState := d.stackTopState()
	gotoState, ok := d.Table.Goto(topState, prod.LHS)
	if !ok {
		return synerr.NewInternalError("incparser: GOTO[%s, %s] undefined", topState, prod.LHS)
	}

	d.Arena.Get(newNode).State = stateAsInt(gotoState)
	d.pushStack(newNode, gotoState)
	d.notifyStatePush(gotoState)
	*currentState = gotoState

	d.annotate(newNode, prod)

	return nil
}

// inheritIndent sets newNode's Indent to the longest Indent snapshot among
// its children, if any carries one (spec.md §4.1: "the new Nonterminal
// inherits the maximum indent among its children"), matching the intent of
// incparser.py's set_total_indent.
func (d *Driver) inheritIndent(newNode tree.Handle, children []tree.Handle) {
	var best []int
	for _, c := range children {
		ind := d.Arena.Get(c).Indent
		if len(ind) > len(best) {
			best = ind
		}
	}
	if best != nil {
		d.undo.SaveIndent(newNode)
		d.Arena.Get(newNode).Indent = append([]int(nil), best...)
	}
}

// annotate runs the production's annotation collaborator if present,
// otherwise builds a folded alternate view from the RHS folding tags
// (spec.md §4.1, §9's "small closed set of fold operations plus an opaque
// callback registered per production; no runtime method lookup in the hot
// loop").
func (d *Driver) annotate(newNode tree.Handle, prod table.Production) {
	d.undo.SaveAlternate(newNode)

	if prod.Annotation != nil && prod.Annotation.Interpret != nil {
		d.Arena.Get(newNode).Alternate = toHandle(prod.Annotation.Interpret(newNode))
		return
	}

	d.fold(newNode, prod)
}

// fold implements the default folding algorithm over a production's RHS
// folding tags (spec.md §3, §4.1):
//
//	"^"   splices a child's children directly into the folded view
//	"^^"  splices the child's symbol plus its children
//	"^^^" tears a child out of its place; a torn child whose RHS index is a
//	      key of production.Inserts is appended after all other folded
//	      children (the Symbol values in Inserts are not used, and several
//	      such children are appended in no defined order); other torn
//	      children are dropped from the folded view
func (d *Driver) fold(newNode tree.Handle, prod table.Production) {
	n := d.Arena.Get(newNode)
	if len(n.Children) != len(prod.RHS) {
		// Any-symbol tokens or a mismatched production shape: folding only
		// applies to well-formed RHS matches.
		return
	}

	var folded []tree.Handle
	torn := map[int]tree.Handle{}

	for i, child := range n.Children {
		tag := symbol.NoFold
		if i < len(prod.RHS) {
			tag = prod.RHS[i].Folding
		}
		switch tag {
		case symbol.FoldUp:
			folded = append(folded, d.Arena.Get(child).Children...)
		case symbol.FoldUpSym:
			folded = append(folded, child)
			folded = append(folded, d.Arena.Get(child).Children...)
		case symbol.FoldTear:
			torn[i] = child
		default:
			folded = append(folded, child)
		}
	}

	for idx, ins := range prod.Inserts {
		if child, ok := torn[idx]; ok {
			_ = ins
			folded = append(folded, child)
		}
	}

	if len(folded) == 0 {
		return
	}
	alt := d.Arena.Alloc(n.Symbol)
	d.Arena.SetChildren(alt, folded)
	d.Arena.Get(newNode).Alternate = alt
}

// toHandle recovers the tree.Handle an Annotation.Interpret collaborator
// returned. Interpret's signature is kept as func(node any) any so that
// table.Production stays free of a dependency on this package (spec.md §6);
// a result that isn't a tree.Handle (including nil, for a collaborator that
// chose not to build an alternate view) stores no alternate.
func toHandle(v any) tree.Handle {
	h, ok := v.(tree.Handle)
	if !ok {
		return tree.Nil
	}
	return h
}

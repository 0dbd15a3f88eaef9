package incparser

import "github.com/dekarrin/gartree/internal/tree"

// leftBreakdown replaces a Nonterminal lookahead with its leftmost child,
// or, if it has none, advances to its right sibling via popLookahead
// (spec.md §4.1).
func (d *Driver) leftBreakdown(la tree.Handle) tree.Handle {
	n := d.Arena.Get(la)
	if len(n.Children) == 0 {
		return d.popLookahead(la)
	}
	return n.Children[0]
}

// popLookahead ascends from n until it finds a node with a right sibling
// and returns that sibling; reaching Root means the next lookahead is EOS
// (spec.md §4.1).
func (d *Driver) popLookahead(n tree.Handle) tree.Handle {
	cur := n
	for {
		node := d.Arena.Get(cur)
		if node.Right.Valid() {
			return node.Right
		}
		if !node.Parent.Valid() {
			return d.EOS
		}
		cur = node.Parent
	}
}

// rightBreakdown undoes the optimistic shift of optimisticNode: stack
// entries down to and including optimisticNode's are popped (any
// any-symbol tokens pushed during validation are abandoned along with it,
// since they are re-discovered as the children are reprocessed),
// currentState reverts to the state below it, and the returned lookahead
// is optimisticNode's leftmost child so the main loop re-shifts each child
// individually through the ordinary Shift/Reduce/any-symbol path (spec.md
// §4.1, glossary "Right breakdown").
func (d *Driver) rightBreakdown(optimisticNode tree.Handle, currentState *string) tree.Handle {
	for {
		top := d.popStack()
		if top.Node == optimisticNode {
			break
		}
	}
	*currentState = d.stackTopState()
	return d.leftBreakdown(optimisticNode)
}

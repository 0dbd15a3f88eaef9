package tree

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gartree/internal/symbol"
)

// Arena owns every Node ever created for a document. Nodes are never freed:
// superseded Nonterminals (left dangling after a left-breakdown, or popped
// during a right-breakdown) stay addressable so the undo log can restore
// them on a failed parse, per spec.md §3's Nonterminal lifecycle.
type Arena struct {
	nodes []Node
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{nodes: make([]Node, 0, 64)}
}

// Alloc creates a new Node for sym and returns its Handle.
func (a *Arena) Alloc(sym symbol.Symbol) Handle {
	a.nodes = append(a.nodes, Node{Symbol: sym})
	return Handle(len(a.nodes))
}

// Get returns a pointer to the Node addressed by h. Panics on Nil or an
// out-of-range handle, since both indicate a driver bug (spec.md §7's
// InternalError territory) rather than recoverable input.
func (a *Arena) Get(h Handle) *Node {
	if h == Nil || int(h) > len(a.nodes) {
		panic(fmt.Sprintf("tree: invalid handle %d", h))
	}
	return &a.nodes[h-1]
}

// NewBOS allocates a beginning-of-stream sentinel, optionally linked to a
// host node via magicParent for embedded-language regions (spec.md §3).
func (a *Arena) NewBOS(magicParent Handle) Handle {
	h := a.Alloc(symbol.Term(""))
	n := a.Get(h)
	n.bos = true
	n.MagicParent = magicParent
	return h
}

// NewEOS allocates an end-of-stream sentinel.
func (a *Arena) NewEOS(magicParent Handle) Handle {
	h := a.Alloc(symbol.FinishSymbol())
	n := a.Get(h)
	n.eos = true
	n.MagicParent = magicParent
	return h
}

// LinkTerms sets the PrevTerm/NextTerm edge between a and b (a immediately
// precedes b in document order).
func (a *Arena) LinkTerms(prev, next Handle) {
	if prev.Valid() {
		a.Get(prev).NextTerm = next
	}
	if next.Valid() {
		a.Get(next).PrevTerm = prev
	}
}

// SetChildren replaces parent's Children with kids, re-parenting each kid
// and recomputing the sibling chain among them. This is the one place
// Parent/Left/Right are overwritten outside of indentation repair; callers
// (Reduce, InitTree) are responsible for recording undo entries for the
// kids' prior Parent/Left/Right/Log first, per spec.md §4.1's reduce
// details.
func (a *Arena) SetChildren(parent Handle, kids []Handle) {
	p := a.Get(parent)
	p.Children = kids
	for i, k := range kids {
		kn := a.Get(k)
		kn.Parent = parent
		if i > 0 {
			kn.Left = kids[i-1]
		} else {
			kn.Left = Nil
		}
		if i+1 < len(kids) {
			kn.Right = kids[i+1]
		} else {
			kn.Right = Nil
		}
	}
}

// FirstTerminal descends h's leftmost-child chain until it reaches a node
// with no children, i.e. a terminal leaf. Used by optimistic shift to
// determine the first terminal a Nonterminal lookahead covers (spec.md
// §4.1).
func (a *Arena) FirstTerminal(h Handle) Handle {
	n := a.Get(h)
	for len(n.Children) > 0 {
		h = n.Children[0]
		n = a.Get(h)
	}
	return h
}

// InsertTermAfter splices a freshly-allocated terminal node newNode into
// the child list of after's parent (immediately following after) and into
// the terminal chain. Used by the indentation engine to insert synthetic
// INDENT/DEDENT/NEWLINE/UNBALANCED tokens (spec.md §4.3).
func (a *Arena) InsertTermAfter(after, newNode Handle) {
	an := a.Get(after)
	parent := an.Parent
	nn := a.Get(newNode)
	nn.Parent = parent
	nn.Left = after
	nn.Right = an.Right
	if an.Right.Valid() {
		a.Get(an.Right).Left = newNode
	}
	an.Right = newNode

	if parent.Valid() {
		pn := a.Get(parent)
		for i, c := range pn.Children {
			if c == after {
				pn.Children = append(pn.Children[:i+1], append([]Handle{newNode}, pn.Children[i+1:]...)...)
				break
			}
		}
	}

	nn.NextTerm = an.NextTerm
	if an.NextTerm.Valid() {
		a.Get(an.NextTerm).PrevTerm = newNode
	}
	an.NextTerm = newNode
	nn.PrevTerm = after
}

// RemoveChild detaches child from its parent's Children slice, its sibling
// chain, and the terminal chain. Used to strip surplus indentation tokens
// (spec.md §4.3).
func (a *Arena) RemoveChild(child Handle) {
	cn := a.Get(child)
	parent := cn.Parent

	if cn.Left.Valid() {
		a.Get(cn.Left).Right = cn.Right
	}
	if cn.Right.Valid() {
		a.Get(cn.Right).Left = cn.Left
	}

	if parent.Valid() {
		pn := a.Get(parent)
		for i, c := range pn.Children {
			if c == child {
				pn.Children = append(pn.Children[:i], pn.Children[i+1:]...)
				break
			}
		}
	}

	if cn.PrevTerm.Valid() {
		a.Get(cn.PrevTerm).NextTerm = cn.NextTerm
	}
	if cn.NextTerm.Valid() {
		a.Get(cn.NextTerm).PrevTerm = cn.PrevTerm
	}

	cn.Parent, cn.Left, cn.Right = Nil, Nil, Nil
}

// BuildFlat lays terminals out as BOS - t0 - t1 - ... - EOS under a fresh
// Root, all marked Changed so the first IncParse call fully (re-)parses the
// document. This is the "load a freshly typed/opened document" helper; the
// real editor would instead hand the driver an already-edited tree, but
// tests and cmd/garedit need a starting point.
func BuildFlat(a *Arena, terms []Handle) (root, bos, eos Handle) {
	bos = a.NewBOS(Nil)
	eos = a.NewEOS(Nil)

	chain := append([]Handle{bos}, terms...)
	chain = append(chain, eos)
	for i := range chain {
		if i+1 < len(chain) {
			a.LinkTerms(chain[i], chain[i+1])
		}
	}
	for _, t := range terms {
		a.Get(t).Changed = true
	}

	root = a.Alloc(symbol.NonTerm("Root"))
	a.SetChildren(root, chain)
	return root, bos, eos
}

// Equal reports whether the subtrees rooted at x and y (in arenas ax and
// ay, which may be the same arena) are structurally identical: same
// symbols, same Changed flags, same shape, the kind of comparison spec.md
// §8 invariant 2 (bitwise-equivalence after a rolled-back Error) calls for.
// Sibling and terminal-chain links are not compared.
func Equal(ax *Arena, x Handle, ay *Arena, y Handle) bool {
	if !x.Valid() || !y.Valid() {
		return x.Valid() == y.Valid()
	}
	nx, ny := ax.Get(x), ay.Get(y)
	if !nx.Symbol.Equal(ny.Symbol) {
		return false
	}
	if nx.Changed != ny.Changed {
		return false
	}
	if len(nx.Children) != len(ny.Children) {
		return false
	}
	for i := range nx.Children {
		if !Equal(ax, nx.Children[i], ay, ny.Children[i]) {
			return false
		}
	}
	return true
}

// String renders an indented dump of the subtree rooted at h, in the
// fashion of ictiobus's types.ParseTree.String() (internal/ictiobus/types/tree.go).
func String(a *Arena, h Handle) string {
	var sb strings.Builder
	dump(a, h, &sb, 0)
	return sb.String()
}

func dump(a *Arena, h Handle, sb *strings.Builder, depth int) {
	n := a.Get(h)
	label := n.Symbol.String()
	if n.IsBOS() {
		label = "<BOS>"
	} else if n.IsEOS() {
		label = "<EOS>"
	} else if len(n.Children) == 0 {
		label = fmt.Sprintf("(TERM %q)", label)
	} else {
		label = fmt.Sprintf("( %s )", label)
	}
	if n.Changed {
		label += " *"
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(label)
	sb.WriteRune('\n')
	for _, c := range n.Children {
		dump(a, c, sb, depth+1)
	}
}

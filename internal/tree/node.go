// Package tree implements the mutable parse tree described in spec.md §3:
// an arena of Nodes addressed by 32-bit handles rather than pointers, per
// the design note in spec.md §9 ("model as arena + indices... this removes
// ownership cycles and makes the undo log a list of (handle, field_tag,
// old_value)").
//
// This generalizes the immutable, pointer-based ictiobus.types.ParseTree
// (internal/ictiobus/types/tree.go) into a mutable tree with sibling and
// terminal-chain back-edges, since the incremental driver needs to splice
// and re-parent nodes in place rather than build a tree bottom-up once.
package tree

import "github.com/dekarrin/gartree/internal/symbol"

// Handle addresses a Node in an Arena. The zero Handle, Nil, never refers to
// a real node.
type Handle uint32

// Nil is the handle that never refers to a real node; it is the
// "nothing here" value for Parent/Left/Right/PrevTerm/NextTerm/Alternate/
// MagicParent.
const Nil Handle = 0

// Valid reports whether h addresses a real node.
func (h Handle) Valid() bool { return h != Nil }

// Node is one element of the parse tree. See spec.md §3 for the field
// semantics; Parent/Left/Right/PrevTerm/NextTerm/MagicParent are weak
// references expressed as Handles into the owning Arena rather than Go
// pointers, so that the undo log can cheaply snapshot and restore them.
type Node struct {
	Symbol symbol.Symbol

	// State is the LR state this node was most recently shifted or reduced
	// under. Authoritative only while the node is on the parse stack
	// (spec.md §4.4) — the driver never trusts State on a node that has
	// been left-broken-down.
	State int

	Children []Handle

	Parent Handle
	Left   Handle
	Right  Handle

	PrevTerm Handle
	NextTerm Handle

	// Changed is set by the editor on any edit touching this node, and by
	// the driver itself when it marks a successor line for indentation
	// repair.
	Changed bool

	// Indent is the indentation-stack snapshot valid at this node's
	// position. nil means "no snapshot" (spec.md §3); it is only
	// meaningful on <return> terminals and on Nonterminals that
	// transitively cover one.
	Indent []int

	// Lookup is the lexer-assigned tag: "", "<ws>", "<return>", or a
	// terminal name (spec.md §3).
	Lookup string

	// Alternate is the folded/AST view attached by the annotation
	// collaborator after a Reduce (spec.md §4.1).
	Alternate Handle

	// Log is a per-version snapshot store; see spec.md §3. Keyed by an
	// opaque version id the editor supplies to SaveStatus/LoadStatus.
	Log map[string]Snapshot

	// MagicParent links an embedded-language BOS/EOS back to the node in
	// the host language that hosts it (spec.md §3).
	MagicParent Handle

	// bos/eos marks the sentinel nodes threading the terminal chain.
	bos bool
	eos bool
}

// Snapshot is a per-version capture of a node's mutable fields, used by
// versioned reads (spec.md §3's "per-version log").
type Snapshot struct {
	State   int
	Changed bool
	Indent  []int
}

// IsBOS reports whether n is the beginning-of-stream sentinel.
func (n *Node) IsBOS() bool { return n.bos }

// IsEOS reports whether n is the end-of-stream sentinel.
func (n *Node) IsEOS() bool { return n.eos }

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

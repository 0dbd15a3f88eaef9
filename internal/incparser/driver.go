// Package incparser is the incremental LR driver (spec.md §1, §4.1): given
// a table.Table and a tree.Arena holding the previously parsed document
// plus edits marked `Changed` on the tree, IncParse produces an updated
// parse tree in time proportional to the change. Grounded throughout on
// ictiobus/parse/lr.go's lrParser (trace hooks, the Shift/Reduce/Accept/∅
// dispatch, notifyTrace* family) generalized from a from-scratch batch
// parse to the optimistic-shift/breakdown incremental algorithm spec.md
// §4.1 describes; the parse stack itself is an
// github.com/emirpasic/gods/lists/arraylist.List of stackEntry, grounded on
// npillmayer-gorgo's lr/tables.go use of arraylist for similar bookkeeping
// (util.Stack[T], referenced throughout the teacher's own lr.go, was not
// present in the retrieved pack).
package incparser

import (
	"strconv"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/synerr"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// stackEntry is a (node, state) pair on the parse stack. State is
// authoritative; Node.State is kept in sync for debugging only, per spec.md
// §9's "preferred design: store (node_handle, state) pairs on the stack;
// leave Node.state as a debugging convenience only."
type stackEntry struct {
	Node  tree.Handle
	State string
}

// Status is the persisted (last_status, error_node) pair spec.md §4.1 keys
// by an opaque version id (SaveStatus/LoadStatus).
type Status struct {
	Accepted  bool
	ErrorNode tree.Handle
}

// Config configures the parts of the driver that spec.md §6 calls
// constructor inputs: whether the indentation engine is active and which
// terminal names open a comment region.
type Config struct {
	IndentationBased bool
	CommentTokens    []string
}

// Driver is the incremental LR driver of spec.md §4.1. It borrows an Arena
// for the duration of each IncParse call and must leave it in a
// well-defined state (new-accepted or rolled-back-to-prior) before
// returning (spec.md §5).
type Driver struct {
	Arena *tree.Arena
	Table table.Table
	cfg   Config

	Root, BOS, EOS tree.Handle

	undo  *tree.Log
	stack *arraylist.List

	errorNode  tree.Handle
	lastStatus bool
	statuses   map[string]Status

	trace func(string)

	anyCount   map[tree.Handle]bool
	anyReturns []tree.Handle

	commentTokens map[string]bool
}

// New builds a Driver over arena using tbl as its syntax table.
func New(arena *tree.Arena, tbl table.Table, cfg Config) *Driver {
	ct := make(map[string]bool, len(cfg.CommentTokens))
	for _, t := range cfg.CommentTokens {
		ct[t] = true
	}
	return &Driver{
		Arena:         arena,
		Table:         tbl,
		cfg:           cfg,
		undo:          tree.NewLog(arena),
		stack:         arraylist.New(),
		statuses:      map[string]Status{},
		anyCount:      map[tree.Handle]bool{},
		commentTokens: ct,
	}
}

// InitTree builds Root(BOS, EOS) and records it as version "0" (spec.md
// §4.1's init_tree).
func (d *Driver) InitTree() {
	bos := d.Arena.NewBOS(tree.Nil)
	eos := d.Arena.NewEOS(tree.Nil)
	d.Arena.LinkTerms(bos, eos)

	root := d.Arena.Alloc(symbol.NonTerm("Root"))
	d.Arena.SetChildren(root, []tree.Handle{bos, eos})

	d.Root, d.BOS, d.EOS = root, bos, eos
	d.lastStatus = true
	d.errorNode = tree.Nil
	d.SaveStatus("0")
}

// Attach points the driver at an already-built Root(BOS, ..., EOS) tree,
// for callers (tests, cmd/garedit) that construct the initial document with
// tree.BuildFlat rather than InitTree's empty document.
func (d *Driver) Attach(root, bos, eos tree.Handle) {
	d.Root, d.BOS, d.EOS = root, bos, eos
}

// Reparse is inc_parse(reparse=true): every Nonterminal is treated as
// changed, forcing a full left-to-right re-walk.
func (d *Driver) Reparse() error {
	return d.IncParse(true)
}

// LastStatus reports whether the most recent IncParse accepted.
func (d *Driver) LastStatus() bool { return d.lastStatus }

// ErrorNode returns the failing lookahead of the most recent Error, or
// tree.Nil after an Accept.
func (d *Driver) ErrorNode() tree.Handle { return d.errorNode }

// SaveStatus persists (LastStatus(), ErrorNode()) keyed by an opaque
// version id supplied by the editor (spec.md §4.1).
func (d *Driver) SaveStatus(version string) {
	d.statuses[version] = Status{Accepted: d.lastStatus, ErrorNode: d.errorNode}
}

// LoadStatus restores a previously saved status, reporting whether version
// was known.
func (d *Driver) LoadStatus(version string) (Status, bool) {
	s, ok := d.statuses[version]
	if ok {
		d.lastStatus = s.Accepted
		d.errorNode = s.ErrorNode
	}
	return s, ok
}

// GetNextPossibleSymbols and GetExpectedSymbols both expose
// Table.NextSymbols(state), matching spec.md §7's diagnostic pair; they are
// kept as two names because callers render them for two different
// audiences (driver introspection vs. "expected ..." messages).
func (d *Driver) GetNextPossibleSymbols(state string) []symbol.Symbol {
	return d.Table.NextSymbols(state)
}

func (d *Driver) GetExpectedSymbols(state string) []symbol.Symbol {
	return d.Table.NextSymbols(state)
}

// LastShiftState returns the LR state recorded on ErrorNode(), for
// rendering "expected ..." diagnostics against it (spec.md §7).
func (d *Driver) LastShiftState() int {
	if !d.errorNode.Valid() {
		return -1
	}
	return d.Arena.Get(d.errorNode).State
}

// IncParse performs one incremental parse over the current tree (spec.md
// §4.1). On Accept, Root's children become [BOS, topSymbol, EOS] and
// LastStatus() is true. On Error, the undo log is fully replayed, the tree
// is restored to its pre-parse state, ErrorNode() is set to the failing
// lookahead, LastStatus() is false, and the returned error is a
// *synerr.ParseError. A *synerr.InternalError return means the syntax
// table is corrupt; the tree is not guaranteed rolled back in that case
// (spec.md §7).
func (d *Driver) IncParse(reparse bool) error {
	d.undo.Reset()
	d.stack = arraylist.New()
	d.anyCount = map[tree.Handle]bool{}
	d.anyReturns = nil

	if d.cfg.IndentationBased {
		d.stripDanglingIndentation()
		d.fixupLeadingIndentation()
	}

	initial := d.Table.Initial()
	d.pushStack(tree.Nil, initial)
	currentState := initial

	la := d.popLookahead(d.BOS)

	validating := false
	var optimisticNode tree.Handle

	for {
		n := d.Arena.Get(la)

		// Whitespace tokens are kept in the terminal chain for round-trip
		// reconstruction and indentation measurement, but never drive
		// ACTION lookups (spec.md §6's external lexer contract; the
		// grammar itself never mentions "<ws>").
		if n.Lookup == "<ws>" {
			la = d.popLookahead(la)
			continue
		}

		d.notifyStatePeek(currentState)
		d.notifyNextToken(la)

		if n.Symbol.IsTerminal() {
			if d.tryAnySymbol(la, &currentState) {
				la = d.popLookahead(la)
				continue
			}

			act := d.Table.Action(currentState, d.lookupOf(n))
			d.notifyAction(act)
			switch act.Type {
			case table.Shift:
				next := d.popLookahead(la)
				d.shift(la, act.State)
				currentState = act.State
				// Right-breakdown re-shifts a Nonterminal's children through
				// this same path; repair is idempotent on an
				// already-correct indentation sequence, so always running
				// it here costs a no-op check rather than correctness.
				if d.cfg.IndentationBased {
					d.runIndentation(la)
				}
				la = next

			case table.Reduce:
				if err := d.reduce(act.Production, &currentState); err != nil {
					return err
				}
				// re-attempt the same lookahead

			case table.Accept:
				d.finalizeAccept()
				return nil

			case table.None:
				if validating {
					la = d.rightBreakdown(optimisticNode, &currentState)
					validating = false
				} else {
					expected := namesOf(d.Table.NextSymbols(currentState))
					d.errorNode = la
					d.lastStatus = false
					d.undo.Replay()
					return synerr.NewParseError(currentState, n.Symbol.String(), expected)
				}
			}
			continue
		}

		// la is a Nonterminal.
		if n.Changed || reparse {
			d.undo.SaveChanged(la)
			n.Changed = false
			la = d.leftBreakdown(la)
			continue
		}

		if gotoState, ok := d.Table.Goto(currentState, n.Symbol.Name); ok {
			d.undo.SaveState(la)
			n.State = stateAsInt(gotoState)
			d.pushStack(la, gotoState)
			d.notifyStatePush(gotoState)
			currentState = gotoState
			optimisticNode = la
			validating = true
			la = d.popLookahead(la)
			continue
		}

		first := d.Arena.FirstTerminal(la)
		fn := d.Arena.Get(first)
		act := d.Table.Action(currentState, d.lookupOf(fn))
		if act.Type == table.Reduce {
			if err := d.reduce(act.Production, &currentState); err != nil {
				return err
			}
			continue
		}
		la = d.leftBreakdown(la)
	}
}

func (d *Driver) finalizeAccept() {
	top := d.popStack()
	d.undo.SaveChildren(d.Root)
	d.Arena.SetChildren(d.Root, []tree.Handle{d.BOS, top.Node, d.EOS})
	d.lastStatus = true
	d.errorNode = tree.Nil
	d.undo.Reset()
}

// lookupOf resolves the ACTION-table column for a terminal node: its
// lexer-assigned Lookup tag if present, falling back to its own Symbol
// (spec.md §6's external lexer contract).
func (d *Driver) lookupOf(n *tree.Node) symbol.Symbol {
	switch n.Lookup {
	case "", "<ws>":
		return n.Symbol
	default:
		return symbol.Term(n.Lookup)
	}
}

func (d *Driver) shift(la tree.Handle, newState string) {
	d.undo.SaveState(la)
	d.Arena.Get(la).State = stateAsInt(newState)
	d.pushStack(la, newState)
	d.notifyStatePush(newState)
	d.notifyTokenStack()
}

func (d *Driver) pushStack(node tree.Handle, state string) {
	d.stack.Add(stackEntry{Node: node, State: state})
}

func (d *Driver) popStack() stackEntry {
	i := d.stack.Size() - 1
	v, _ := d.stack.Get(i)
	d.stack.Remove(i)
	e := v.(stackEntry)
	d.notifyStatePop(e.State)
	return e
}

func (d *Driver) peekStack() stackEntry {
	v, _ := d.stack.Get(d.stack.Size() - 1)
	return v.(stackEntry)
}

func (d *Driver) stackTopState() string {
	return d.peekStack().State
}

func stateAsInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return i
}

func namesOf(syms []symbol.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.String()
	}
	return out
}

// RegisterTraceListener installs fn to receive a line of text for every
// notable driver step, matching ictiobus/parse/lr.go's
// lrParser.RegisterTraceListener.
func (d *Driver) RegisterTraceListener(fn func(s string)) {
	d.trace = fn
}

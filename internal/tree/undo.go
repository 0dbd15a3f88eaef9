package tree

import "github.com/dekarrin/gartree/internal/symbol"

// Field names a mutable Node attribute the undo log can snapshot and
// restore. Named fields rather than reflection, matching spec.md §9's
// design note that the undo log is "a list of (handle, field_tag,
// old_value)".
type Field int

const (
	FieldParent Field = iota
	FieldLeft
	FieldRight
	FieldState
	FieldChanged
	FieldIndent
	FieldLog
	FieldAlternate
	FieldChildren
	// FieldSymbol covers the indentation engine's in-place symbol-name
	// repair on existing IndentationTerminal nodes (spec.md §4.3's
	// "in-place update symbol names on matching positions").
	FieldSymbol
)

// entry is one undo-log record: the old value of one field of one node,
// captured immediately before the driver overwrites it.
type entry struct {
	node    Handle
	field   Field
	handle  Handle // for FieldParent/FieldLeft/FieldRight/FieldAlternate
	i       int    // for FieldState
	b       bool   // for FieldChanged
	indent  []int  // for FieldIndent
	sym      symbol.Symbol // for FieldSymbol
	log      map[string]Snapshot
	children []Handle // for FieldChildren
}

// Log is the append-only undo log for one parse attempt (spec.md §4.1):
// every field mutation performed during IncParse is recorded here before
// it happens, so a failed parse can be rolled back exactly.
type Log struct {
	a       *Arena
	entries []entry
}

// NewLog returns an empty Log bound to arena a.
func NewLog(a *Arena) *Log {
	return &Log{a: a}
}

// Reset discards all entries, e.g. after a successful parse (spec.md §4.1:
// "Accept discards the log").
func (l *Log) Reset() {
	l.entries = l.entries[:0]
}

// Len reports how many entries have been recorded.
func (l *Log) Len() int { return len(l.entries) }

// SaveParent records node's current Parent before the caller overwrites it.
func (l *Log) SaveParent(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldParent, handle: l.a.Get(node).Parent})
}

// SaveLeft records node's current Left before the caller overwrites it.
func (l *Log) SaveLeft(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldLeft, handle: l.a.Get(node).Left})
}

// SaveRight records node's current Right before the caller overwrites it.
func (l *Log) SaveRight(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldRight, handle: l.a.Get(node).Right})
}

// SaveState records node's current State before the caller overwrites it.
func (l *Log) SaveState(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldState, i: l.a.Get(node).State})
}

// SaveChanged records node's current Changed flag before the caller
// overwrites it.
func (l *Log) SaveChanged(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldChanged, b: l.a.Get(node).Changed})
}

// SaveIndent records node's current Indent snapshot before the caller
// overwrites it.
func (l *Log) SaveIndent(node Handle) {
	n := l.a.Get(node)
	var cp []int
	if n.Indent != nil {
		cp = append([]int(nil), n.Indent...)
	}
	l.entries = append(l.entries, entry{node: node, field: FieldIndent, indent: cp})
}

// SaveAlternate records node's current Alternate handle before the caller
// overwrites it.
func (l *Log) SaveAlternate(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldAlternate, handle: l.a.Get(node).Alternate})
}

// SaveLog records a copy of node's current per-version Log map before the
// caller overwrites it, matching incparser.py's `self.undo.append((c,
// 'log', c.log.copy()))`.
func (l *Log) SaveLog(node Handle) {
	n := l.a.Get(node)
	cp := make(map[string]Snapshot, len(n.Log))
	for k, v := range n.Log {
		cp[k] = v
	}
	l.entries = append(l.entries, entry{node: node, field: FieldLog, log: cp})
}

// SaveSymbol records node's current Symbol before the caller overwrites it
// (indentation repair's in-place NEWLINE/INDENT/DEDENT/UNBALANCED rename,
// spec.md §4.3).
func (l *Log) SaveSymbol(node Handle) {
	l.entries = append(l.entries, entry{node: node, field: FieldSymbol, sym: l.a.Get(node).Symbol})
}

// SaveChildren records a copy of parent's current Children slice before the
// caller splices a node into or out of it (indentation repair, spec.md
// §4.3).
func (l *Log) SaveChildren(parent Handle) {
	n := l.a.Get(parent)
	cp := append([]Handle(nil), n.Children...)
	l.entries = append(l.entries, entry{node: parent, field: FieldChildren, children: cp})
}

// SaveAll records Parent/Left/Right/Log for node in one call, matching the
// four-tuple save performed on every popped child during Reduce (spec.md
// §4.1).
func (l *Log) SaveAll(node Handle) {
	l.SaveParent(node)
	l.SaveLeft(node)
	l.SaveRight(node)
	l.SaveLog(node)
}

// Replay undoes every recorded mutation in reverse order, restoring the
// tree to its state immediately before this parse attempt began (spec.md
// §4.1, §7, §8 invariant 2).
func (l *Log) Replay() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		n := l.a.Get(e.node)
		switch e.field {
		case FieldParent:
			n.Parent = e.handle
		case FieldLeft:
			n.Left = e.handle
		case FieldRight:
			n.Right = e.handle
		case FieldState:
			n.State = e.i
		case FieldChanged:
			n.Changed = e.b
		case FieldIndent:
			n.Indent = e.indent
		case FieldAlternate:
			n.Alternate = e.handle
		case FieldLog:
			n.Log = e.log
		case FieldChildren:
			n.Children = e.children
		case FieldSymbol:
			n.Symbol = e.sym
		}
	}
	l.Reset()
}

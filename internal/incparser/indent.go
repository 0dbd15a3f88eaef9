// Indentation engine (spec.md §4.3): computes synthetic NEWLINE/INDENT/
// DEDENT/UNBALANCED tokens around logical lines and keeps them consistent
// as edits move lines in and out of the tree. Grounded on incparser.py's
// parse_whitespace/indentation_tokens/get_previous_ws/set_total_indent
// (see original_source/eco), adapted to the arena/undo-log model: every
// mutation indentation repair performs goes through the same tree.Log the
// LR driver uses, so a rolled-back parse undoes indentation edits exactly
// like any other tree edit.
package incparser

import (
	"golang.org/x/text/width"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/tree"
)

// runIndentation is the entry point invoked after shifting any terminal
// (spec.md §4.3): it only acts when la is a <return> or the last real token
// before EOS. BOS is handled once up front by fixupLeadingIndentation/
// stripDanglingIndentation, not here: la is never BOS itself by the time
// runIndentation is called, since the main loop's first lookahead is
// already BOS's successor (popLookahead(d.BOS)).
func (d *Driver) runIndentation(la tree.Handle) {
	n := d.Arena.Get(la)

	isReturn := n.Lookup == "<return>"
	isLastBeforeEOS := !isReturn && n.NextTerm.Valid() && d.Arena.Get(n.NextTerm).IsEOS()

	switch {
	case isReturn:
		d.repairLine(la)
	case isLastBeforeEOS:
		d.closeAtEOS(la)
	}
}

// fixupLeadingIndentation special-cases the gap between BOS and the first
// real token (spec.md §9 supplemented feature, ported from incparser.py's
// inc_parse): a document whose first line opens with whitespace gets a
// synthetic INDENT inserted right after BOS (repairLine's general machinery
// never runs against BOS, so without this the leading indent would be
// silently dropped); a stray IndentationTerminal already sitting there
// (left over from a prior parse whose first line was edited away) is
// removed instead.
func (d *Driver) fixupLeadingIndentation() {
	next := d.Arena.Get(d.BOS).NextTerm
	if !next.Valid() {
		return
	}
	nn := d.Arena.Get(next)
	switch {
	case nn.Lookup == "<ws>":
		ins := d.Arena.Alloc(symbol.Indent(symbol.INDENT))
		d.undo.SaveChildren(d.Arena.Get(d.BOS).Parent)
		d.Arena.InsertTermAfter(d.BOS, ins)
	case nn.Symbol.Kind == symbol.Indentation:
		// an INDENT still followed by the first line's whitespace is the one
		// inserted above on an earlier parse, not a stray token
		if after := nn.NextTerm; nn.Symbol.Name == string(symbol.INDENT) && after.Valid() && d.Arena.Get(after).Lookup == "<ws>" {
			return
		}
		d.undo.SaveChildren(nn.Parent)
		d.Arena.RemoveChild(next)
	}
}

// stripDanglingIndentation implements incparser.py's empty-document clause:
// if every terminal from BOS's successor up to EOS is an
// IndentationTerminal (the document has no real content left), those
// terminals are removed rather than carried forward into a parse that will
// never find a logical line to attach them to (spec.md §9 supplemented
// feature).
func (d *Driver) stripDanglingIndentation() {
	cur := d.Arena.Get(d.EOS).PrevTerm
	for cur.Valid() && d.Arena.Get(cur).Symbol.Kind == symbol.Indentation {
		cur = d.Arena.Get(cur).PrevTerm
	}
	if !cur.Valid() || !d.Arena.Get(cur).IsBOS() {
		return
	}

	n := d.Arena.Get(cur).NextTerm
	for n.Valid() && d.Arena.Get(n).Symbol.Kind == symbol.Indentation {
		next := d.Arena.Get(n).NextTerm
		d.undo.SaveChildren(d.Arena.Get(n).Parent)
		d.Arena.RemoveChild(n)
		n = next
	}
}

// repairLine recomputes and repairs the indentation tokens following the
// <return> (or BOS) at la, then propagates the change to logical
// successors (spec.md §4.3).
func (d *Driver) repairLine(la tree.Handle) {
	n := d.Arena.Get(la)

	prevStack := d.previousLogicalWhitespace(la)
	logical := n.IsBOS() || d.isLogicalLine(la)

	if !logical {
		d.stripIndentTokens(la)
		if !n.IsBOS() {
			d.undo.SaveIndent(la)
			n.Indent = nil
		}
		return
	}

	w := d.getWhitespace(la)
	toks, newStack := indentationTokens(prevStack, w)

	// spec.md §9's open question on parse_whitespace: the conservative
	// reading is taken — the indent snapshot is always updated, not only
	// when a repair is actually performed.
	d.undo.SaveIndent(la)
	n.Indent = newStack

	d.repairIndents(la, toks)
	d.propagate(la, newStack, w)
}

// closeAtEOS implements spec.md §4.3's EOS clause: if the tail indentation
// stack hasn't fully dedented to 0, it marks the last token before EOS (and
// its enclosing Nonterminals) Changed, without mutating the tree from within
// this parse. No pass inserts closing DEDENT tokens at EOS: a later parse
// that reaches this token again only repeats the marking.
func (d *Driver) closeAtEOS(lastToken tree.Handle) {
	stack := d.previousLogicalWhitespace(lastToken)
	if len(stack) == 0 {
		return
	}
	n := d.Arena.Get(lastToken)
	if !n.Changed {
		d.undo.SaveChanged(lastToken)
		n.Changed = true
	}
	d.markChangedUpTree(lastToken)
}

// markChangedUpTree walks the ancestor chain from n up to (but not
// including) Root, marking every enclosing Nonterminal Changed so the next
// IncParse's optimistic-shift/GOTO path (driver.go's `n.Changed || reparse`
// check) actually breaks down into n's line instead of reusing the whole
// subtree unchanged (spec.md §4.3's "Propagation": marking a leaf alone has
// no effect, since only Nonterminal lookaheads ever consult Changed).
func (d *Driver) markChangedUpTree(n tree.Handle) {
	cur := d.Arena.Get(n).Parent
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if !cn.Changed {
			d.undo.SaveChanged(cur)
			cn.Changed = true
		}
		if cur == d.Root {
			return
		}
		cur = cn.Parent
	}
}

// isLogicalLine reports whether the line starting after la contains at
// least one token that is not whitespace, not a synthetic indentation
// terminal, and not tagged with a configured comment token (spec.md
// §4.3's "Logical line test").
func (d *Driver) isLogicalLine(la tree.Handle) bool {
	cur := d.Arena.Get(la).NextTerm
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.IsEOS() || cn.Lookup == "<return>" {
			return false
		}
		if cn.Symbol.Kind == symbol.Indentation || cn.Lookup == "<ws>" {
			cur = cn.NextTerm
			continue
		}
		if d.commentTokens[cn.Lookup] || d.commentTokens[cn.Symbol.Name] {
			cur = cn.NextTerm
			continue
		}
		return true
	}
	return false
}

// previousLogicalWhitespace finds the most recent preceding <return>
// carrying an Indent snapshot and returns it, matching incparser.py's
// get_previous_ws. An empty slice means "start of document".
func (d *Driver) previousLogicalWhitespace(la tree.Handle) []int {
	cur := d.Arena.Get(la).PrevTerm
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.Lookup == "<return>" && cn.Indent != nil {
			return cn.Indent
		}
		if cn.IsBOS() {
			return nil
		}
		cur = cn.PrevTerm
	}
	return nil
}

// getWhitespace sums the display width of the <ws> run immediately
// following la (a <return> or BOS), using x/text/width to account for
// full-width characters the way a monospaced editor would render them,
// and expanding tabs to the next multiple of 8.
func (d *Driver) getWhitespace(la tree.Handle) int {
	cur := d.Arena.Get(la).NextTerm
	w := 0
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.Lookup != "<ws>" {
			break
		}
		w += whitespaceWidth(cn.Symbol.Name)
		cur = cn.NextTerm
	}
	return w
}

func whitespaceWidth(ws string) int {
	w := 0
	for _, r := range ws {
		if r == '\t' {
			w += 8 - (w % 8)
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// indentationTokens computes the synthetic token sequence and new stack
// for a line with leading-whitespace width w, given the previous
// indentation stack prev (spec.md §4.3's "Token computation").
func indentationTokens(prev []int, w int) ([]symbol.IndentKind, []int) {
	top := 0
	if len(prev) > 0 {
		top = prev[len(prev)-1]
	}

	switch {
	case w > top:
		newStack := append(append([]int(nil), prev...), w)
		return []symbol.IndentKind{symbol.NEWLINE, symbol.INDENT}, newStack

	case w < top:
		newStack := append([]int(nil), prev...)
		toks := []symbol.IndentKind{symbol.NEWLINE}
		for len(newStack) > 0 && newStack[len(newStack)-1] > w {
			newStack = newStack[:len(newStack)-1]
			toks = append(toks, symbol.DEDENT)
		}
		newTop := 0
		if len(newStack) > 0 {
			newTop = newStack[len(newStack)-1]
		}
		if newTop != w {
			toks = append(toks, symbol.UNBALANCED)
		}
		return toks, newStack

	default:
		return []symbol.IndentKind{symbol.NEWLINE}, append([]int(nil), prev...)
	}
}

// repairIndents compares the IndentationTerminal run immediately following
// la to want, updating in place, inserting, and removing as needed (spec.md
// §4.3's "Repair"). Every mutation goes through the undo log, via the
// Arena helpers that already log child-slice splices plus explicit
// SaveSymbol calls for in-place renames.
func (d *Driver) repairIndents(la tree.Handle, want []symbol.IndentKind) {
	var existing []tree.Handle
	cur := d.Arena.Get(la).NextTerm
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.Symbol.Kind != symbol.Indentation {
			break
		}
		existing = append(existing, cur)
		cur = cn.NextTerm
	}

	i := 0
	after := la
	for ; i < len(want) && i < len(existing); i++ {
		h := existing[i]
		n := d.Arena.Get(h)
		wantSym := symbol.Indent(want[i])
		if !n.Symbol.Equal(wantSym) {
			d.undo.SaveSymbol(h)
			n.Symbol = wantSym
		}
		after = h
	}

	for ; i < len(want); i++ {
		nn := d.Arena.Alloc(symbol.Indent(want[i]))
		d.undo.SaveChildren(d.Arena.Get(after).Parent)
		d.Arena.InsertTermAfter(after, nn)
		after = nn
	}

	for ; i < len(existing); i++ {
		d.undo.SaveChildren(d.Arena.Get(existing[i]).Parent)
		d.Arena.RemoveChild(existing[i])
	}
}

// propagate walks forward from a repaired line to the next logical line
// (spec.md §4.3's "Propagation"). Non-logical lines on the way have their
// indentation tokens stripped and their Indent cleared. The first logical
// successor is left alone if its whitespace width is strictly less than the
// trigger's (the block has closed); otherwise it is marked Changed when the
// new upstream stack would alter its indentation tokens. Only that one
// logical successor is examined; lines after it are not visited here.
// Reaching EOS first ends the walk.
func (d *Driver) propagate(trigger tree.Handle, stack []int, triggerWidth int) {
	cur := d.Arena.Get(trigger).NextTerm
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.IsEOS() {
			return
		}
		if cn.Lookup != "<return>" {
			cur = cn.NextTerm
			continue
		}

		if !d.isLogicalLine(cur) {
			d.stripIndentTokens(cur)
			if cn.Indent != nil {
				d.undo.SaveIndent(cur)
				cn.Indent = nil
			}
			cur = cn.NextTerm
			continue
		}

		w := d.getWhitespace(cur)
		if w < triggerWidth {
			return
		}

		wantToks, _ := indentationTokens(stack, w)
		if !d.indentTokensMatch(cur, wantToks) {
			if !cn.Changed {
				d.undo.SaveChanged(cur)
				cn.Changed = true
			}
			d.markChangedUpTree(cur)
		}
		return
	}
}

// indentTokensMatch reports whether the IndentationTerminal run following
// la already equals want.
func (d *Driver) indentTokensMatch(la tree.Handle, want []symbol.IndentKind) bool {
	cur := d.Arena.Get(la).NextTerm
	for _, k := range want {
		if !cur.Valid() {
			return false
		}
		cn := d.Arena.Get(cur)
		if cn.Symbol.Kind != symbol.Indentation || cn.Symbol.Name != string(k) {
			return false
		}
		cur = cn.NextTerm
	}
	if cur.Valid() && d.Arena.Get(cur).Symbol.Kind == symbol.Indentation {
		return false
	}
	return true
}

// stripIndentTokens removes every IndentationTerminal immediately
// following la (spec.md §4.3's non-logical-line handling).
func (d *Driver) stripIndentTokens(la tree.Handle) {
	cur := d.Arena.Get(la).NextTerm
	for cur.Valid() {
		cn := d.Arena.Get(cur)
		if cn.Symbol.Kind != symbol.Indentation {
			return
		}
		next := cn.NextTerm
		d.undo.SaveChildren(cn.Parent)
		d.Arena.RemoveChild(cur)
		cur = next
	}
}

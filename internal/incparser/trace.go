package incparser

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// notifyTraceFn and notifyTrace mirror ictiobus/parse/lr.go's lrParser: a
// trace line is only formatted when a listener is actually registered, so
// RegisterTraceListener(nil) (the default) costs nothing on the hot path.
func (d *Driver) notifyTraceFn(fn func() string) {
	if d.trace != nil {
		d.trace(fn())
	}
}

func (d *Driver) notifyTrace(fmtStr string, args ...interface{}) {
	d.notifyTraceFn(func() string { return fmt.Sprintf(fmtStr, args...) })
}

func (d *Driver) notifyStatePeek(s string) {
	d.notifyTrace("stack.peek(): %s", s)
}

func (d *Driver) notifyStatePush(s string) {
	d.notifyTrace("stack.push(): %s", s)
}

func (d *Driver) notifyStatePop(s string) {
	if s == "" {
		d.notifyTrace("stack.pop()")
	} else {
		d.notifyTrace("stack.pop(): %s", s)
	}
}

func (d *Driver) notifyAction(act table.Action) {
	d.notifyTrace("Action: %s", act.Type.String())
}

func (d *Driver) notifyNextToken(la tree.Handle) {
	n := d.Arena.Get(la)
	d.notifyTrace("Got next token: %s", n.Symbol.String())
}

// notifyTokenStack dumps the parse stack's node symbols, most-recently
// pushed first, matching lrParser.notifyTokenStack's rendering.
func (d *Driver) notifyTokenStack() {
	d.notifyTraceFn(func() string {
		var sb strings.Builder
		sb.WriteString("[ ")
		for i := d.stack.Size() - 1; i >= 0; i-- {
			v, _ := d.stack.Get(i)
			e := v.(stackEntry)
			if !e.Node.Valid() {
				sb.WriteString("$ ")
				continue
			}
			sb.WriteString(d.Arena.Get(e.Node).Symbol.String())
			sb.WriteRune(' ')
		}
		sb.WriteString("]")
		return sb.String()
	})
}

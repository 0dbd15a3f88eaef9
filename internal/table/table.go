// Package table defines the syntax-table interface the incremental parser
// core consumes as an opaque, already-built collaborator (spec.md §1, §2,
// §6): "pure function (state, symbol) -> action". Grounded on
// ictiobus/parse/lr.go's LRParseTable interface and
// ictiobus/parse/lraction.go's LRAction, generalized from string symbols to
// the tagged symbol.Symbol and from untagged production RHS entries to
// entries carrying folding tags (spec.md §3).
package table

import (
	"fmt"

	"github.com/dekarrin/gartree/internal/symbol"
)

// ActionType enumerates the four ACTION outcomes named in spec.md §3.
type ActionType int

const (
	// None represents the empty action ∅: no valid move from this state on
	// this symbol.
	None ActionType = iota
	Shift
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "none"
	}
}

// RHSEntry is one symbol of a Production's right-hand side, carrying the
// folding tag used when building the folded alternate tree (spec.md §3).
type RHSEntry struct {
	Symbol  symbol.Symbol
	Folding symbol.Folding
}

// Annotation is the collaborator hook invoked after a Reduce whose
// production carries one (spec.md §4.1, §6): Interpret builds the
// alternate/AST view. Its semantics are defined entirely by the caller; the
// core only invokes it. Modeled as a plain function value rather than an
// interface with method dispatch, per spec.md §9's "no runtime method
// lookup in the hot loop" design note, and grounded in ictiobus's
// types.SyntaxDirectedDefinition (internal/ictiobus/types/sdd.go), which is
// likewise a bare function type rather than an evaluator interface.
type Annotation struct {
	Interpret func(node any) any
}

// Production is a grammar rule: an LHS Nonterminal name, an ordered RHS,
// an optional Annotation, and an Inserts map used by the default folding
// algorithm's "^^^" (tear) case (spec.md §3).
type Production struct {
	LHS        string
	RHS        []RHSEntry
	Annotation *Annotation
	Inserts    map[int]symbol.Symbol
}

func (p Production) String() string {
	s := p.LHS + " ->"
	for _, e := range p.RHS {
		s += " " + e.Symbol.String()
	}
	return s
}

// Equal reports whether p and o are the same production (by LHS and RHS
// symbol sequence; Annotation/Inserts are not compared, matching
// ictiobus's grammar.Production.Equal semantics referenced from
// parse/lraction.go).
func (p Production) Equal(o Production) bool {
	if p.LHS != o.LHS || len(p.RHS) != len(o.RHS) {
		return false
	}
	for i := range p.RHS {
		if !p.RHS[i].Symbol.Equal(o.RHS[i].Symbol) {
			return false
		}
	}
	return true
}

// Action is one ACTION/GOTO table cell (spec.md §3).
type Action struct {
	Type       ActionType
	State      string // for Shift and Goto-as-Action uses
	Production Production
	Symbol     string // LHS of Production, for Reduce
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("shift(%s)", a.State)
	case Reduce:
		return fmt.Sprintf("reduce(%s)", a.Production.String())
	case Accept:
		return "accept"
	default:
		return "none"
	}
}

// Table is the pure (state, symbol) -> action collaborator the incremental
// driver consumes (spec.md §1 component 1, §6). Grammar compilation that
// produces a Table is out of scope for the core; internal/compile provides
// one concrete implementation.
type Table interface {
	// Initial returns the starting state.
	Initial() string

	// Action looks up ACTION[state, sym]. Returns a zero Action (Type ==
	// None) when no entry exists.
	Action(state string, sym symbol.Symbol) Action

	// Goto looks up GOTO[state, nonterminal]. ok is false when no entry
	// exists.
	Goto(state string, nonterminal string) (next string, ok bool)

	// NextSymbols returns every symbol for which ACTION[state, sym] is not
	// None, for building "expected ..." diagnostics (spec.md §7).
	NextSymbols(state string) []symbol.Symbol

	String() string
}

package incparser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

// stubTable is a minimal hand-built table.Table for exercising the
// any-symbol engine in isolation from the SLR(1) constructor.
type stubTable struct {
	actions map[string]map[string]table.Action
}

func newStubTable() *stubTable {
	return &stubTable{actions: map[string]map[string]table.Action{}}
}

func (s *stubTable) set(state string, sym symbol.Symbol, act table.Action) {
	if s.actions[state] == nil {
		s.actions[state] = map[string]table.Action{}
	}
	s.actions[state][sym.Kind.String()+":"+sym.Name] = act
}

func (s *stubTable) Initial() string { return "S0" }

func (s *stubTable) Action(state string, sym symbol.Symbol) table.Action {
	return s.actions[state][sym.Kind.String()+":"+sym.Name]
}

func (s *stubTable) Goto(state string, nonterminal string) (string, bool) { return "", false }

func (s *stubTable) NextSymbols(state string) []symbol.Symbol { return nil }

func (s *stubTable) String() string { return "stub" }

func Test_TryAnySymbol_SwallowsUntilTerminator(t *testing.T) {
	assert := assert.New(t)

	tbl := newStubTable()
	tbl.set("S0", symbol.AnySym(symbol.AnyDefault), table.Action{Type: table.Shift, State: "Sany"})
	tbl.set("Sany", symbol.Term("END"), table.Action{Type: table.Shift, State: "S1"})

	a := tree.New()
	d := New(a, tbl, Config{})

	foo := a.Alloc(symbol.Term("foo"))
	bar := a.Alloc(symbol.Term("bar"))
	end := a.Alloc(symbol.Term("END"))

	state := "S0"
	consumed := d.tryAnySymbol(foo, &state)
	assert.True(consumed, "non-terminator tokens must be swallowed")
	assert.Equal("S0", state, "state must not change while swallowing")
	assert.True(d.anyCount[foo])

	consumed = d.tryAnySymbol(bar, &state)
	assert.True(consumed)
	assert.True(d.anyCount[bar])

	consumed = d.tryAnySymbol(end, &state)
	assert.False(consumed, "the terminator itself is not swallowed")
	assert.Equal("Sany", state, "state must advance to s_any on the terminator")
}

func Test_TryAnySymbol_NoActiveRegionReturnsFalse(t *testing.T) {
	assert := assert.New(t)

	tbl := newStubTable()
	a := tree.New()
	d := New(a, tbl, Config{})

	tok := a.Alloc(symbol.Term("anything"))
	state := "S0"
	consumed := d.tryAnySymbol(tok, &state)
	assert.False(consumed)
	assert.Equal("S0", state)
}

func Test_IsNCRTerminator(t *testing.T) {
	assert := assert.New(t)

	a := tree.New()
	d := New(a, newStubTable(), Config{})

	ret := a.Alloc(symbol.Term("\n"))
	a.Get(ret).Lookup = "<return>"
	assert.True(d.isNCRTerminator(a.Get(ret)))

	newline := a.Alloc(symbol.Indent(symbol.NEWLINE))
	assert.True(d.isNCRTerminator(a.Get(newline)))

	eos := a.NewEOS(tree.Nil)
	assert.True(d.isNCRTerminator(a.Get(eos)))

	plain := a.Alloc(symbol.Term("x"))
	assert.False(d.isNCRTerminator(a.Get(plain)))
}

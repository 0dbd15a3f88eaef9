package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/symbol"
)

func Test_BuildFlat(t *testing.T) {
	assert := assert.New(t)

	a := New()
	t1 := a.Alloc(symbol.Term("a"))
	t2 := a.Alloc(symbol.Term("b"))
	root, bos, eos := BuildFlat(a, []Handle{t1, t2})

	assert.True(a.Get(bos).IsBOS())
	assert.True(a.Get(eos).IsEOS())
	assert.Equal([]Handle{bos, t1, t2, eos}, a.Get(root).Children)
	assert.Equal(t1, a.Get(bos).NextTerm)
	assert.Equal(t2, a.Get(t1).NextTerm)
	assert.Equal(eos, a.Get(t2).NextTerm)
	assert.True(a.Get(t1).Changed)
	assert.True(a.Get(t2).Changed)
}

func Test_Arena_InsertTermAfter(t *testing.T) {
	assert := assert.New(t)

	a := New()
	t1 := a.Alloc(symbol.Term("a"))
	t2 := a.Alloc(symbol.Term("b"))
	root, _, _ := BuildFlat(a, []Handle{t1, t2})

	nn := a.Alloc(symbol.Indent(symbol.NEWLINE))
	a.InsertTermAfter(t1, nn)

	assert.Equal(t1, a.Get(nn).PrevTerm)
	assert.Equal(t2, a.Get(nn).NextTerm)
	assert.Equal(nn, a.Get(t1).NextTerm)
	assert.Equal(nn, a.Get(t2).PrevTerm)
	assert.Equal(root, a.Get(nn).Parent)

	kids := a.Get(root).Children
	idx := -1
	for i, k := range kids {
		if k == nn {
			idx = i
		}
	}
	assert.Greater(idx, 0)
	assert.Equal(t1, kids[idx-1])
	assert.Equal(t2, kids[idx+1])
}

func Test_Arena_RemoveChild(t *testing.T) {
	assert := assert.New(t)

	a := New()
	t1 := a.Alloc(symbol.Term("a"))
	t2 := a.Alloc(symbol.Term("b"))
	t3 := a.Alloc(symbol.Term("c"))
	root, bos, eos := BuildFlat(a, []Handle{t1, t2, t3})

	a.RemoveChild(t2)

	assert.Equal([]Handle{bos, t1, t3, eos}, a.Get(root).Children)
	assert.Equal(t3, a.Get(t1).NextTerm)
	assert.Equal(t1, a.Get(t3).PrevTerm)
}

func Test_Equal(t *testing.T) {
	assert := assert.New(t)

	a1 := New()
	x1 := a1.Alloc(symbol.Term("a"))
	x2 := a1.Alloc(symbol.Term("b"))
	r1, _, _ := BuildFlat(a1, []Handle{x1, x2})

	a2 := New()
	y1 := a2.Alloc(symbol.Term("a"))
	y2 := a2.Alloc(symbol.Term("b"))
	r2, _, _ := BuildFlat(a2, []Handle{y1, y2})

	assert.True(Equal(a1, r1, a2, r2))

	a2.Get(y2).Symbol = symbol.Term("different")
	assert.False(Equal(a1, r1, a2, r2))
}

func Test_Log_Replay_RestoresChildrenAndSymbol(t *testing.T) {
	assert := assert.New(t)

	a := New()
	t1 := a.Alloc(symbol.Term("a"))
	t2 := a.Alloc(symbol.Term("b"))
	root, _, _ := BuildFlat(a, []Handle{t1, t2})

	before := String(a, root)

	log := NewLog(a)

	// simulate an indentation-repair-style in-place rename
	log.SaveSymbol(t1)
	a.Get(t1).Symbol = symbol.Indent(symbol.NEWLINE)

	// simulate inserting a synthetic token, undo-logged via SaveChildren
	nn := a.Alloc(symbol.Indent(symbol.INDENT))
	log.SaveChildren(root)
	a.InsertTermAfter(t1, nn)

	assert.NotEqual(before, String(a, root))

	log.Replay()

	assert.Equal(before, String(a, root))
	assert.Equal(0, log.Len())
}

func Test_Log_Reset(t *testing.T) {
	assert := assert.New(t)

	a := New()
	h := a.Alloc(symbol.Term("a"))
	log := NewLog(a)
	log.SaveState(h)
	assert.Equal(1, log.Len())
	log.Reset()
	assert.Equal(0, log.Len())
}

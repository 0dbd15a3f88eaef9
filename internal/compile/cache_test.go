package compile

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/symbol"
)

func Test_CacheKey_Deterministic(t *testing.T) {
	assert := assert.New(t)

	k1 := CacheKey("E -> E + T | T ;", true)
	k2 := CacheKey("E -> E + T | T ;", true)
	assert.Equal(k1, k2)

	assert.NotEqual(k1, CacheKey("E -> E + T | T ;", false), "whitespaces flag must affect the key")
	assert.NotEqual(k1, CacheKey("different grammar", true), "grammar source must affect the key")
}

func Test_CachePath(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(filepath.Join("/tmp/cache", "abc123.gartbl"), CachePath("/tmp/cache", "abc123"))
}

func Test_SaveCache_LoadCache_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	g := dragonGrammar()
	tbl, _, err := Build(g, false)
	assert.NoError(err)

	path := filepath.Join(t.TempDir(), "test.gartbl")
	assert.NoError(SaveCache(path, tbl))

	loaded, err := LoadCache(path, g)
	assert.NoError(err)

	assert.Equal(tbl.Initial(), loaded.Initial(), "Initial() must survive the round trip")

	// Spot-check a handful of ACTION/GOTO cells agree between the original
	// and the reloaded table.
	checkSyms := []symbol.Symbol{
		symbol.Term("id"), symbol.Term("+"), symbol.Term("*"),
		symbol.Term("("), symbol.Term(")"), symbol.FinishSymbol(),
	}
	for _, st := range []string{"0", "1", "2", "3", "4"} {
		for _, sym := range checkSyms {
			want := tbl.Action(st, sym)
			got := loaded.Action(st, sym)
			assert.Equal(want.Type, got.Type, "state %s symbol %s", st, sym.String())
			assert.Equal(want.State, got.State, "state %s symbol %s", st, sym.String())
		}
		for _, nt := range []string{"E", "T", "F"} {
			wantNext, wantOK := tbl.Goto(st, nt)
			gotNext, gotOK := loaded.Goto(st, nt)
			assert.Equal(wantOK, gotOK, "state %s nonterminal %s", st, nt)
			assert.Equal(wantNext, gotNext, "state %s nonterminal %s", st, nt)
		}
	}
}

func Test_LoadCache_RejectsFormatVersionMismatch(t *testing.T) {
	assert := assert.New(t)

	g := dragonGrammar()
	tbl, _, err := Build(g, false)
	assert.NoError(err)

	path := filepath.Join(t.TempDir(), "test.gartbl")
	assert.NoError(SaveCache(path, tbl))

	// overwrite the cache with an otherwise well-formed blob that carries a
	// different format version; LoadCache must refuse it.
	f, err := os.Create(path)
	assert.NoError(err)
	assert.NoError(gob.NewEncoder(f).Encode(blob{FormatVersion: cacheFormatVersion + 1}))
	assert.NoError(f.Close())

	_, err = LoadCache(path, g)
	assert.Error(err)
}

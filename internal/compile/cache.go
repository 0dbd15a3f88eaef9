// Cache memoizes a built table.Table to disk, keyed by a grammar hash, the
// way spec.md §6 describes the teacher's pickled state-graph/syntax-table
// memo — but format-versioned and gob-encoded instead of pickled (spec.md
// §9 REDESIGN FLAGS: "the on-disk memo should be replaced with a
// format-versioned binary blob; mismatched versions invalidate the
// cache"). Grounded on tunaq's TOML-based persistence conventions
// (internal/config) for the "open read-then-write, no locking" discipline
// spec.md §6 calls out as the caller's responsibility.
package compile

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/dekarrin/gartree/internal/grammar"
	"github.com/dekarrin/gartree/internal/symbol"
	"github.com/dekarrin/gartree/internal/table"
)

// cacheFormatVersion is bumped whenever the on-disk shape changes; Load
// refuses to use a blob written by a different version.
const cacheFormatVersion = 1

// CacheKey computes <hash(grammarSource) XOR hash(whitespaces)>, the key
// spec.md §6 names for the persisted artefact filename.
func CacheKey(grammarSource string, whitespaces bool) string {
	gh := fnv.New64a()
	gh.Write([]byte(grammarSource))
	wh := fnv.New64a()
	if whitespaces {
		wh.Write([]byte{1})
	} else {
		wh.Write([]byte{0})
	}
	return fmt.Sprintf("%x", gh.Sum64()^wh.Sum64())
}

// CachePath returns <cacheDir>/<key>.gartbl.
func CachePath(cacheDir, key string) string {
	return filepath.Join(cacheDir, key+".gartbl")
}

type cachedAction struct {
	Type      table.ActionType
	State     string
	ProdIndex int // index into the augmented grammar's Productions(); -1 unless Reduce
	Symbol    string
}

// blob is the on-disk shape. Productions are not stored directly: a
// Production can carry an Annotation function value, which gob cannot
// encode, so only the winning production's index is persisted and it is
// rehydrated against the caller's live (annotated) grammar on Load.
type blob struct {
	FormatVersion int
	Start         int
	NumStates     int
	Action        []map[string]cachedAction
	GotoTab       []map[string]string
	AllTerms      []symbol.Symbol
	NonTerms      []string
}

// SaveCache writes tbl (which must be a *slrTable, i.e. something Build
// returned) to path.
func SaveCache(path string, tbl table.Table) error {
	st, ok := tbl.(*slrTable)
	if !ok {
		return fmt.Errorf("compile: SaveCache: table was not built by compile.Build")
	}

	b := blob{
		FormatVersion: cacheFormatVersion,
		Start:         st.start,
		NumStates:     st.numStates,
		Action:        make([]map[string]cachedAction, len(st.action)),
		GotoTab:       st.gotoTab,
		AllTerms:      st.allTerms,
		NonTerms:      st.nonTerms,
	}
	for i, row := range st.action {
		out := make(map[string]cachedAction, len(row))
		for k, act := range row {
			pi := -1
			if act.Type == table.Reduce {
				pi = indexOfProduction(st.gPrime, act.Production)
			}
			out[k] = cachedAction{Type: act.Type, State: act.State, ProdIndex: pi, Symbol: act.Symbol}
		}
		b.Action[i] = out
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(b)
}

// LoadCache reads a table previously written by SaveCache, rehydrating
// Reduce actions' Production (including its live Annotation) from g, which
// must be the same grammar (already g.Augmented() internally) that will be
// used to parse. A format-version mismatch or any decode error is reported
// via the returned error so the caller falls back to Build.
func LoadCache(path string, g *grammar.Grammar) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b blob
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, err
	}
	if b.FormatVersion != cacheFormatVersion {
		return nil, fmt.Errorf("compile: cache format version %d, want %d", b.FormatVersion, cacheFormatVersion)
	}

	aug := g.Augmented()
	prods := aug.Productions()

	st := &slrTable{
		gPrime:    aug,
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		start:     b.Start,
		numStates: b.NumStates,
		nonTerms:  b.NonTerms,
		allTerms:  b.AllTerms,
		gotoTab:   b.GotoTab,
		action:    make([]map[string]table.Action, len(b.Action)),
	}
	for i, row := range b.Action {
		out := make(map[string]table.Action, len(row))
		for k, ca := range row {
			act := table.Action{Type: ca.Type, State: ca.State, Symbol: ca.Symbol}
			if ca.Type == table.Reduce {
				if ca.ProdIndex < 0 || ca.ProdIndex >= len(prods) {
					return nil, fmt.Errorf("compile: cache references production %d out of range", ca.ProdIndex)
				}
				act.Production = prods[ca.ProdIndex]
			}
			out[k] = act
		}
		st.action[i] = out
	}

	return st, nil
}

func indexOfProduction(g *grammar.Grammar, p table.Production) int {
	for i, cand := range g.Productions() {
		if cand.Equal(p) {
			return i
		}
	}
	return -1
}

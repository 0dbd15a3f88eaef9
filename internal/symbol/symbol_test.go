package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Symbol_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		a, b   Symbol
		expect bool
	}{
		{"same terminal", Term("id"), Term("id"), true},
		{"different terminal name", Term("id"), Term("num"), false},
		{"terminal vs nonterminal of same name", Term("Expr"), NonTerm("Expr"), false},
		{"finish symbols", FinishSymbol(), FinishSymbol(), true},
		{"any variants differ", AnySym(AnyDefault), AnySym(AnyNCR), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.a.Equal(tc.b))
		})
	}
}

func Test_Symbol_IsTerminal(t *testing.T) {
	testCases := []struct {
		name   string
		sym    Symbol
		expect bool
	}{
		{"terminal", Term("id"), true},
		{"nonterminal", NonTerm("Expr"), false},
		{"finish", FinishSymbol(), true},
		{"epsilon", Eps(), true},
		{"indentation", Indent(NEWLINE), true},
		{"magic", MagicSymbol(), true},
		{"any", AnySym(AnyDefault), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.sym.IsTerminal())
		})
	}
}

func Test_Symbol_String(t *testing.T) {
	testCases := []struct {
		name   string
		sym    Symbol
		expect string
	}{
		{"terminal", Term("id"), "id"},
		{"finish", FinishSymbol(), "$"},
		{"epsilon", Eps(), "ε"},
		{"any default", AnySym(AnyDefault), "AnySymbol"},
		{"any ncr", AnySym(AnyNCR), `AnySymbol("@ncr")`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.sym.String())
		})
	}
}

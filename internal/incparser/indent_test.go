package incparser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/gartree/internal/symbol"
)

func Test_IndentationTokens(t *testing.T) {
	testCases := []struct {
		name       string
		prev       []int
		width      int
		expectToks []symbol.IndentKind
		expectNew  []int
	}{
		{
			name:       "first line no indent",
			prev:       nil,
			width:      0,
			expectToks: []symbol.IndentKind{symbol.NEWLINE},
			expectNew:  nil,
		},
		{
			name:       "deeper indent pushes",
			prev:       []int{0},
			width:      4,
			expectToks: []symbol.IndentKind{symbol.NEWLINE, symbol.INDENT},
			expectNew:  []int{0, 4},
		},
		{
			name:       "same width is a plain newline",
			prev:       []int{0, 4},
			width:      4,
			expectToks: []symbol.IndentKind{symbol.NEWLINE},
			expectNew:  []int{0, 4},
		},
		{
			name:       "dedent to a known level",
			prev:       []int{0, 4, 8},
			width:      4,
			expectToks: []symbol.IndentKind{symbol.NEWLINE, symbol.DEDENT},
			expectNew:  []int{0, 4},
		},
		{
			name:       "dedent past all levels",
			prev:       []int{0, 4, 8},
			width:      0,
			expectToks: []symbol.IndentKind{symbol.NEWLINE, symbol.DEDENT, symbol.DEDENT},
			expectNew:  []int{0},
		},
		{
			name:       "dedent to an unknown level is unbalanced",
			prev:       []int{0, 4, 8},
			width:      2,
			expectToks: []symbol.IndentKind{symbol.NEWLINE, symbol.DEDENT, symbol.DEDENT, symbol.UNBALANCED},
			expectNew:  []int{0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			toks, newStack := indentationTokens(tc.prev, tc.width)
			assert.Equal(tc.expectToks, toks)
			assert.Equal(tc.expectNew, newStack)
		})
	}
}

func Test_WhitespaceWidth(t *testing.T) {
	testCases := []struct {
		name   string
		ws     string
		expect int
	}{
		{"plain spaces", "    ", 4},
		{"single tab", "\t", 8},
		{"tab then two spaces", "\t  ", 10},
		{"two tabs", "\t\t", 16},
		{"three spaces then tab rounds to next stop", "   \t", 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, whitespaceWidth(tc.ws))
		})
	}
}

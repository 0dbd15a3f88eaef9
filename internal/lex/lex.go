// Package lex is a regex-driven lexer template (spec.md's PACKAGE LAYOUT),
// adapted from ictiobus/lex/lex.go's lexerTemplate/AddClass/AddPattern
// shape: patterns are registered per named state, and Lex scans an input
// string into a []gtoken.Token by trying each state's patterns in
// registration order and taking the longest match, exactly as
// ictiobus/lex.go's NewLexer/AddClass/AddPattern/Lex do, but driving
// gartree's own gtoken.Token rather than ictiobus/types.Token and returning
// a batch slice rather than a lazy types.TokenStream — this module never
// streams from an io.Reader, it only ever lexes whole documents or edited
// regions held in memory, so the bufio/TeeReader plumbing of
// ictiobus/lex/reader.go has no caller here (spec.md §1's lexing Non-goal:
// this package is a reusable template for callers who need one, not a
// lexer gartree itself requires for its own document model).
package lex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/gartree/internal/gtoken"
)

type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer is a template: patterns/classes are registered once via AddClass/
// AddPattern and then reused across any number of Lex calls.
type Lexer struct {
	startState string
	patterns   map[string][]patAct
	classes    map[string]map[string]gtoken.Class
}

// NewLexer returns an empty Lexer template that begins lexing in
// startState.
func NewLexer(startState string) *Lexer {
	return &Lexer{
		startState: startState,
		patterns:   map[string][]patAct{},
		classes:    map[string]map[string]gtoken.Class{},
	}
}

// AddClass registers cl as lexable while forState is active. If a class
// with the same ID was already added for forState, it is replaced.
func (lx *Lexer) AddClass(cl gtoken.Class, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]gtoken.Class{}
	}
	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

// AddPattern compiles pat and adds it, in order, to the patterns tried
// while forState is active. Patterns that scan into a token class
// (LexAs/LexAndSwapState) must name a class already registered via
// AddClass for forState.
func (lx *Lexer) AddPattern(pat string, action Action, forState string) error {
	stateClasses := lx.classes[forState]
	if action.Type == ActionScan || action.Type == ActionScanAndState {
		if _, ok := stateClasses[action.ClassID]; !ok {
			return fmt.Errorf("lex: %q is not a defined token class in state %q; call AddClass first", action.ClassID, forState)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("lex: action shifts state but names no target state")
		}
	}

	compiled, err := regexp.Compile("^(?:" + pat + ")")
	if err != nil {
		return fmt.Errorf("lex: cannot compile regex %q: %w", pat, err)
	}

	lx.patterns[forState] = append(lx.patterns[forState], patAct{src: pat, pat: compiled, act: action})
	return nil
}

// Lex scans input from left to right, applying the longest matching
// pattern registered for the current state at each position (ties broken
// by registration order, i.e. the first pattern tried). A position where no
// pattern of the current state matches is a lexing error.
func (lx *Lexer) Lex(input string) ([]gtoken.Token, error) {
	var toks []gtoken.Token

	state := lx.startState
	lineNum := 1
	linePos := 1
	lineStart := 0

	for pos := 0; pos < len(input); {
		statePatterns := lx.patterns[state]
		stateClasses := lx.classes[state]

		best := -1
		var bestMatch string
		for i, pa := range statePatterns {
			loc := pa.pat.FindStringIndex(input[pos:])
			if loc == nil || loc[0] != 0 {
				continue
			}
			m := input[pos : pos+loc[1]]
			if len(m) > len(bestMatch) {
				best = i
				bestMatch = m
			}
		}

		if best < 0 {
			return toks, fmt.Errorf("lex: no pattern matches input at line %d, position %d (state %q)", lineNum, linePos, state)
		}
		if len(bestMatch) == 0 {
			return toks, fmt.Errorf("lex: pattern %q produced a zero-width match at line %d, position %d (state %q)", statePatterns[best].src, lineNum, linePos, state)
		}

		pa := statePatterns[best]
		lineEnd := strings.IndexByte(input[lineStart:], '\n')
		fullLine := input[lineStart:]
		if lineEnd >= 0 {
			fullLine = input[lineStart : lineStart+lineEnd]
		}

		if pa.act.Type == ActionScan || pa.act.Type == ActionScanAndState {
			toks = append(toks, gtoken.Token{
				Class:    stateClasses[pa.act.ClassID],
				Lexeme:   bestMatch,
				Line:     lineNum,
				LinePos:  linePos,
				FullLine: fullLine,
			})
		}
		if pa.act.Type == ActionState || pa.act.Type == ActionScanAndState {
			state = pa.act.State
		}

		for i, r := range bestMatch {
			if r == '\n' {
				lineNum++
				linePos = 1
				lineStart = pos + i + 1
			} else {
				linePos++
			}
		}
		pos += len(bestMatch)
	}

	return toks, nil
}

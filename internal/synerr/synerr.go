// Package synerr defines the two error kinds the incremental parser core
// surfaces to callers (spec.md §7): ParseError for an ordinary ACTION-table
// miss outside of validating mode, and InternalError for a corrupt syntax
// table (undefined GOTO on reduce, or a stack underflow). Grounded on
// tqerrors' private-struct-plus-constructor shape (internal/tqerrors/
// tqerrors.go's interpreterError/Interpreter) and on the call-site pattern
// of ictiobus's icterrors.NewSyntaxErrorFromToken(msg, tok).FullMessage()
// (internal/ictiobus/parse/lr.go, ll1.go); the icterrors package itself was
// never present in the retrieved pack, only these call sites, so this is a
// fresh implementation matching their shape.
package synerr

import (
	"fmt"
	"strings"
)

// ParseError reports that ACTION[state, lookahead] returned ∅ while the
// driver was not in validating mode (spec.md §7). By the time this is
// constructed the undo log has already been replayed and the tree restored;
// ParseError only carries the diagnostic.
type parseError struct {
	msg      string
	state    string
	lookahead string
	expected []string
}

func (e *parseError) Error() string {
	return e.msg
}

// State returns the LR state the failing lookahead was rejected from.
func (e *parseError) State() string {
	return e.state
}

// Lookahead returns the lexeme or symbol name of the token that triggered
// the error.
func (e *parseError) Lookahead() string {
	return e.lookahead
}

// Expected returns the symbols that would have been accepted in State(),
// for building "expected ..." diagnostics (spec.md §7's get_expected_symbols).
func (e *parseError) Expected() []string {
	return e.expected
}

// FullMessage renders a one-line diagnostic combining the lookahead and the
// expected-symbol set, matching the icterrors.FullMessage() call-site shape.
func (e *parseError) FullMessage() string {
	if len(e.expected) == 0 {
		return e.msg
	}
	return fmt.Sprintf("%s (expected %s)", e.msg, textList(e.expected))
}

// NewParseError builds a ParseError for a failing lookahead.
func NewParseError(state, lookahead string, expected []string) error {
	return &parseError{
		msg:       fmt.Sprintf("unexpected %q in state %s", lookahead, state),
		state:     state,
		lookahead: lookahead,
		expected:  expected,
	}
}

// internalError signals a corrupt syntax table: a Reduce whose GOTO is
// undefined, or a stack underflow (spec.md §7). These are fatal and are
// raised to the caller without rollback guarantees, unlike ParseError.
type internalError struct {
	msg  string
	wrap error
}

func (e *internalError) Error() string {
	return e.msg
}

func (e *internalError) Unwrap() error {
	return e.wrap
}

// NewInternalError builds an InternalError from a format string.
func NewInternalError(format string, a ...interface{}) error {
	return &internalError{msg: fmt.Sprintf(format, a...)}
}

// WrapInternalError builds an InternalError that wraps a lower-level cause.
func WrapInternalError(cause error, format string, a ...interface{}) error {
	return &internalError{msg: fmt.Sprintf(format, a...), wrap: cause}
}

// IsParseError reports whether err is a ParseError (as opposed to an
// InternalError or some other error).
func IsParseError(err error) bool {
	_, ok := err.(*parseError)
	return ok
}

// IsInternalError reports whether err is an InternalError.
func IsInternalError(err error) bool {
	_, ok := err.(*internalError)
	return ok
}

// ExpectedOf extracts the Expected() slice from err if it is a ParseError,
// or nil otherwise.
func ExpectedOf(err error) []string {
	if pe, ok := err.(*parseError); ok {
		return pe.expected
	}
	return nil
}

// textList joins items with an Oxford comma, the way tunaq's
// util.MakeTextList renders "expected ..." lists.
func textList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		out := append([]string(nil), items...)
		out[len(out)-1] = "and " + out[len(out)-1]
		return strings.Join(out, ", ")
	}
}

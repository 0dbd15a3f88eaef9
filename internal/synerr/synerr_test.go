package synerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseError(t *testing.T) {
	assert := assert.New(t)

	err := NewParseError("4", "+", []string{"id", "("})

	assert.True(IsParseError(err))
	assert.False(IsInternalError(err))
	assert.ElementsMatch([]string{"id", "("}, ExpectedOf(err))

	var pe *parseError
	assert.True(errors.As(err, &pe))
	assert.Equal("4", pe.State())
	assert.Equal("+", pe.Lookahead())
}

func Test_InternalError(t *testing.T) {
	assert := assert.New(t)

	err := NewInternalError("stack underflow during reduce of %s", "Expr")

	assert.True(IsInternalError(err))
	assert.False(IsParseError(err))
	assert.Nil(ExpectedOf(err))
}

func Test_WrapInternalError(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("GOTO[3, Expr] undefined")
	err := WrapInternalError(cause, "reduce of %s failed", "Expr")

	assert.True(IsInternalError(err))
	assert.ErrorIs(err, cause)
}

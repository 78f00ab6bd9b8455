package shquote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleWrapsPlainString(t *testing.T) {
	assert.Equal(t, "'hello'", Single("hello"))
}

func TestSingleEscapesEmbeddedQuote(t *testing.T) {
	assert.Equal(t, `'it'"'"'s'`, Single("it's"))
}

func TestSingleEmptyString(t *testing.T) {
	assert.Equal(t, "''", Single(""))
}

func TestJoinQuotesEveryArg(t *testing.T) {
	assert.Equal(t, "'a' 'b c'", Join("a", "b c"))
}

func TestJoinNoArgs(t *testing.T) {
	assert.Equal(t, "", Join())
}

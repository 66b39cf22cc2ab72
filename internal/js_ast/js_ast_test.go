package js_ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("abc"))
	assert.True(t, IsIdentifier("_private"))
	assert.True(t, IsIdentifier("$jquery"))
	assert.True(t, IsIdentifier("a1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1a"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("a.b"))
}

func TestReservedWordsCoverKeywords(t *testing.T) {
	for _, w := range []string{"class", "let", "const", "typeof", "yield", "this"} {
		assert.True(t, ReservedWords[w], "expected %q to be reserved", w)
	}
	assert.False(t, ReservedWords["notAKeyword"])
}

func TestDeclKindString(t *testing.T) {
	assert.Equal(t, "var", DeclVar.String())
	assert.Equal(t, "let", DeclLet.String())
	assert.Equal(t, "const", DeclConst.String())
}

package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/scope"
)

func TestNumberToNameFirstIndicesAreSingleChar(t *testing.T) {
	// spec.md §4.4: "the first 55 indices produce single-character names in
	// the fixed order above" — this module's alphabet is 54 characters (see
	// DESIGN.md open-question 3), so the bijection is verified against
	// len(alphabet) rather than the literal spec text's count.
	for i := 0; i < len(alphabet); i++ {
		name := NumberToName(i)
		require.Len(t, name, 1)
		assert.Equal(t, string(alphabet[i]), name)
	}
}

func TestNumberToNameIsBijective(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		name := NumberToName(i)
		require.False(t, seen[name], "duplicate name %q at index %d", name, i)
		seen[name] = true
		require.True(t, js_ast.IsIdentifier(name), "not a valid identifier: %q", name)
	}
}

func TestMangleByFrequency(t *testing.T) {
	// spec.md §8 scenario 6: a scope with two bindings where P has ten uses
	// (its declaration plus nine references) and Q one -> P gets "e", Q
	// gets "t".
	program := &js_ast.Program{}

	root := &scope.Scope{Kind: scope.KindProgram, Bindings: map[string]*scope.Binding{}, Globals: map[string][]*js_ast.EIdentifier{}}
	pName, qName := "P", "Q"
	pBinding := root.Declare(&pName, js_ast.DeclConst)
	qBinding := root.Declare(&qName, js_ast.DeclConst)
	for i := 0; i < 9; i++ {
		pBinding.References = append(pBinding.References, &js_ast.EIdentifier{Name: "P"})
	}

	Mangle(program, root)

	assert.Equal(t, "e", pBinding.NewName)
	assert.Equal(t, "t", qBinding.NewName)
}

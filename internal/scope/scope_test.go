package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/tsparse"
)

func parseJS(t *testing.T, src string) *js_ast.Program {
	t.Helper()
	program, err := tsparse.Parse(context.Background(), []byte(src), tsparse.DialectJS)
	require.NoError(t, err)
	return program
}

func TestAnalyzeTopLevelBindingReferenceCounts(t *testing.T) {
	program := parseJS(t, `let x=1;x=x+1;console.log(x)`)
	root := Analyze(program)

	b := root.Bindings["x"]
	require.NotNil(t, b)
	// one write (x=x+1 LHS) and two reads (x+1 RHS, console.log(x) arg)
	assert.Len(t, b.Violations, 1)
	assert.Len(t, b.References, 2)
	assert.Equal(t, 1+2+1, b.TotalUses())
}

func TestAnalyzeUnresolvedIdentifierIsGlobal(t *testing.T) {
	program := parseJS(t, `console.log(window)`)
	root := Analyze(program)

	assert.Nil(t, root.Lookup("window"))
	refs, ok := root.Globals["window"]
	require.True(t, ok)
	assert.Len(t, refs, 1)
	// "console" is also an unresolved global, by itself (the member
	// expression's object).
	assert.Contains(t, root.Globals, "console")
}

func TestAnalyzeVarIsHoistedToFunctionScope(t *testing.T) {
	program := parseJS(t, `function f(){if(true){var x=1}return x}`)
	root := Analyze(program)

	require.Len(t, root.Children, 1)
	fnScope := root.Children[0]
	b := fnScope.Bindings["x"]
	require.NotNil(t, b, "var x should be hoisted to the function scope, not the inner if-block")
	assert.GreaterOrEqual(t, len(b.References), 1)
}

func TestAnalyzeLetIsBlockScoped(t *testing.T) {
	program := parseJS(t, `if(true){let y=1}`)
	root := Analyze(program)

	assert.Nil(t, root.Bindings["y"], "let should not leak to the enclosing scope")
	require.Len(t, root.Children, 1)
	assert.NotNil(t, root.Children[0].Bindings["y"])
}

func TestScopeIsAncestorOf(t *testing.T) {
	program := parseJS(t, `if(true){if(true){let z=1}}`)
	root := Analyze(program)

	require.Len(t, root.Children, 1)
	outer := root.Children[0]
	require.Len(t, outer.Children, 1)
	inner := outer.Children[0]

	assert.True(t, root.IsAncestorOf(inner))
	assert.True(t, root.IsAncestorOf(root))
	assert.False(t, inner.IsAncestorOf(root))
}

func TestDeclareReusesExistingBinding(t *testing.T) {
	s := newScope(KindProgram, nil)
	name := "x"
	a := s.Declare(&name, js_ast.DeclVar)
	b := s.Declare(&name, js_ast.DeclVar)
	assert.Same(t, a, b)
}

package constlet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/js_printer"
	"github.com/mahdisbetter/niu/internal/tsparse"
)

func parseJS(t *testing.T, src string) *js_ast.Program {
	t.Helper()
	program, err := tsparse.Parse(context.Background(), []byte(src), tsparse.DialectJS)
	require.NoError(t, err)
	return program
}

func TestRewriteTopLevelConst(t *testing.T) {
	program := parseJS(t, `const x=1,y=2;let z=3;var w=4;`)
	Rewrite(program)
	out := js_printer.Print(program)
	assert.NotContains(t, out, "const")
	assert.Contains(t, out, "let x=1,y=2")
	assert.Contains(t, out, "let z=3")
	assert.Contains(t, out, "var w=4")
}

func TestRewriteNestedConst(t *testing.T) {
	program := parseJS(t, `function f(){const a=1;if(true){const b=2}}`)
	Rewrite(program)
	out := js_printer.Print(program)
	assert.NotContains(t, out, "const")
	assert.Contains(t, out, "let a=1")
	assert.Contains(t, out, "let b=2")
}

func TestRewriteForOfConstHead(t *testing.T) {
	program := parseJS(t, `for(const x of y){console.log(x)}`)
	Rewrite(program)
	out := js_printer.Print(program)
	assert.NotContains(t, out, "const")
	assert.Contains(t, out, "for(let x of y)")
}

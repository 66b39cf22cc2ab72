package js_printer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/tsparse"
)

func expectPrinted(t *testing.T, dialect tsparse.Dialect, contents string, expected string) {
	t.Helper()
	program, err := tsparse.Parse(context.Background(), []byte(contents), dialect)
	require.NoError(t, err)
	assert.Equal(t, expected, Print(program))
}

func TestPrintBinaryPrecedence(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "a+b*c", "a+b*c;")
	expectPrinted(t, tsparse.DialectJS, "(a+b)*c", "(a+b)*c;")
	expectPrinted(t, tsparse.DialectJS, "a*(b+c)", "a*(b+c);")
}

func TestPrintCallAndMember(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "a.b.c()", "a.b.c();")
	expectPrinted(t, tsparse.DialectJS, "a[b][c]", "a[b][c];")
}

func TestPrintStringQuoting(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, `let x="hello"`, `let x="hello";`)
}

func TestPrintArrowFunction(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "const f=(a,b)=>a+b", "const f=(a,b)=>a+b;")
}

func TestPrintForOf(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "for(const x of y){console.log(x)}", "for(const x of y){console.log(x);}")
}

func TestPrintClassWithMethod(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "class A{run(){return 1}}", "class A{run(){return 1;}}")
}

func TestPrintExportNamed(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "const x=1;export{x}", "const x=1;export{x};")
}

func TestPrintIdentifierSpacing(t *testing.T) {
	// the printer must insert a space between two adjacent word tokens
	// ("return" and the identifier) even in fully compact output.
	expectPrinted(t, tsparse.DialectJS, "function f(){return x}", "function f(){return x;}")
}

func TestPrintTernary(t *testing.T) {
	expectPrinted(t, tsparse.DialectJS, "a?b:c", "a?b:c;")
}

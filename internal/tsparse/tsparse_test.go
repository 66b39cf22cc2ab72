package tsparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/js_ast"
)

func TestParseReportsSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("const ="), DialectJS)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseNumericRadixForms(t *testing.T) {
	program, err := Parse(context.Background(), []byte("const a=0xff,b=0o17,c=0b101,d=1_000"), DialectJS)
	require.NoError(t, err)
	decl := program.Body[0].Data.(*js_ast.SDecl)
	require.Len(t, decl.Declarators, 4)

	values := make([]float64, 4)
	for i, d := range decl.Declarators {
		values[i] = d.Value.Data.(*js_ast.ENumber).Value
	}
	assert.Equal(t, []float64{255, 15, 5, 1000}, values)
}

func TestParseDestructuringBinding(t *testing.T) {
	program, err := Parse(context.Background(), []byte("const {a,b:c,...rest}=obj"), DialectJS)
	require.NoError(t, err)
	decl := program.Body[0].Data.(*js_ast.SDecl)
	obj, ok := decl.Declarators[0].Binding.(*js_ast.BObject)
	require.True(t, ok)
	require.Len(t, obj.Properties, 3)
	assert.True(t, obj.Properties[2].IsSpread)
}

func TestParseArrayDestructuringWithDefault(t *testing.T) {
	program, err := Parse(context.Background(), []byte("const [x=1,y]=arr"), DialectJS)
	require.NoError(t, err)
	decl := program.Body[0].Data.(*js_ast.SDecl)
	arr, ok := decl.Declarators[0].Binding.(*js_ast.BArray)
	require.True(t, ok)
	require.Len(t, arr.Items, 2)
	assert.NotNil(t, arr.Items[0].Default.Data)
}

func TestParseOptionalChaining(t *testing.T) {
	program, err := Parse(context.Background(), []byte("a?.b?.()"), DialectJS)
	require.NoError(t, err)
	expr := program.Body[0].Data.(*js_ast.SExpr).Value
	call, ok := expr.Data.(*js_ast.ECall)
	require.True(t, ok)
	assert.True(t, call.OptionalChain)
}

func TestParseCompoundAssignmentLowersToBinary(t *testing.T) {
	program, err := Parse(context.Background(), []byte("x+=1"), DialectJS)
	require.NoError(t, err)
	expr := program.Body[0].Data.(*js_ast.SExpr).Value
	bin, ok := expr.Data.(*js_ast.EBinary)
	require.True(t, ok)
	assert.Equal(t, js_ast.BinOpAssign, bin.Op)
	rhs, ok := bin.Right.Data.(*js_ast.EBinary)
	require.True(t, ok)
	assert.Equal(t, js_ast.BinOpAdd, rhs.Op)
}

func TestParseTemplateLiteralParts(t *testing.T) {
	program, err := Parse(context.Background(), []byte("`a${x}b${y}c`"), DialectJS)
	require.NoError(t, err)
	expr := program.Body[0].Data.(*js_ast.SExpr).Value
	tmpl, ok := expr.Data.(*js_ast.ETemplate)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, tmpl.Parts)
	require.Len(t, tmpl.Exprs, 2)
}

func TestParseJSXSelfClosingElement(t *testing.T) {
	program, err := Parse(context.Background(), []byte("const el=<Widget name=\"x\"/>"), DialectTSX)
	require.NoError(t, err)
	decl := program.Body[0].Data.(*js_ast.SDecl)
	jsx, ok := decl.Declarators[0].Value.Data.(*js_ast.EJSXElement)
	require.True(t, ok)
	assert.Equal(t, "Widget", jsx.TagName)
	require.Len(t, jsx.Attrs, 1)
	assert.Equal(t, "name", jsx.Attrs[0].Name)
}

func TestParseStringEscapes(t *testing.T) {
	program, err := Parse(context.Background(), []byte(`"a\nb\tc"`), DialectJS)
	require.NoError(t, err)
	expr := program.Body[0].Data.(*js_ast.SExpr).Value
	str, ok := expr.Data.(*js_ast.EString)
	require.True(t, ok)
	assert.Equal(t, "a\nb\tc", str.Value)
}

func TestParseTypeOnlyDeclarationsAreDropped(t *testing.T) {
	program, err := Parse(context.Background(), []byte("interface Foo{x:number}\nconst y=1"), DialectTS)
	require.NoError(t, err)
	require.Len(t, program.Body, 1)
	_, ok := program.Body[0].Data.(*js_ast.SDecl)
	assert.True(t, ok)
}

func TestParseClassWithGetterAndStaticField(t *testing.T) {
	program, err := Parse(context.Background(), []byte("class A{static count=0;get value(){return 1}}"), DialectJS)
	require.NoError(t, err)
	class := program.Body[0].Data.(*js_ast.SClass).Class
	require.Len(t, class.Members, 2)
	assert.Equal(t, js_ast.ClassMemberField, class.Members[0].Kind)
	assert.True(t, class.Members[0].IsStatic)
	assert.Equal(t, js_ast.ClassMemberGetter, class.Members[1].Kind)
}

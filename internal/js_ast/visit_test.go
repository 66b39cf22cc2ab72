package js_ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkCountsIdentifiers(t *testing.T) {
	program := &Program{Body: []Stmt{
		{Data: &SExpr{Value: Expr{Data: &EBinary{
			Op:    BinOpAdd,
			Left:  Expr{Data: &EIdentifier{Name: "a"}},
			Right: Expr{Data: &EIdentifier{Name: "b"}},
		}}}},
	}}

	count := 0
	Walk(program, &Visitor{
		Expr: func(e Expr) Expr {
			if _, ok := e.Data.(*EIdentifier); ok {
				count++
			}
			return e
		},
	})
	assert.Equal(t, 2, count)
}

func TestWalkRewritesExpr(t *testing.T) {
	program := &Program{Body: []Stmt{
		{Data: &SReturn{Value: Expr{Data: &EIdentifier{Name: "old"}}}},
	}}

	Walk(program, &Visitor{
		Expr: func(e Expr) Expr {
			if id, ok := e.Data.(*EIdentifier); ok && id.Name == "old" {
				return Expr{Data: &EIdentifier{Name: "new"}}
			}
			return e
		},
	})

	ret := program.Body[0].Data.(*SReturn)
	assert.Equal(t, "new", ret.Value.Data.(*EIdentifier).Name)
}

// Package constlet implements spec.md §4.5: the opt-in, single-purpose
// const→let rewriter. It is deliberately the simplest pass in the module —
// no profit model, no scope analysis — matching how the teacher's own
// smallest AST passes (e.g. js_ast_helpers.go's tree-shaking annotation
// strip) are a handful of lines with a single field write.
package constlet

import "github.com/mahdisbetter/niu/internal/js_ast"

// Rewrite visits every variable declaration in program and turns `const`
// into `let`. A for-in/for-of declaration head (SForIn.Decl) is not a Stmt of
// its own, so the Stmt hook rewrites it through its enclosing SForIn
// statement, wherever the walk reaches that statement (function, arrow and
// class-member bodies included).
func Rewrite(program *js_ast.Program) {
	v := &js_ast.Visitor{
		Stmt: func(s js_ast.Stmt) js_ast.Stmt {
			switch d := s.Data.(type) {
			case *js_ast.SDecl:
				if d.Kind == js_ast.DeclConst {
					d.Kind = js_ast.DeclLet
				}
			case *js_ast.SForIn:
				if d.Decl != nil && d.Decl.Kind == js_ast.DeclConst {
					d.Decl.Kind = js_ast.DeclLet
				}
			}
			return s
		},
	}
	js_ast.Walk(program, v)
	rewriteForIn(program.Body)
}

// rewriteForIn handles for-in/for-of declaration heads, which visit.go's
// Visitor does not walk into because spec.md §9 keeps SForIn.Decl out of
// the generic rewrite hook (it has no initializer expression to visit, the
// usual reason a pass would want the hook at all) — see internal/js_ast/visit.go.
func rewriteForIn(list []js_ast.Stmt) {
	for i := range list {
		walkForIn(&list[i])
	}
}

func walkForIn(s *js_ast.Stmt) {
	if s == nil || s.Data == nil {
		return
	}
	switch d := s.Data.(type) {
	case *js_ast.SForIn:
		if d.Decl != nil && d.Decl.Kind == js_ast.DeclConst {
			d.Decl.Kind = js_ast.DeclLet
		}
		walkForIn(&d.Body)
	case *js_ast.SIf:
		walkForIn(&d.Yes)
		if d.No != nil {
			walkForIn(d.No)
		}
	case *js_ast.SBlock:
		rewriteForIn(d.Stmts)
	case *js_ast.SWhile:
		walkForIn(&d.Body)
	case *js_ast.SDoWhile:
		walkForIn(&d.Body)
	case *js_ast.SFor:
		if d.Init != nil {
			walkForIn(d.Init)
		}
		walkForIn(&d.Body)
	case *js_ast.STry:
		rewriteForIn(d.Body)
		if d.Catch != nil {
			rewriteForIn(d.Catch.Body)
		}
		if d.Finally != nil {
			rewriteForIn(d.Finally)
		}
	case *js_ast.SSwitch:
		for i := range d.Cases {
			rewriteForIn(d.Cases[i].Body)
		}
	case *js_ast.SLabel:
		walkForIn(&d.Stmt)
	case *js_ast.SFunction:
		rewriteForIn(d.Fn.Body)
	case *js_ast.SExportDecl:
		walkForIn(&d.Decl)
	}
}

// Package hoist implements the global hoister (spec.md §4.2) and the
// duplicate-literal hoister with split-packing (spec.md §4.3). Both passes
// run a single combined walk over internal/js_ast, consult
// internal/profit's pure cost formulas to decide what is worth rewriting,
// and mutate the tree in place using pointers captured during that same
// walk — there is no original teacher equivalent (esbuild never hoists by
// byte cost; see DESIGN.md), so this package is original to this module,
// built the way the teacher's own small single-purpose packages are: plain
// functions over a tree it already has in memory, no external state.
package hoist

import (
	"sort"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/profit"
	"github.com/mahdisbetter/niu/internal/scope"
)

type globalCandidate struct {
	name       string
	refs       []*js_ast.EIdentifier
	occurrence int
}

// Global runs spec.md §4.2. It returns true if any global was hoisted, in
// which case a `const __niu_global_0__=G0, ...` declaration has already
// been prepended to program.Body.
func Global(program *js_ast.Program) bool {
	root := scope.Analyze(program)
	if len(root.Globals) == 0 {
		return false
	}

	typeofGuarded := map[string]bool{}
	dotObjectUses := map[string]int{}
	collectGlobalSignals(program, typeofGuarded, dotObjectUses)

	var candidates []globalCandidate
	for name, refs := range root.Globals {
		if typeofGuarded[name] {
			continue
		}
		if dotObjectUses[name] < 2 {
			continue
		}
		candidates = append(candidates, globalCandidate{name: name, refs: refs, occurrence: len(refs)})
	}
	if len(candidates) == 0 {
		return false
	}

	// Each candidate's profit is computed with the placeholder id and the
	// first-declarator flag it will actually receive if accepted (its index
	// among the candidates accepted so far), so the emitted declaration never
	// disagrees with the profit figure computed here.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].occurrence > candidates[j].occurrence
	})

	var accepted []globalCandidate
	for _, c := range candidates {
		id := placeholderName("global", len(accepted))
		p := profit.GlobalHoistProfit(c.occurrence, len(c.name), len(id), len(accepted) == 0)
		if p > 0 {
			accepted = append(accepted, c)
		}
	}
	if len(accepted) == 0 {
		return false
	}

	decl := &js_ast.SDecl{Kind: js_ast.DeclConst}
	for i, c := range accepted {
		id := placeholderName("global", i)
		for _, ref := range c.refs {
			ref.Name = id
		}
		decl.Declarators = append(decl.Declarators, js_ast.Declarator{
			Binding: &js_ast.BIdentifier{Name: id},
			Value:   js_ast.Expr{Data: &js_ast.EIdentifier{Name: c.name}},
		})
	}
	program.Body = append([]js_ast.Stmt{{Data: decl}}, program.Body...)
	return true
}

func placeholderName(kind string, i int) string {
	switch kind {
	case "global":
		return "__niu_global_" + itoa(i) + "__"
	default:
		return "__niu_literal_" + itoa(i) + "__"
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// collectGlobalSignals walks the program once gathering the typeof-operand
// and dot-access-object identifier names the global hoister's candidacy
// test needs (spec.md §4.2). It walks js_ast directly rather than through
// js_ast.Visitor because it needs access to EUnary/EDot node shape, not
// just a generic rewrite hook.
func collectGlobalSignals(program *js_ast.Program, typeofGuarded map[string]bool, dotObjectUses map[string]int) {
	var walkExpr func(e js_ast.Expr)
	var walkStmt func(s js_ast.Stmt)

	walkExpr = func(e js_ast.Expr) {
		if e.Data == nil {
			return
		}
		switch d := e.Data.(type) {
		case *js_ast.EUnary:
			if d.Op == js_ast.UnOpTypeof {
				if id, ok := d.Value.Data.(*js_ast.EIdentifier); ok {
					typeofGuarded[id.Name] = true
				}
			}
			walkExpr(d.Value)
		case *js_ast.EDot:
			if id, ok := d.Target.Data.(*js_ast.EIdentifier); ok && !js_ast.ContextualGlobalKeywords[id.Name] {
				dotObjectUses[id.Name]++
			}
			walkExpr(d.Target)
		case *js_ast.EIndex:
			walkExpr(d.Target)
			walkExpr(d.Index)
		case *js_ast.ECall:
			walkExpr(d.Target)
			for _, a := range d.Args {
				walkExpr(a)
			}
		case *js_ast.ENew:
			walkExpr(d.Target)
			for _, a := range d.Args {
				walkExpr(a)
			}
		case *js_ast.EBinary:
			walkExpr(d.Left)
			walkExpr(d.Right)
		case *js_ast.EIf:
			walkExpr(d.Test)
			walkExpr(d.Yes)
			walkExpr(d.No)
		case *js_ast.ESpread:
			walkExpr(d.Value)
		case *js_ast.EArray:
			for _, it := range d.Items {
				walkExpr(it)
			}
		case *js_ast.EObject:
			for i := range d.Properties {
				p := &d.Properties[i]
				if p.Computed {
					walkExpr(p.Key)
				}
				if p.Value.Data != nil {
					walkExpr(p.Value)
				}
			}
		case *js_ast.EClass:
			walkClass(&d.Class, walkExpr, walkStmt)
		case *js_ast.EFunction:
			walkStmt2(d.Fn.Body, walkStmt)
		case *js_ast.EArrow:
			for i := range d.Args {
				if d.Args[i].Default.Data != nil {
					walkExpr(d.Args[i].Default)
				}
			}
			walkStmt2(d.Body, walkStmt)
			if d.BodyExpr.Data != nil {
				walkExpr(d.BodyExpr)
			}
		case *js_ast.ETemplate:
			for _, sub := range d.Exprs {
				walkExpr(sub)
			}
		case *js_ast.EJSXElement:
			for _, a := range d.Attrs {
				if a.Value.Data != nil {
					walkExpr(a.Value)
				}
			}
			for _, c := range d.Children {
				walkExpr(c)
			}
		}
	}

	walkStmt = func(s js_ast.Stmt) {
		if s.Data == nil {
			return
		}
		switch d := s.Data.(type) {
		case *js_ast.SExpr:
			walkExpr(d.Value)
		case *js_ast.SDecl:
			for i := range d.Declarators {
				if d.Declarators[i].Value.Data != nil {
					walkExpr(d.Declarators[i].Value)
				}
			}
		case *js_ast.SReturn:
			if d.Value.Data != nil {
				walkExpr(d.Value)
			}
		case *js_ast.SThrow:
			walkExpr(d.Value)
		case *js_ast.SIf:
			walkExpr(d.Test)
			walkStmt(d.Yes)
			if d.No != nil {
				walkStmt(*d.No)
			}
		case *js_ast.SBlock:
			walkStmt2(d.Stmts, walkStmt)
		case *js_ast.SWhile:
			walkExpr(d.Test)
			walkStmt(d.Body)
		case *js_ast.SDoWhile:
			walkStmt(d.Body)
			walkExpr(d.Test)
		case *js_ast.SFor:
			if d.Init != nil {
				walkStmt(*d.Init)
			}
			if d.Test.Data != nil {
				walkExpr(d.Test)
			}
			if d.Update.Data != nil {
				walkExpr(d.Update)
			}
			walkStmt(d.Body)
		case *js_ast.SForIn:
			if d.Decl != nil {
				for i := range d.Decl.Declarators {
					if d.Decl.Declarators[i].Value.Data != nil {
						walkExpr(d.Decl.Declarators[i].Value)
					}
				}
			} else if d.Init.Data != nil {
				walkExpr(d.Init)
			}
			walkExpr(d.Value)
			walkStmt(d.Body)
		case *js_ast.STry:
			walkStmt2(d.Body, walkStmt)
			if d.Catch != nil {
				walkStmt2(d.Catch.Body, walkStmt)
			}
			if d.Finally != nil {
				walkStmt2(d.Finally, walkStmt)
			}
		case *js_ast.SSwitch:
			walkExpr(d.Test)
			for _, c := range d.Cases {
				if c.Test.Data != nil {
					walkExpr(c.Test)
				}
				walkStmt2(c.Body, walkStmt)
			}
		case *js_ast.SLabel:
			walkStmt(d.Stmt)
		case *js_ast.SFunction:
			walkStmt2(d.Fn.Body, walkStmt)
		case *js_ast.SClass:
			walkClass(&d.Class, walkExpr, walkStmt)
		case *js_ast.SExportDecl:
			walkStmt(d.Decl)
		case *js_ast.SExportDefault:
			if d.Value.Data != nil {
				walkExpr(d.Value)
			}
		}
	}

	walkStmt2(program.Body, walkStmt)
}

func walkStmt2(list []js_ast.Stmt, walkStmt func(js_ast.Stmt)) {
	for _, s := range list {
		walkStmt(s)
	}
}

func walkClass(c *js_ast.Class, walkExpr func(js_ast.Expr), walkStmt func(js_ast.Stmt)) {
	if c.Extends.Data != nil {
		walkExpr(c.Extends)
	}
	for i := range c.Members {
		m := &c.Members[i]
		if m.Computed {
			walkExpr(m.Key)
		}
		if m.Value.Data == nil {
			continue
		}
		if fn, ok := m.Value.Data.(*js_ast.EFunction); ok {
			walkStmt2(fn.Fn.Body, walkStmt)
			continue
		}
		walkExpr(m.Value)
	}
}

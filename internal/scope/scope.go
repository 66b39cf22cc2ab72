// Package scope builds the explicit side table spec.md §9 calls for: a
// scope tree derived from a internal/js_ast.Program, keyed by node identity,
// rebuilt from scratch whenever a pass invalidates it (the "print then
// re-parse" step between hoisting and mangling, spec.md §2 item 5).
//
// Grounded on the teacher's internal/js_ast.Scope / internal/renamer.go
// reserved-name walk, adapted to pointer-identity bindings since this module
// analyzes one file at a time and has no need for esbuild's cross-file
// index-based ast.Ref/SymbolMap scheme (see DESIGN.md).
package scope

import "github.com/mahdisbetter/niu/internal/js_ast"

type Kind uint8

const (
	KindProgram Kind = iota
	KindFunction
	KindBlock
)

// Binding records one declared name: spec.md §3 "A binding records: declaring
// identifier node, kind, the list of reference paths (read uses), and the
// list of constant violations (write uses)."
type Binding struct {
	Name       string
	Kind       js_ast.DeclKind // DeclVar is also used for function declarations; classes, params, catch bindings and imports use DeclLet
	Scope      *Scope
	References []*js_ast.EIdentifier
	Violations []*js_ast.EIdentifier

	// DeclSites points at every declaration-site name field Declare was
	// called with for this binding — a *js_ast.BIdentifier.Name, a
	// *js_ast.Fn.Name, a *js_ast.Class.Name, or an
	// *js_ast.ImportSpecifier.LocalName. Unlike References/Violations, a
	// declaration site is not an *EIdentifier node (declarator ids,
	// function/class names, and import bindings carry a bare string, not
	// an expression), so internal/mangle writes through these pointers
	// directly to keep a binding's declaration and its uses in sync.
	DeclSites []*string

	// NewName is set by internal/mangle once a rename has been decided.
	// Left empty, the binding keeps its original name.
	NewName string

	// Pinned marks a binding whose name is part of this file's external
	// contract — currently, a local name appearing in a named export
	// (`export { x }`) — and therefore must never be renamed:
	// internal/mangle only updates an export specifier's printed
	// declaration/reference identifiers, never the specifier struct
	// itself, so a renamed exported binding would desync from its export
	// statement.
	Pinned bool
}

// TotalUses is the reference-count ranking key for the mangler (spec.md
// §4.4 "rank bindings by total reference count (declaration counts as 1,
// plus all reads, plus all writes)").
func (b *Binding) TotalUses() int {
	return 1 + len(b.References) + len(b.Violations)
}

// Scope is one lexical scope: program, function (incl. arrow), or block
// (for let/const, for-loop heads, catch clauses, switch bodies).
type Scope struct {
	Kind     Kind
	Parent   *Scope
	Children []*Scope
	Bindings map[string]*Binding

	// Globals is populated only on the program (root) scope: spec.md §3
	// "the program scope additionally records a globals map: unresolved
	// identifier references, keyed by name, pointing at every Identifier
	// node that refers to that free name."
	Globals map[string][]*js_ast.EIdentifier
}

func newScope(kind Kind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent, Bindings: map[string]*Binding{}}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Lookup finds the nearest enclosing binding for name, searching this scope
// and then ancestors.
func (s *Scope) Lookup(name string) *Binding {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.Bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Declare creates (or returns the existing) binding for *namePtr in this
// exact scope. Re-declaration (e.g. `var` appearing twice) reuses the
// binding, matching JS's own var-hoisting semantics for the purposes of
// reference counting, and records namePtr as one more declaration site to
// rename if internal/mangle later renames this binding.
func (s *Scope) Declare(namePtr *string, kind js_ast.DeclKind) *Binding {
	name := *namePtr
	if b, ok := s.Bindings[name]; ok {
		b.DeclSites = append(b.DeclSites, namePtr)
		return b
	}
	b := &Binding{Name: name, Kind: kind, Scope: s, DeclSites: []*string{namePtr}}
	s.Bindings[name] = b
	return b
}

// IsAncestorOf reports whether s is the same scope as, or a strict ancestor
// of, other. Used by internal/mangle to decide whether an outer binding's
// reference reaches into a given scope (spec.md §4.4 "per-scope reserved
// set").
func (s *Scope) IsAncestorOf(other *Scope) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == s {
			return true
		}
	}
	return false
}

// Analyze walks the whole program once and builds the scope tree, resolving
// every EIdentifier occurrence to a Binding or recording it as a global.
// This is the "dedicated analyzer" spec.md §9 calls for; it is re-run from
// scratch (never patched incrementally) after any pass that mutates
// declarations.
func Analyze(program *js_ast.Program) *Scope {
	root := newScope(KindProgram, nil)
	root.Globals = map[string][]*js_ast.EIdentifier{}
	a := &analyzer{root: root}
	a.hoistVarsAndFunctions(root, program.Body)
	a.stmts(root, program.Body)
	return root
}

type analyzer struct {
	root *Scope
}

// hoistVarsAndFunctions pre-declares `var` and function declarations (class
// declarations are declared when the main walk reaches them)
// so that forward references within the same scope resolve correctly,
// matching JS's own hoisting semantics. let/const are declared in-order as
// the main walk reaches each declarator, which is sufficient for this
// module's purposes (it never needs to detect temporal-dead-zone errors).
func (a *analyzer) hoistVarsAndFunctions(s *Scope, list []js_ast.Stmt) {
	for _, st := range list {
		switch d := st.Data.(type) {
		case *js_ast.SDecl:
			if d.Kind == js_ast.DeclVar {
				for _, decl := range d.Declarators {
					a.hoistBinding(s, decl.Binding, js_ast.DeclVar)
				}
			}
		case *js_ast.SFunction:
			if d.Fn.Name != nil {
				s.Declare(d.Fn.Name, js_ast.DeclVar)
			}
		case *js_ast.SIf:
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Yes})
			if d.No != nil {
				a.hoistVarsAndFunctions(s, []js_ast.Stmt{*d.No})
			}
		case *js_ast.SBlock:
			a.hoistVarsAndFunctions(s, d.Stmts)
		case *js_ast.SFor:
			if d.Init != nil {
				a.hoistVarsAndFunctions(s, []js_ast.Stmt{*d.Init})
			}
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Body})
		case *js_ast.SForIn:
			if d.Decl != nil && d.Decl.Kind == js_ast.DeclVar {
				for _, decl := range d.Decl.Declarators {
					a.hoistBinding(s, decl.Binding, js_ast.DeclVar)
				}
			}
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Body})
		case *js_ast.SWhile:
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Body})
		case *js_ast.SDoWhile:
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Body})
		case *js_ast.STry:
			a.hoistVarsAndFunctions(s, d.Body)
			if d.Catch != nil {
				a.hoistVarsAndFunctions(s, d.Catch.Body)
			}
			if d.Finally != nil {
				a.hoistVarsAndFunctions(s, d.Finally)
			}
		case *js_ast.SSwitch:
			for _, c := range d.Cases {
				a.hoistVarsAndFunctions(s, c.Body)
			}
		case *js_ast.SLabel:
			a.hoistVarsAndFunctions(s, []js_ast.Stmt{d.Stmt})
		}
	}
}

func (a *analyzer) hoistBinding(s *Scope, b js_ast.Binding, kind js_ast.DeclKind) {
	switch d := b.(type) {
	case *js_ast.BIdentifier:
		s.Declare(&d.Name, kind)
	case *js_ast.BArray:
		for _, item := range d.Items {
			if item.Binding != nil {
				a.hoistBinding(s, item.Binding, kind)
			}
		}
	case *js_ast.BObject:
		for _, p := range d.Properties {
			a.hoistBinding(s, p.Value, kind)
		}
	}
}

// resolveVarBindingInPlace walks a `var` declarator's binding pattern
// without redeclaring its identifiers: hoistVarsAndFunctions already
// declared every `var` name at the enclosing function (or program) scope
// before the main walk began, so re-declaring here would create a second,
// reference-less Binding shadowed inside whatever nested block scope the
// declarator happens to sit in. Nested defaults and computed keys still
// need visiting for their own identifier references.
func (a *analyzer) resolveVarBindingInPlace(s *Scope, b js_ast.Binding, kind js_ast.DeclKind) {
	switch d := b.(type) {
	case *js_ast.BIdentifier:
		s.Lookup(d.Name)
	case *js_ast.BArray:
		for _, item := range d.Items {
			if item.Binding != nil {
				a.resolveVarBindingInPlace(s, item.Binding, kind)
			}
			if item.Default.Data != nil {
				a.expr(s, item.Default, false)
			}
		}
	case *js_ast.BObject:
		for _, p := range d.Properties {
			if p.Computed {
				a.expr(s, p.Key, false)
			}
			a.resolveVarBindingInPlace(s, p.Value, kind)
			if p.Default.Data != nil {
				a.expr(s, p.Default, false)
			}
		}
	}
}

func (a *analyzer) declareBindingInPlace(s *Scope, b js_ast.Binding, kind js_ast.DeclKind) {
	switch d := b.(type) {
	case *js_ast.BIdentifier:
		s.Declare(&d.Name, kind)
	case *js_ast.BArray:
		for _, item := range d.Items {
			if item.Binding != nil {
				a.declareBindingInPlace(s, item.Binding, kind)
			}
			if item.Default.Data != nil {
				a.expr(s, item.Default, false)
			}
		}
	case *js_ast.BObject:
		for _, p := range d.Properties {
			if p.Computed {
				a.expr(s, p.Key, false)
			}
			a.declareBindingInPlace(s, p.Value, kind)
			if p.Default.Data != nil {
				a.expr(s, p.Default, false)
			}
		}
	}
}

func (a *analyzer) resolveIdentRead(s *Scope, id *js_ast.EIdentifier) {
	if b := s.Lookup(id.Name); b != nil {
		b.References = append(b.References, id)
		return
	}
	a.root.Globals[id.Name] = append(a.root.Globals[id.Name], id)
}

func (a *analyzer) resolveIdentWrite(s *Scope, id *js_ast.EIdentifier) {
	if b := s.Lookup(id.Name); b != nil {
		b.Violations = append(b.Violations, id)
		return
	}
	a.root.Globals[id.Name] = append(a.root.Globals[id.Name], id)
}

func (a *analyzer) stmts(s *Scope, list []js_ast.Stmt) {
	for _, st := range list {
		a.stmt(s, st)
	}
}

func (a *analyzer) stmt(s *Scope, st js_ast.Stmt) {
	switch d := st.Data.(type) {
	case *js_ast.SExpr:
		a.expr(s, d.Value, false)

	case *js_ast.SDecl:
		for i := range d.Declarators {
			decl := &d.Declarators[i]
			if decl.Value.Data != nil {
				a.expr(s, decl.Value, false)
			}
			if d.Kind != js_ast.DeclVar {
				a.declareBindingInPlace(s, decl.Binding, d.Kind)
			} else {
				a.resolveVarBindingInPlace(s, decl.Binding, d.Kind)
			}
		}

	case *js_ast.SReturn:
		if d.Value.Data != nil {
			a.expr(s, d.Value, false)
		}
	case *js_ast.SThrow:
		a.expr(s, d.Value, false)

	case *js_ast.SIf:
		a.expr(s, d.Test, false)
		a.stmt(s, d.Yes)
		if d.No != nil {
			a.stmt(s, *d.No)
		}

	case *js_ast.SBlock:
		child := newScope(KindBlock, s)
		a.stmts(child, d.Stmts)

	case *js_ast.SWhile:
		a.expr(s, d.Test, false)
		a.stmt(s, d.Body)

	case *js_ast.SDoWhile:
		a.stmt(s, d.Body)
		a.expr(s, d.Test, false)

	case *js_ast.SFor:
		child := newScope(KindBlock, s)
		if d.Init != nil {
			a.stmt(child, *d.Init)
		}
		if d.Test.Data != nil {
			a.expr(child, d.Test, false)
		}
		if d.Update.Data != nil {
			a.expr(child, d.Update, false)
		}
		a.stmt(child, d.Body)

	case *js_ast.SForIn:
		child := newScope(KindBlock, s)
		if d.Decl != nil {
			for i := range d.Decl.Declarators {
				if d.Decl.Kind != js_ast.DeclVar {
					a.declareBindingInPlace(child, d.Decl.Declarators[i].Binding, d.Decl.Kind)
				} else {
					a.resolveVarBindingInPlace(child, d.Decl.Declarators[i].Binding, d.Decl.Kind)
				}
			}
		} else if id, ok := d.Init.Data.(*js_ast.EIdentifier); ok {
			a.resolveIdentWrite(child, id)
		} else if d.Init.Data != nil {
			a.expr(child, d.Init, true)
		}
		a.expr(child, d.Value, false)
		a.stmt(child, d.Body)

	case *js_ast.STry:
		tryScope := newScope(KindBlock, s)
		a.stmts(tryScope, d.Body)
		if d.Catch != nil {
			catchScope := newScope(KindBlock, s)
			if d.Catch.Binding != nil {
				a.declareBindingInPlace(catchScope, d.Catch.Binding, js_ast.DeclLet)
			}
			a.stmts(catchScope, d.Catch.Body)
		}
		if d.Finally != nil {
			finallyScope := newScope(KindBlock, s)
			a.stmts(finallyScope, d.Finally)
		}

	case *js_ast.SSwitch:
		a.expr(s, d.Test, false)
		switchScope := newScope(KindBlock, s)
		for _, c := range d.Cases {
			if c.Test.Data != nil {
				a.expr(switchScope, c.Test, false)
			}
			a.stmts(switchScope, c.Body)
		}

	case *js_ast.SLabel:
		a.stmt(s, d.Stmt)

	case *js_ast.SFunction:
		a.fn(s, &d.Fn)

	case *js_ast.SClass:
		if d.Class.Name != nil {
			s.Declare(d.Class.Name, js_ast.DeclLet)
		}
		a.class(s, &d.Class)

	case *js_ast.SImport:
		for i := range d.Specifiers {
			s.Declare(&d.Specifiers[i].LocalName, js_ast.DeclLet)
		}

	case *js_ast.SExportNamed:
		if d.FromPath == nil {
			for _, spec := range d.Specifiers {
				if b := s.Lookup(spec.LocalName); b != nil {
					b.Pinned = true
				}
			}
		}

	case *js_ast.SExportDecl:
		a.stmt(s, d.Decl)

	case *js_ast.SExportDefault:
		if d.Value.Data != nil {
			a.expr(s, d.Value, false)
		}
	}
}

func (a *analyzer) fn(parent *Scope, fn *js_ast.Fn) {
	s := newScope(KindFunction, parent)
	for i := range fn.Args {
		a.declareBindingInPlace(s, fn.Args[i].Binding, js_ast.DeclLet)
		if fn.Args[i].Default.Data != nil {
			a.expr(s, fn.Args[i].Default, false)
		}
	}
	a.hoistVarsAndFunctions(s, fn.Body)
	a.stmts(s, fn.Body)
}

func (a *analyzer) class(parent *Scope, c *js_ast.Class) {
	if c.Extends.Data != nil {
		a.expr(parent, c.Extends, false)
	}
	for i := range c.Members {
		m := &c.Members[i]
		if m.Computed {
			a.expr(parent, m.Key, false)
		}
		if m.Value.Data == nil {
			continue
		}
		if efn, ok := m.Value.Data.(*js_ast.EFunction); ok {
			a.fn(parent, &efn.Fn)
		} else {
			a.expr(parent, m.Value, false)
		}
	}
}

// expr walks an expression. isWrite marks positions where an EIdentifier
// found directly (or via a destructuring pattern) is being assigned to
// rather than read — spec.md's "constant violation" (write use) vs
// "reference path" (read use) distinction.
func (a *analyzer) expr(s *Scope, e js_ast.Expr, isWrite bool) {
	switch d := e.Data.(type) {
	case *js_ast.EIdentifier:
		if isWrite {
			a.resolveIdentWrite(s, d)
		} else {
			a.resolveIdentRead(s, d)
		}

	case *js_ast.EDot:
		a.expr(s, d.Target, false)

	case *js_ast.EIndex:
		a.expr(s, d.Target, false)
		a.expr(s, d.Index, false)

	case *js_ast.ECall:
		a.expr(s, d.Target, false)
		for _, arg := range d.Args {
			a.expr(s, arg, false)
		}

	case *js_ast.ENew:
		a.expr(s, d.Target, false)
		for _, arg := range d.Args {
			a.expr(s, arg, false)
		}

	case *js_ast.EBinary:
		if d.Op == js_ast.BinOpAssign {
			a.assignTarget(s, d.Left)
			a.expr(s, d.Right, false)
		} else {
			a.expr(s, d.Left, false)
			a.expr(s, d.Right, false)
		}

	case *js_ast.EUnary:
		switch d.Op {
		case js_ast.UnOpPreInc, js_ast.UnOpPreDec, js_ast.UnOpPostInc, js_ast.UnOpPostDec:
			a.assignTarget(s, d.Value)
		default:
			a.expr(s, d.Value, false)
		}

	case *js_ast.EIf:
		a.expr(s, d.Test, false)
		a.expr(s, d.Yes, false)
		a.expr(s, d.No, false)

	case *js_ast.ESpread:
		a.expr(s, d.Value, isWrite)

	case *js_ast.EArray:
		for _, item := range d.Items {
			a.expr(s, item, isWrite)
		}

	case *js_ast.EObject:
		for _, p := range d.Properties {
			if p.Computed {
				a.expr(s, p.Key, false)
			}
			if p.Value.Data != nil {
				a.expr(s, p.Value, isWrite)
			}
		}

	case *js_ast.EClass:
		a.class(s, &d.Class)

	case *js_ast.EFunction:
		a.fn(s, &d.Fn)

	case *js_ast.EArrow:
		arrowScope := newScope(KindFunction, s)
		for i := range d.Args {
			a.declareBindingInPlace(arrowScope, d.Args[i].Binding, js_ast.DeclLet)
			if d.Args[i].Default.Data != nil {
				a.expr(arrowScope, d.Args[i].Default, false)
			}
		}
		a.hoistVarsAndFunctions(arrowScope, d.Body)
		a.stmts(arrowScope, d.Body)
		if d.BodyExpr.Data != nil {
			a.expr(arrowScope, d.BodyExpr, false)
		}

	case *js_ast.ETemplate:
		for _, sub := range d.Exprs {
			a.expr(s, sub, false)
		}

	case *js_ast.EJSXElement:
		for _, attr := range d.Attrs {
			if attr.Value.Data != nil {
				a.expr(s, attr.Value, false)
			}
		}
		for _, child := range d.Children {
			a.expr(s, child, false)
		}
	}
}

// assignTarget walks the LHS of an assignment or update expression, which
// may itself be a destructuring pattern expression (`[a,b]=...`,
// `{a,b}=...`) rather than a bare identifier.
func (a *analyzer) assignTarget(s *Scope, e js_ast.Expr) {
	switch d := e.Data.(type) {
	case *js_ast.EIdentifier:
		a.resolveIdentWrite(s, d)
	case *js_ast.EArray:
		for _, item := range d.Items {
			a.assignTarget(s, item)
		}
	case *js_ast.EObject:
		for _, p := range d.Properties {
			if p.Computed {
				a.expr(s, p.Key, false)
			}
			a.assignTarget(s, p.Value)
		}
	case *js_ast.ESpread:
		a.assignTarget(s, d.Value)
	case *js_ast.EDot:
		a.expr(s, d.Target, false)
	case *js_ast.EIndex:
		a.expr(s, d.Target, false)
		a.expr(s, d.Index, false)
	default:
		a.expr(s, e, false)
	}
}

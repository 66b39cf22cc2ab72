// Package js_printer implements the print(ast) side of the black-box
// parser/printer facade (spec.md §2 item 1): it prints internal/js_ast back
// to compact JavaScript, with the exact conventions spec.md §3 assumes —
// `const x=…`/`let x=…`, dot vs `[…]` access exactly as the AST specifies,
// minimal-length numeric/string literal forms, and no whitespace beyond
// what is semantically required. This is this module's own code (the
// teacher's own printer, internal/js_printer, is ~5000 lines covering full
// esbuild source-map and multi-target-compat output); its quoting/number
// formatting conventions are kept — see DESIGN.md.
package js_printer

import (
	"strings"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/profit"
)

// Print renders program as compact JavaScript source.
func Print(program *js_ast.Program) string {
	p := &printer{}
	p.printStmts(program.Body, true)
	return p.sb.String()
}

type printer struct {
	sb          strings.Builder
	lastByte    byte
	hasLastByte bool
}

func (p *printer) print(s string) {
	if s == "" {
		return
	}
	p.sb.WriteString(s)
	p.lastByte = s[len(s)-1]
	p.hasLastByte = true
}

// printSpaceBeforeIdentifier inserts a single space if the previous output
// byte would otherwise glue onto an identifier/keyword-start character,
// e.g. "return" immediately followed by "x" would become "returnx".
func (p *printer) printSpaceBeforeIdentifier(next byte) {
	if !p.hasLastByte {
		return
	}
	if isWordByte(p.lastByte) && isWordByte(next) {
		p.print(" ")
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *printer) printIdentifierLike(name string) {
	if len(name) > 0 {
		p.printSpaceBeforeIdentifier(name[0])
	}
	p.print(name)
}

////////////////////////////////////////////////////////////////////////////
// Statements

func (p *printer) printStmts(list []js_ast.Stmt, topLevel bool) {
	for _, s := range list {
		p.printStmt(s)
	}
	_ = topLevel
}

func (p *printer) printStmt(s js_ast.Stmt) {
	switch d := s.Data.(type) {
	case *js_ast.SExpr:
		// A leading function/class expression statement would be parsed as a
		// declaration; this module's lowering never produces that shape from
		// valid source, so no defensive wrapping parens are added here.
		p.printExpr(d.Value, levelLowest)
		p.print(";")

	case *js_ast.SDecl:
		p.printDecl(d)
		p.print(";")

	case *js_ast.SReturn:
		p.printIdentifierLike("return")
		if d.Value.Data != nil {
			p.print(" ")
			p.printExpr(d.Value, levelLowest)
		}
		p.print(";")

	case *js_ast.SThrow:
		p.printIdentifierLike("throw")
		p.print(" ")
		p.printExpr(d.Value, levelLowest)
		p.print(";")

	case *js_ast.SIf:
		p.printIdentifierLike("if")
		p.print("(")
		p.printExpr(d.Test, levelLowest)
		p.print(")")
		p.printStmt(d.Yes)
		if d.No != nil {
			p.printIdentifierLike("else")
			p.printStmt(*d.No)
		}

	case *js_ast.SBlock:
		p.print("{")
		p.printStmts(d.Stmts, false)
		p.print("}")

	case *js_ast.SWhile:
		p.printIdentifierLike("while")
		p.print("(")
		p.printExpr(d.Test, levelLowest)
		p.print(")")
		p.printStmt(d.Body)

	case *js_ast.SDoWhile:
		p.printIdentifierLike("do")
		p.printStmt(d.Body)
		p.printIdentifierLike("while")
		p.print("(")
		p.printExpr(d.Test, levelLowest)
		p.print(");")

	case *js_ast.SFor:
		p.printIdentifierLike("for")
		p.print("(")
		if d.Init != nil {
			p.printForInit(*d.Init)
		}
		p.print(";")
		if d.Test.Data != nil {
			p.printExpr(d.Test, levelLowest)
		}
		p.print(";")
		if d.Update.Data != nil {
			p.printExpr(d.Update, levelLowest)
		}
		p.print(")")
		p.printStmt(d.Body)

	case *js_ast.SForIn:
		p.printIdentifierLike("for")
		p.print("(")
		if d.Decl != nil {
			p.printDecl(d.Decl)
		} else {
			p.printExpr(d.Init, levelLowest)
		}
		if d.Kind == js_ast.ForOf {
			p.printIdentifierLike("of")
		} else {
			p.printIdentifierLike("in")
		}
		p.printExpr(d.Value, levelLowest)
		p.print(")")
		p.printStmt(d.Body)

	case *js_ast.STry:
		p.printIdentifierLike("try")
		p.print("{")
		p.printStmts(d.Body, false)
		p.print("}")
		if d.Catch != nil {
			p.printIdentifierLike("catch")
			if d.Catch.Binding != nil {
				p.print("(")
				p.printBinding(d.Catch.Binding)
				p.print(")")
			}
			p.print("{")
			p.printStmts(d.Catch.Body, false)
			p.print("}")
		}
		if d.Finally != nil {
			p.printIdentifierLike("finally")
			p.print("{")
			p.printStmts(d.Finally, false)
			p.print("}")
		}

	case *js_ast.SSwitch:
		p.printIdentifierLike("switch")
		p.print("(")
		p.printExpr(d.Test, levelLowest)
		p.print("){")
		for _, c := range d.Cases {
			if c.Test.Data != nil {
				p.printIdentifierLike("case")
				p.print(" ")
				p.printExpr(c.Test, levelLowest)
			} else {
				p.printIdentifierLike("default")
			}
			p.print(":")
			p.printStmts(c.Body, false)
		}
		p.print("}")

	case *js_ast.SLabel:
		p.printIdentifierLike(d.Name)
		p.print(":")
		p.printStmt(d.Stmt)

	case *js_ast.SBreak:
		p.printIdentifierLike("break")
		if d.Label != nil {
			p.print(" ")
			p.printIdentifierLike(*d.Label)
		}
		p.print(";")

	case *js_ast.SContinue:
		p.printIdentifierLike("continue")
		if d.Label != nil {
			p.print(" ")
			p.printIdentifierLike(*d.Label)
		}
		p.print(";")

	case *js_ast.SFunction:
		p.printFn("function", &d.Fn)

	case *js_ast.SClass:
		p.printClass(&d.Class)

	case *js_ast.SImport:
		p.printImport(d)

	case *js_ast.SExportNamed:
		p.printExportNamed(d)

	case *js_ast.SExportDecl:
		p.printIdentifierLike("export")
		p.print(" ")
		p.printStmt(d.Decl)

	case *js_ast.SExportDefault:
		p.printIdentifierLike("export")
		p.printIdentifierLike("default")
		p.print(" ")
		p.printExpr(d.Value, levelComma)
		p.print(";")
	}
}

func (p *printer) printForInit(s js_ast.Stmt) {
	switch d := s.Data.(type) {
	case *js_ast.SDecl:
		p.printDecl(d)
	case *js_ast.SExpr:
		p.printExpr(d.Value, levelLowest)
	}
}

func (p *printer) printDecl(d *js_ast.SDecl) {
	p.printIdentifierLike(d.Kind.String())
	p.print(" ")
	for i, decl := range d.Declarators {
		if i > 0 {
			p.print(",")
		}
		p.printBinding(decl.Binding)
		if decl.Value.Data != nil {
			p.print("=")
			p.printExpr(decl.Value, levelAssign)
		}
	}
}

func (p *printer) printImport(d *js_ast.SImport) {
	p.printIdentifierLike("import")
	p.print(" ")
	for i, spec := range d.Specifiers {
		if i > 0 {
			p.print(",")
		}
		switch spec.ImportedName {
		case "default":
			p.printIdentifierLike(spec.LocalName)
		case "*":
			p.printIdentifierLike("*")
			p.printIdentifierLike("as")
			p.printIdentifierLike(spec.LocalName)
		default:
			p.print("{")
			p.printIdentifierLike(spec.ImportedName)
			if spec.ImportedName != spec.LocalName {
				p.printIdentifierLike("as")
				p.printIdentifierLike(spec.LocalName)
			}
			p.print("}")
		}
	}
	if len(d.Specifiers) > 0 {
		p.printIdentifierLike("from")
	}
	p.print(profit.Quote(d.Path))
	p.print(";")
}

func (p *printer) printExportNamed(d *js_ast.SExportNamed) {
	p.printIdentifierLike("export")
	p.print("{")
	for i, spec := range d.Specifiers {
		if i > 0 {
			p.print(",")
		}
		p.printIdentifierLike(spec.LocalName)
		if spec.LocalName != spec.ExportedName {
			p.printIdentifierLike("as")
			p.printIdentifierLike(spec.ExportedName)
		}
	}
	p.print("}")
	if d.FromPath != nil {
		p.printIdentifierLike("from")
		p.print(profit.Quote(*d.FromPath))
	}
	p.print(";")
}

func (p *printer) printBinding(b js_ast.Binding) {
	switch d := b.(type) {
	case *js_ast.BIdentifier:
		p.printIdentifierLike(d.Name)
	case *js_ast.BArray:
		p.print("[")
		for i, item := range d.Items {
			if i > 0 {
				p.print(",")
			}
			if item.IsSpread {
				p.print("...")
			}
			if item.Binding != nil {
				p.printBinding(item.Binding)
			}
			if item.Default.Data != nil {
				p.print("=")
				p.printExpr(item.Default, levelAssign)
			}
		}
		p.print("]")
	case *js_ast.BObject:
		p.print("{")
		for i, prop := range d.Properties {
			if i > 0 {
				p.print(",")
			}
			if prop.IsSpread {
				p.print("...")
				p.printBinding(prop.Value)
				continue
			}
			if prop.Computed {
				p.print("[")
				p.printExpr(prop.Key, levelLowest)
				p.print("]")
			} else {
				p.printPropertyKey(prop.Key)
			}
			if bid, ok := prop.Value.(*js_ast.BIdentifier); !ok || keyNameOf(prop.Key) != bid.Name || prop.Computed {
				p.print(":")
				p.printBinding(prop.Value)
			}
			if prop.Default.Data != nil {
				p.print("=")
				p.printExpr(prop.Default, levelAssign)
			}
		}
		p.print("}")
	}
}

func keyNameOf(key js_ast.Expr) string {
	if s, ok := key.Data.(*js_ast.EString); ok {
		return s.Value
	}
	return ""
}

func (p *printer) printFn(keyword string, fn *js_ast.Fn) {
	if fn.IsAsync {
		p.printIdentifierLike("async")
	}
	p.printIdentifierLike(keyword)
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		p.print(" ")
		p.printIdentifierLike(*fn.Name)
	}
	p.printParams(fn.Args)
	p.print("{")
	p.printStmts(fn.Body, false)
	p.print("}")
}

func (p *printer) printParams(args []js_ast.Arg) {
	p.print("(")
	for i, a := range args {
		if i > 0 {
			p.print(",")
		}
		p.printBinding(a.Binding)
		if a.Default.Data != nil {
			p.print("=")
			p.printExpr(a.Default, levelAssign)
		}
	}
	p.print(")")
}

func (p *printer) printClass(c *js_ast.Class) {
	p.printIdentifierLike("class")
	if c.Name != nil {
		p.print(" ")
		p.printIdentifierLike(*c.Name)
	}
	if c.Extends.Data != nil {
		p.printIdentifierLike("extends")
		p.printExpr(c.Extends, levelCall)
	}
	p.print("{")
	for _, m := range c.Members {
		if m.IsStatic {
			p.printIdentifierLike("static")
		}
		switch m.Kind {
		case js_ast.ClassMemberGetter:
			p.printIdentifierLike("get")
		case js_ast.ClassMemberSetter:
			p.printIdentifierLike("set")
		}
		if m.Computed {
			p.print("[")
			p.printExpr(m.Key, levelLowest)
			p.print("]")
		} else {
			p.printPropertyKey(m.Key)
		}
		switch m.Kind {
		case js_ast.ClassMemberField:
			if m.Value.Data != nil {
				p.print("=")
				p.printExpr(m.Value, levelAssign)
			}
			p.print(";")
		default:
			if efn, ok := m.Value.Data.(*js_ast.EFunction); ok {
				p.printParams(efn.Fn.Args)
				p.print("{")
				p.printStmts(efn.Fn.Body, false)
				p.print("}")
			}
		}
	}
	p.print("}")
}

func (p *printer) printPropertyKey(key js_ast.Expr) {
	if s, ok := key.Data.(*js_ast.EString); ok && js_ast.IsIdentifier(s.Value) {
		p.printIdentifierLike(s.Value)
		return
	}
	p.printExpr(key, levelLowest)
}

////////////////////////////////////////////////////////////////////////////
// Expressions, with a minimal precedence model for parenthesization.

type level int

const (
	levelLowest level = iota
	levelComma
	levelAssign
	levelConditional
	levelNullish
	levelLogicalOr
	levelLogicalAnd
	levelEquality
	levelRelational
	levelAdditive
	levelMultiplicative
	levelExponent
	levelPrefix
	levelPostfix
	levelCall
)

func binOpLevel(op js_ast.BinOp) (level, bool /* right-associative */) {
	switch op {
	case js_ast.BinOpComma:
		return levelComma, false
	case js_ast.BinOpAssign:
		return levelAssign, true
	case js_ast.BinOpLogicalOr:
		return levelLogicalOr, false
	case js_ast.BinOpLogicalAnd:
		return levelLogicalAnd, false
	case js_ast.BinOpNullishCoalescing:
		return levelNullish, false
	case js_ast.BinOpEq, js_ast.BinOpStrictEq, js_ast.BinOpNe, js_ast.BinOpStrictNe:
		return levelEquality, false
	case js_ast.BinOpLt, js_ast.BinOpLe, js_ast.BinOpGt, js_ast.BinOpGe, js_ast.BinOpIn, js_ast.BinOpInstanceof:
		return levelRelational, false
	case js_ast.BinOpAdd, js_ast.BinOpSub:
		return levelAdditive, false
	case js_ast.BinOpMul, js_ast.BinOpDiv, js_ast.BinOpMod:
		return levelMultiplicative, false
	case js_ast.BinOpPow:
		return levelExponent, true
	default:
		return levelLowest, false
	}
}

func binOpText(op js_ast.BinOp) string {
	switch op {
	case js_ast.BinOpAdd:
		return "+"
	case js_ast.BinOpSub:
		return "-"
	case js_ast.BinOpMul:
		return "*"
	case js_ast.BinOpDiv:
		return "/"
	case js_ast.BinOpMod:
		return "%"
	case js_ast.BinOpPow:
		return "**"
	case js_ast.BinOpLt:
		return "<"
	case js_ast.BinOpLe:
		return "<="
	case js_ast.BinOpGt:
		return ">"
	case js_ast.BinOpGe:
		return ">="
	case js_ast.BinOpEq:
		return "=="
	case js_ast.BinOpStrictEq:
		return "==="
	case js_ast.BinOpNe:
		return "!="
	case js_ast.BinOpStrictNe:
		return "!=="
	case js_ast.BinOpLogicalAnd:
		return "&&"
	case js_ast.BinOpLogicalOr:
		return "||"
	case js_ast.BinOpNullishCoalescing:
		return "??"
	case js_ast.BinOpAssign:
		return "="
	case js_ast.BinOpComma:
		return ","
	case js_ast.BinOpIn:
		return "in"
	case js_ast.BinOpInstanceof:
		return "instanceof"
	default:
		return "?"
	}
}

func (p *printer) printExpr(e js_ast.Expr, parentLevel level) {
	switch d := e.Data.(type) {
	case *js_ast.EString:
		p.print(profit.Quote(d.Value))

	case *js_ast.ENumber:
		text := profit.FormatNumber(d.Value)
		p.printSpaceBeforeIdentifier(text[0])
		p.print(text)

	case *js_ast.EBoolean:
		if d.Value {
			p.printIdentifierLike("true")
		} else {
			p.printIdentifierLike("false")
		}

	case *js_ast.ENull:
		p.printIdentifierLike("null")

	case *js_ast.EUndefined:
		p.printIdentifierLike("undefined")

	case *js_ast.EBigInt:
		p.printSpaceBeforeIdentifier(d.Value[0])
		p.print(d.Value)
		p.print("n")

	case *js_ast.EIdentifier:
		p.printIdentifierLike(d.Name)

	case *js_ast.EDot:
		p.printExpr(d.Target, levelCall)
		if d.OptionalChain {
			p.print("?.")
		} else {
			p.print(".")
		}
		p.print(d.Name)

	case *js_ast.EIndex:
		p.printExpr(d.Target, levelCall)
		if d.OptionalChain {
			p.print("?.")
		}
		p.print("[")
		p.printExpr(d.Index, levelLowest)
		p.print("]")

	case *js_ast.ECall:
		p.printExpr(d.Target, levelCall)
		if d.OptionalChain {
			p.print("?.")
		}
		p.print("(")
		for i, arg := range d.Args {
			if i > 0 {
				p.print(",")
			}
			p.printExpr(arg, levelAssign)
		}
		p.print(")")

	case *js_ast.ENew:
		p.printIdentifierLike("new")
		p.printExpr(d.Target, levelCall)
		p.print("(")
		for i, arg := range d.Args {
			if i > 0 {
				p.print(",")
			}
			p.printExpr(arg, levelAssign)
		}
		p.print(")")

	case *js_ast.EBinary:
		lvl, rightAssoc := binOpLevel(d.Op)
		wrap := lvl < parentLevel
		if wrap {
			p.print("(")
		}
		leftLevel, rightLevel := lvl, lvl+1
		if rightAssoc {
			leftLevel, rightLevel = lvl+1, lvl
		}
		p.printExpr(d.Left, leftLevel)
		op := binOpText(d.Op)
		if isWordByte(op[0]) {
			p.printIdentifierLike(op)
		} else {
			p.print(op)
		}
		p.printExpr(d.Right, rightLevel)
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		p.printUnary(d, parentLevel)

	case *js_ast.EIf:
		wrap := levelConditional < parentLevel
		if wrap {
			p.print("(")
		}
		p.printExpr(d.Test, levelNullish+1)
		p.print("?")
		p.printExpr(d.Yes, levelAssign)
		p.print(":")
		p.printExpr(d.No, levelAssign)
		if wrap {
			p.print(")")
		}

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(d.Value, levelAssign)

	case *js_ast.EArray:
		p.print("[")
		for i, item := range d.Items {
			if i > 0 {
				p.print(",")
			}
			p.printExpr(item, levelAssign)
		}
		p.print("]")

	case *js_ast.EObject:
		wrap := parentLevel == levelLowest
		if wrap {
			p.print("(")
		}
		p.print("{")
		for i := range d.Properties {
			if i > 0 {
				p.print(",")
			}
			p.printObjectProperty(&d.Properties[i])
		}
		p.print("}")
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		p.printClass(&d.Class)

	case *js_ast.EFunction:
		p.printFn("function", &d.Fn)

	case *js_ast.EArrow:
		wrap := parentLevel > levelAssign
		if wrap {
			p.print("(")
		}
		if d.IsAsync {
			p.printIdentifierLike("async")
		}
		p.printParams(d.Args)
		p.print("=>")
		if d.BodyExpr.Data != nil {
			p.printExpr(d.BodyExpr, levelAssign)
		} else {
			p.print("{")
			p.printStmts(d.Body, false)
			p.print("}")
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.ETemplate:
		p.print("`")
		for i, part := range d.Parts {
			p.print(part)
			if i < len(d.Exprs) {
				p.print("${")
				p.printExpr(d.Exprs[i], levelLowest)
				p.print("}")
			}
		}
		p.print("`")

	case *js_ast.EJSXElement:
		p.printJSX(d)
	}
}

func (p *printer) printUnary(d *js_ast.EUnary, parentLevel level) {
	switch d.Op {
	case js_ast.UnOpPostInc:
		p.printExpr(d.Value, levelPostfix)
		p.print("++")
	case js_ast.UnOpPostDec:
		p.printExpr(d.Value, levelPostfix)
		p.print("--")
	default:
		wrap := levelPrefix < parentLevel
		if wrap {
			p.print("(")
		}
		switch d.Op {
		case js_ast.UnOpTypeof:
			p.printIdentifierLike("typeof")
			p.print(" ")
		case js_ast.UnOpVoid:
			p.printIdentifierLike("void")
			p.print(" ")
		case js_ast.UnOpDelete:
			p.printIdentifierLike("delete")
			p.print(" ")
		case js_ast.UnOpNeg:
			p.print("-")
		case js_ast.UnOpPos:
			p.print("+")
		case js_ast.UnOpNot:
			p.print("!")
		case js_ast.UnOpBitwiseNot:
			p.print("~")
		case js_ast.UnOpPreInc:
			p.print("++")
		case js_ast.UnOpPreDec:
			p.print("--")
		}
		p.printExpr(d.Value, levelPrefix)
		if wrap {
			p.print(")")
		}
	}
}

func (p *printer) printObjectProperty(prop *js_ast.Property) {
	if prop.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(prop.Value, levelAssign)
		return
	}
	if prop.Kind == js_ast.PropertyGetter || prop.Kind == js_ast.PropertySetter {
		if prop.Kind == js_ast.PropertyGetter {
			p.printIdentifierLike("get")
		} else {
			p.printIdentifierLike("set")
		}
	}
	if prop.Computed {
		p.print("[")
		p.printExpr(prop.Key, levelLowest)
		p.print("]")
	} else {
		p.printPropertyKey(prop.Key)
	}
	if prop.IsMethod {
		if efn, ok := prop.Value.Data.(*js_ast.EFunction); ok {
			p.printParams(efn.Fn.Args)
			p.print("{")
			p.printStmts(efn.Fn.Body, false)
			p.print("}")
		}
		return
	}
	if prop.Shorthand {
		return
	}
	p.print(":")
	p.printExpr(prop.Value, levelAssign)
}

func (p *printer) printJSX(d *js_ast.EJSXElement) {
	p.print("<")
	p.print(d.TagName)
	for _, attr := range d.Attrs {
		p.print(" ")
		p.print(attr.Name)
		if attr.Value.Data != nil {
			p.print("=")
			if s, ok := attr.Value.Data.(*js_ast.EString); ok {
				p.print(profit.Quote(s.Value))
			} else {
				p.print("{")
				p.printExpr(attr.Value, levelLowest)
				p.print("}")
			}
		}
	}
	if len(d.Children) == 0 {
		p.print("/>")
		return
	}
	p.print(">")
	for _, child := range d.Children {
		if jsx, ok := child.Data.(*js_ast.EJSXElement); ok {
			p.printJSX(jsx)
		} else {
			p.print("{")
			p.printExpr(child, levelLowest)
			p.print("}")
		}
	}
	p.print("</")
	p.print(d.TagName)
	p.print(">")
}

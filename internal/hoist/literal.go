package hoist

import (
	"sort"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/profit"
)

// stringBucket accumulates every site a given string value occurs at,
// spec.md §4.3's five string-shaped categories folded into the three the
// profit model actually distinguishes: value sites (literal/bracketAccess/
// stringKey — all three rewrite identically, an EString node becoming an
// EIdentifier node, see internal/profit's StringCounts doc), dot-access
// sites, and identifier-key sites (further split into object-property and
// class-member forms, which rewrite the same way but live on different
// struct types).
type stringBucket struct {
	value              string
	counts             profit.StringCounts
	valueSites         []*js_ast.Expr
	dotSites           []*js_ast.Expr
	identifierKeySites []*js_ast.Property
	classMemberSites   []*js_ast.ClassMember
}

type literalKind uint8

const (
	literalNumber literalKind = iota
	literalTrue
	literalFalse
	literalNull
	literalUndefined
	literalBigInt
)

type otherBucket struct {
	kind    literalKind
	num     float64
	bigint  string
	sites   []*js_ast.Expr
	reprLen int
}

type literalCollector struct {
	strings      map[string]*stringBucket
	stringOrder  []string
	others       []*otherBucket
	otherIndex   map[string]*otherBucket // "kind|value" -> bucket, preserves first-seen grouping
}

func newLiteralCollector() *literalCollector {
	return &literalCollector{strings: map[string]*stringBucket{}, otherIndex: map[string]*otherBucket{}}
}

func (c *literalCollector) stringBucketFor(s string) *stringBucket {
	b, ok := c.strings[s]
	if !ok {
		b = &stringBucket{value: s}
		c.strings[s] = b
		c.stringOrder = append(c.stringOrder, s)
	}
	return b
}

func (c *literalCollector) otherBucketFor(key string, kind literalKind, num float64, bigint string, reprLen int) *otherBucket {
	b, ok := c.otherIndex[key]
	if !ok {
		b = &otherBucket{kind: kind, num: num, bigint: bigint, reprLen: reprLen}
		c.otherIndex[key] = b
		c.others = append(c.others, b)
	}
	return b
}

// Literal runs spec.md §4.3 end to end: collect, decide, rewrite, emit. It
// returns true if anything was hoisted, in which case the corresponding
// declaration(s) have already been prepended to program.Body.
func Literal(program *js_ast.Program) bool {
	c := newLiteralCollector()
	collectLiterals(program, c)

	stringDecisions := decideStrings(c)
	otherDecisions := decideOthers(c)

	if len(stringDecisions) == 0 && len(otherDecisions) == 0 {
		return false
	}

	idx := 0
	var declStmts []js_ast.Stmt

	if len(stringDecisions) > 0 {
		names := make([]string, len(stringDecisions))
		values := make([]string, len(stringDecisions))
		for i, d := range stringDecisions {
			names[i] = placeholderName("literal", idx)
			values[i] = d.bucket.value
			idx++
		}
		for i, d := range stringDecisions {
			rewriteStringBucket(d, names[i])
		}

		usesSplitPack := false
		var delim byte
		if len(names) >= 7 {
			if dl, ok := profit.SplitPackDelimiter(values); ok {
				packCost := profit.SplitPackCost(names, values, dl)
				multiCost := profit.MultiDeclCost(names, values)
				if packCost < multiCost {
					usesSplitPack = true
					delim = dl
				}
			}
		}

		if usesSplitPack {
			items := make([]js_ast.ArrayBindingItem, len(names))
			for i, n := range names {
				items[i] = js_ast.ArrayBindingItem{Binding: &js_ast.BIdentifier{Name: n}}
			}
			packed := ""
			for i, v := range values {
				if i > 0 {
					packed += string(delim)
				}
				packed += v
			}
			splitCall := js_ast.Expr{Data: &js_ast.ECall{
				Target: js_ast.Expr{Data: &js_ast.EDot{
					Target: js_ast.Expr{Data: &js_ast.EString{Value: packed}},
					Name:   "split",
				}},
				Args: []js_ast.Expr{{Data: &js_ast.EString{Value: string(delim)}}},
			}}
			declStmts = append(declStmts, js_ast.Stmt{Data: &js_ast.SDecl{
				Kind: js_ast.DeclLet,
				Declarators: []js_ast.Declarator{{
					Binding: &js_ast.BArray{Items: items},
					Value:   splitCall,
				}},
			}})
		} else {
			decl := &js_ast.SDecl{Kind: js_ast.DeclConst}
			for i, n := range names {
				decl.Declarators = append(decl.Declarators, js_ast.Declarator{
					Binding: &js_ast.BIdentifier{Name: n},
					Value:   js_ast.Expr{Data: &js_ast.EString{Value: values[i]}},
				})
			}
			declStmts = append(declStmts, js_ast.Stmt{Data: decl})
		}
	}

	if len(otherDecisions) > 0 {
		decl := &js_ast.SDecl{Kind: js_ast.DeclConst}
		for _, d := range otherDecisions {
			name := placeholderName("literal", idx)
			idx++
			for _, site := range d.bucket.sites {
				site.Data = &js_ast.EIdentifier{Name: name}
			}
			decl.Declarators = append(decl.Declarators, js_ast.Declarator{
				Binding: &js_ast.BIdentifier{Name: name},
				Value:   literalValueExpr(d.bucket),
			})
		}
		declStmts = append(declStmts, js_ast.Stmt{Data: decl})
	}

	program.Body = append(declStmts, program.Body...)
	return true
}

func literalValueExpr(b *otherBucket) js_ast.Expr {
	switch b.kind {
	case literalNumber:
		return js_ast.Expr{Data: &js_ast.ENumber{Value: b.num}}
	case literalTrue:
		return js_ast.Expr{Data: &js_ast.EBoolean{Value: true}}
	case literalFalse:
		return js_ast.Expr{Data: &js_ast.EBoolean{Value: false}}
	case literalNull:
		return js_ast.Expr{Data: &js_ast.ENull{}}
	case literalUndefined:
		return js_ast.Expr{Data: &js_ast.EUndefined{}}
	default: // literalBigInt
		return js_ast.Expr{Data: &js_ast.EBigInt{Value: b.bigint}}
	}
}

////////////////////////////////////////////////////////////////////////////
// Decision phase

type stringDecision struct {
	bucket   *stringBucket
	decision profit.SelectiveDecision
	profit   int
	effective int
}

// decideStrings implements spec.md §4.3's decision phase for string values:
// admit candidates with profit > -2, classify profitable vs marginal,
// select by the documented thresholds, sort by effective occurrence count,
// then apply the first-declaration gate.
func decideStrings(c *literalCollector) []stringDecision {
	var all []stringDecision
	for _, s := range c.stringOrder {
		b := c.strings[s]
		d := profit.SelectiveStringProfit(s, b.counts, 1, false)
		if d.Profit <= -2 {
			continue
		}
		effective := 0
		if d.HoistLiterals {
			effective += b.counts.Literal
		}
		if d.HoistAccess {
			effective += b.counts.DotAccess
		}
		if d.HoistKeys {
			effective += b.counts.IdentifierKey
		}
		if effective < 2 {
			continue
		}
		all = append(all, stringDecision{bucket: b, decision: d, profit: d.Profit, effective: effective})
	}
	if len(all) == 0 {
		return nil
	}

	var profitable, marginal []stringDecision
	for _, d := range all {
		if d.profit > 0 {
			profitable = append(profitable, d)
		} else {
			marginal = append(marginal, d)
		}
	}

	var selected []stringDecision
	switch {
	case len(profitable) >= 7:
		selected = profitable
	case len(profitable)+len(marginal) >= 7:
		selected = append(selected, profitable...)
		selected = append(selected, marginal...)
	default:
		selected = profitable
	}
	if len(selected) == 0 {
		return nil
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].effective > selected[j].effective
	})

	return applyFirstDeclarationGate(selected)
}

// applyFirstDeclarationGate implements spec.md §4.3's "first-declaration
// gate": the first selected candidate must recoup the extra 5 bytes `const
// ` costs on its own; if the current first candidate cannot, it moves past
// it (dropping it if it was only marginal, deferring it for re-insertion
// right after the new first if it was itself profitable) until one that can
// is found, or the whole string hoist is abandoned.
func applyFirstDeclarationGate(selected []stringDecision) []stringDecision {
	firstIdx := -1
	for i, d := range selected {
		if d.profit-5 > 0 {
			firstIdx = i
			break
		}
	}
	if firstIdx == -1 {
		return nil
	}
	var deferred []stringDecision
	for i := 0; i < firstIdx; i++ {
		if selected[i].profit > 0 {
			deferred = append(deferred, selected[i])
		}
	}
	out := make([]stringDecision, 0, len(selected))
	out = append(out, selected[firstIdx])
	out = append(out, deferred...)
	out = append(out, selected[firstIdx+1:]...)
	return out
}

type otherDecision struct {
	bucket *otherBucket
	profit int
}

// decideOthers implements spec.md §4.3's non-string admission rule:
// occurrences >= 2, profit > 0, numbers with repr length <= 2 excluded.
// Non-strings always get their own `const` statement (Literal always emits
// them separately from any string decl, never as continuation declarators
// on the same statement), so the first admitted candidate always pays the
// full "const " keyword cost, regardless of whether a string hoist also ran.
func decideOthers(c *literalCollector) []otherDecision {
	var out []otherDecision
	usedFirst := false
	for _, b := range c.others {
		n := len(b.sites)
		if n < 2 {
			continue
		}
		if b.kind == literalNumber && b.reprLen <= 2 {
			continue
		}
		first := !usedFirst
		p := profit.LiteralHoistProfit(n, b.reprLen, 1, first)
		if p <= 0 {
			continue
		}
		if first {
			usedFirst = true
		}
		out = append(out, otherDecision{bucket: b, profit: p})
	}
	return out
}

func rewriteStringBucket(d stringDecision, placeholder string) {
	if d.decision.HoistLiterals {
		for _, site := range d.bucket.valueSites {
			site.Data = &js_ast.EIdentifier{Name: placeholder}
		}
	}
	if d.decision.HoistAccess {
		for _, site := range d.bucket.dotSites {
			dot := site.Data.(*js_ast.EDot)
			site.Data = &js_ast.EIndex{
				Target:        dot.Target,
				Index:         js_ast.Expr{Data: &js_ast.EIdentifier{Name: placeholder}},
				OptionalChain: dot.OptionalChain,
			}
		}
	}
	if d.decision.HoistKeys {
		for _, p := range d.bucket.identifierKeySites {
			p.Computed = true
			p.Key = js_ast.Expr{Data: &js_ast.EIdentifier{Name: placeholder}}
		}
		for _, m := range d.bucket.classMemberSites {
			m.Computed = true
			m.Key = js_ast.Expr{Data: &js_ast.EIdentifier{Name: placeholder}}
		}
	}
}

////////////////////////////////////////////////////////////////////////////
// Collection phase

// collectLiterals walks the whole program once, recording every site named
// in spec.md §4.3's category table via direct pointers into the tree so the
// rewrite phase can mutate in place without a second traversal.
func collectLiterals(program *js_ast.Program, c *literalCollector) {
	var walkExpr func(e *js_ast.Expr)
	var walkStmt func(s *js_ast.Stmt)
	var walkStmts func(list []js_ast.Stmt)

	addValueSite := func(e *js_ast.Expr, s string) {
		b := c.stringBucketFor(s)
		b.counts.Literal++
		b.valueSites = append(b.valueSites, e)
	}

	addOtherSite := func(e *js_ast.Expr, kind literalKind, key string, num float64, bigint string, reprLen int) {
		b := c.otherBucketFor(key, kind, num, bigint, reprLen)
		b.sites = append(b.sites, e)
	}

	walkExpr = func(e *js_ast.Expr) {
		if e == nil || e.Data == nil {
			return
		}
		switch d := e.Data.(type) {
		case *js_ast.EString:
			addValueSite(e, d.Value)

		case *js_ast.ENumber:
			addOtherSite(e, literalNumber, "num|"+profit.FormatNumber(d.Value), d.Value, "", profit.NumberLen(d.Value))

		case *js_ast.EBoolean:
			if d.Value {
				addOtherSite(e, literalTrue, "true", 0, "", 4)
			} else {
				addOtherSite(e, literalFalse, "false", 0, "", 5)
			}

		case *js_ast.ENull:
			addOtherSite(e, literalNull, "null", 0, "", 4)

		case *js_ast.EUndefined:
			addOtherSite(e, literalUndefined, "undefined", 0, "", 9)

		case *js_ast.EBigInt:
			addOtherSite(e, literalBigInt, "bigint|"+d.Value, 0, d.Value, len(d.Value)+1)

		case *js_ast.EDot:
			walkExpr(&d.Target)
			b := c.stringBucketFor(d.Name)
			b.counts.DotAccess++
			b.dotSites = append(b.dotSites, e)

		case *js_ast.EIndex:
			walkExpr(&d.Target)
			if s, ok := d.Index.Data.(*js_ast.EString); ok {
				b := c.stringBucketFor(s.Value)
				b.counts.Literal++
				b.valueSites = append(b.valueSites, &d.Index)
			} else {
				walkExpr(&d.Index)
			}

		case *js_ast.ECall:
			walkExpr(&d.Target)
			for i := range d.Args {
				walkExpr(&d.Args[i])
			}

		case *js_ast.ENew:
			walkExpr(&d.Target)
			for i := range d.Args {
				walkExpr(&d.Args[i])
			}

		case *js_ast.EBinary:
			walkExpr(&d.Left)
			walkExpr(&d.Right)

		case *js_ast.EUnary:
			walkExpr(&d.Value)

		case *js_ast.EIf:
			walkExpr(&d.Test)
			walkExpr(&d.Yes)
			walkExpr(&d.No)

		case *js_ast.ESpread:
			walkExpr(&d.Value)

		case *js_ast.EArray:
			for i := range d.Items {
				walkExpr(&d.Items[i])
			}

		case *js_ast.EObject:
			for i := range d.Properties {
				p := &d.Properties[i]
				switch {
				case p.Computed:
					if s, ok := p.Key.Data.(*js_ast.EString); ok {
						// stringKey: {["s"]: v} — already computed, the key's
						// EString is itself a value site.
						b := c.stringBucketFor(s.Value)
						b.counts.Literal++
						b.valueSites = append(b.valueSites, &p.Key)
					} else {
						walkExpr(&p.Key)
					}
				case p.Shorthand, p.IsMethod, p.Kind != js_ast.PropertyField:
					// skip: shorthand / method / accessor keys are never
					// rewrite targets (spec.md §4.3 "Skips").
				default:
					if s, ok := p.Key.Data.(*js_ast.EString); ok {
						b := c.stringBucketFor(s.Value)
						b.counts.IdentifierKey++
						b.identifierKeySites = append(b.identifierKeySites, p)
					}
				}
				if p.Value.Data != nil {
					walkExpr(&p.Value)
				}
			}

		case *js_ast.EClass:
			walkClassLiterals(&d.Class, walkExpr, walkStmts, c)

		case *js_ast.EFunction:
			walkStmts(d.Fn.Body)

		case *js_ast.EArrow:
			for i := range d.Args {
				if d.Args[i].Default.Data != nil {
					walkExpr(&d.Args[i].Default)
				}
			}
			walkStmts(d.Body)
			if d.BodyExpr.Data != nil {
				walkExpr(&d.BodyExpr)
			}

		case *js_ast.ETemplate:
			for i := range d.Exprs {
				walkExpr(&d.Exprs[i])
			}

		case *js_ast.EJSXElement:
			for i := range d.Attrs {
				if d.Attrs[i].Value.Data != nil {
					walkExpr(&d.Attrs[i].Value)
				}
			}
			for i := range d.Children {
				walkExpr(&d.Children[i])
			}
		}
	}

	walkStmt = func(s *js_ast.Stmt) {
		if s == nil || s.Data == nil {
			return
		}
		switch d := s.Data.(type) {
		case *js_ast.SExpr:
			walkExpr(&d.Value)
		case *js_ast.SDecl:
			for i := range d.Declarators {
				if d.Declarators[i].Value.Data != nil {
					walkExpr(&d.Declarators[i].Value)
				}
			}
		case *js_ast.SReturn:
			if d.Value.Data != nil {
				walkExpr(&d.Value)
			}
		case *js_ast.SThrow:
			walkExpr(&d.Value)
		case *js_ast.SIf:
			walkExpr(&d.Test)
			walkStmt(&d.Yes)
			if d.No != nil {
				walkStmt(d.No)
			}
		case *js_ast.SBlock:
			walkStmts(d.Stmts)
		case *js_ast.SWhile:
			walkExpr(&d.Test)
			walkStmt(&d.Body)
		case *js_ast.SDoWhile:
			walkStmt(&d.Body)
			walkExpr(&d.Test)
		case *js_ast.SFor:
			if d.Init != nil {
				walkStmt(d.Init)
			}
			if d.Test.Data != nil {
				walkExpr(&d.Test)
			}
			if d.Update.Data != nil {
				walkExpr(&d.Update)
			}
			walkStmt(&d.Body)
		case *js_ast.SForIn:
			if d.Decl != nil {
				for i := range d.Decl.Declarators {
					if d.Decl.Declarators[i].Value.Data != nil {
						walkExpr(&d.Decl.Declarators[i].Value)
					}
				}
			} else if d.Init.Data != nil {
				walkExpr(&d.Init)
			}
			walkExpr(&d.Value)
			walkStmt(&d.Body)
		case *js_ast.STry:
			walkStmts(d.Body)
			if d.Catch != nil {
				walkStmts(d.Catch.Body)
			}
			if d.Finally != nil {
				walkStmts(d.Finally)
			}
		case *js_ast.SSwitch:
			walkExpr(&d.Test)
			for i := range d.Cases {
				if d.Cases[i].Test.Data != nil {
					walkExpr(&d.Cases[i].Test)
				}
				walkStmts(d.Cases[i].Body)
			}
		case *js_ast.SLabel:
			walkStmt(&d.Stmt)
		case *js_ast.SFunction:
			walkStmts(d.Fn.Body)
		case *js_ast.SClass:
			walkClassLiterals(&d.Class, walkExpr, walkStmts, c)
		case *js_ast.SExportDecl:
			walkStmt(&d.Decl)
		case *js_ast.SExportDefault:
			if d.Value.Data != nil {
				walkExpr(&d.Value)
			}
		}
	}

	walkStmts = func(list []js_ast.Stmt) {
		for i := range list {
			walkStmt(&list[i])
		}
	}

	walkStmts(program.Body)
}

func walkClassLiterals(class *js_ast.Class, walkExpr func(*js_ast.Expr), walkStmts func([]js_ast.Stmt), c *literalCollector) {
	if class.Extends.Data != nil {
		walkExpr(&class.Extends)
	}
	for i := range class.Members {
		m := &class.Members[i]
		switch {
		case m.Computed:
			walkExpr(&m.Key)
		case m.IsPrivate, m.Kind == js_ast.ClassMemberConstructor:
			// skip: private names and the constructor key are never rewrite
			// targets (spec.md §4.3 "classMember ... non-constructor").
		default:
			if s, ok := m.Key.Data.(*js_ast.EString); ok {
				b := c.stringBucketFor(s.Value)
				b.counts.IdentifierKey++
				b.classMemberSites = append(b.classMemberSites, m)
			}
		}
		if m.Value.Data == nil {
			continue
		}
		if fn, ok := m.Value.Data.(*js_ast.EFunction); ok {
			walkStmts(fn.Fn.Body)
			continue
		}
		walkExpr(&m.Value)
	}
}

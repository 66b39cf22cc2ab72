// Package mangle implements the identifier mangler (spec.md §4.4): a
// bijective index-to-name alphabet generator grounded on the teacher's
// NameMinifier.NumberToMinifiedName, a per-scope reserved-name computation
// grounded on the teacher's renamer.ComputeReservedNames, and a
// frequency-ranked assignment walk grounded on the teacher's
// MinifyRenamer/AssignNamesByFrequency. Unlike the teacher, this module has
// no cross-file symbol table: scopes and bindings come from
// internal/scope's single-file side table, keyed by node identity rather
// than esbuild's ast.Ref indices (see DESIGN.md).
package mangle

import (
	"sort"

	"github.com/mahdisbetter/niu/internal/js_ast"
	"github.com/mahdisbetter/niu/internal/scope"
)

// alphabet is spec.md §4.4's ordered start-character set, 54 characters
// long (see DESIGN.md open-question 3 for the 54-vs-55 discrepancy in the
// literal spec text): lowercase English letters in descending
// letter-frequency order, the same uppercase letters, then $ and _.
const alphabet = "etaonirshldcumfpgwybvkxjqzETAONIRSHLDCUMFPGWYBVKXJQZ$_"

// NumberToName is the bijection from a non-negative index to a JS
// identifier-shaped name: the first len(alphabet) indices are single
// characters in the fixed order above; every index past that appends
// additional characters from the same alphabet, one per power of
// len(alphabet) — a direct generalization of the teacher's
// NumberToMinifiedName to a single fixed alphabet (spec.md's scheme has no
// separate head/tail tables, unlike the teacher's frequency-sorted one).
func NumberToName(i int) string {
	n := len(alphabet)
	j := i % n
	name := alphabet[j : j+1]
	i = i/n - 1
	for i >= 0 {
		j := i % n
		name += alphabet[j : j+1]
		i = i/n - 1
	}
	return name
}

// Mangle runs spec.md §4.4 over the whole scope tree produced by
// scope.Analyze, renaming bindings in place (including every reference and
// write-target identifier already linked to each Binding by the analyzer),
// then sweeps the tree once more for any leftover `__niu_` placeholder
// occurrence the printer's re-parse may not have linked to a binding.
func Mangle(program *js_ast.Program, root *scope.Scope) {
	var walk func(s *scope.Scope)

	walk = func(s *scope.Scope) {
		reserved := computeReservedNames(s, root)

		type ranked struct {
			name    string
			binding *scope.Binding
		}
		var bindings []ranked
		for name, b := range s.Bindings {
			bindings = append(bindings, ranked{name: name, binding: b})
		}
		// Stable tie-break by declaration order requires a deterministic
		// base order before the reference-count sort; original declared
		// name is the closest available proxy for "declaration order" this
		// side table keeps (internal/scope does not separately number
		// declaration sites).
		sort.Slice(bindings, func(i, j int) bool { return bindings[i].name < bindings[j].name })
		sort.SliceStable(bindings, func(i, j int) bool {
			return bindings[i].binding.TotalUses() > bindings[j].binding.TotalUses()
		})

		idx := 0
		for _, r := range bindings {
			if r.binding.Pinned {
				// Exported bindings keep their source name; still reserve
				// it so no sibling/descendant binding collides with it.
				reserved[r.binding.Name] = true
				continue
			}
			var next string
			for {
				next = NumberToName(idx)
				idx++
				if js_ast.ReservedWords[next] {
					continue
				}
				if reserved[next] {
					continue
				}
				break
			}
			r.binding.NewName = next
			reserved[next] = true
			renameBinding(r.binding, next)
		}

		for _, child := range s.Children {
			walk(child)
		}
	}

	walk(root)
	sweepPlaceholders(program, root)
}

// computeReservedNames implements spec.md §4.4's per-scope reserved set:
// every name some ancestor scope already renamed a binding to (provided
// that binding has at least one reference reaching into s or a descendant
// of s), plus every free global name visible anywhere in the program.
// Grounded on the teacher's renamer.computeReservedNamesForScope, simplified
// to this module's single-pass side table (no cross-module export surface
// to additionally reserve). Globals aren't scoped in this side table (they
// are collected once, program-wide, by scope.Analyze), so root.Globals is
// reserved in full rather than filtered to what's visible from s — the same
// conservative over-reservation bindingReachesInto already accepts for
// ancestor bindings, and for the same reason: a mangled name colliding with
// a free global (jQuery's `$`, lodash's `_`, both in the mangler's own
// alphabet) changes behavior, so it can never be assigned anywhere.
func computeReservedNames(s *scope.Scope, root *scope.Scope) map[string]bool {
	reserved := map[string]bool{}
	for name := range root.Globals {
		reserved[name] = true
	}
	for anc := s.Parent; anc != nil; anc = anc.Parent {
		for _, b := range anc.Bindings {
			if b.NewName == "" {
				continue
			}
			if bindingReachesInto(b, s) {
				reserved[b.NewName] = true
			}
		}
	}
	return reserved
}

func bindingReachesInto(b *scope.Binding, s *scope.Scope) bool {
	// References/Violations don't carry their own lexical scope pointer in
	// this side table (internal/scope records identifiers, not the scope
	// they were resolved from); a binding visible to any descendant of its
	// declaring scope is conservatively treated as reaching every
	// descendant, which can only over-reserve a name and never causes an
	// incorrect (colliding) rename.
	return b.Scope.IsAncestorOf(s)
}

func renameBinding(b *scope.Binding, name string) {
	for _, ptr := range b.DeclSites {
		*ptr = name
	}
	for _, id := range b.References {
		id.Name = name
	}
	for _, id := range b.Violations {
		id.Name = name
	}
}

// sweepPlaceholders implements spec.md §4.4's defensive final pass: any
// identifier whose original name began with "__niu_" is tracked by its
// assigned replacement, and every remaining raw occurrence of the original
// placeholder name anywhere in the globals map is swept to match — this
// only fires if a placeholder somehow escaped the binding-reference list
// the hoist passes built (defense in depth, not the common path).
func sweepPlaceholders(program *js_ast.Program, root *scope.Scope) {
	placeholderRenames := map[string]string{}
	var collect func(s *scope.Scope)
	collect = func(s *scope.Scope) {
		for name, b := range s.Bindings {
			if len(name) >= 6 && name[:6] == "__niu_" && b.NewName != "" {
				placeholderRenames[name] = b.NewName
			}
		}
		for _, c := range s.Children {
			collect(c)
		}
	}
	collect(root)
	if len(placeholderRenames) == 0 {
		return
	}
	for name, ids := range root.Globals {
		if newName, ok := placeholderRenames[name]; ok {
			for _, id := range ids {
				id.Name = newName
			}
		}
	}
}

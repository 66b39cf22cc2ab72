package js_ast

// IsIdentifier reports whether text is a valid JavaScript identifier name
// (the ASCII-only subset the mangler ever generates and the dot-access
// category in spec.md §4.3 ever tests a property name against). Full
// unicode identifier-start/continue tables (as the teacher's js_ident.go
// carries for arbitrary source identifiers) are not needed here since every
// name this module *produces* is drawn from the mangler's fixed ASCII
// alphabet and every name it *tests* for dot-access eligibility is a source
// property name already known to be printable without escaping.
func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if i == 0 {
			if !isIdentifierStart(c) {
				return false
			}
		} else if !isIdentifierPart(c) {
			return false
		}
	}
	return true
}

func isIdentifierStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

// ReservedWords is the glossary's "Reserved word list (for generator
// skipping)" from spec.md verbatim: every name the mangler must never assign
// because it is a keyword, a contextual keyword, or a value that changes
// the meaning of the position it would be renamed into.
var ReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "finally": true, "for": true, "function": true,
	"if": true, "in": true, "instanceof": true, "new": true,
	"return": true, "switch": true, "this": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "class": true, "const": true,
	"enum": true, "export": true, "extends": true, "import": true,
	"super": true, "implements": true, "interface": true, "let": true,
	"package": true, "private": true, "protected": true, "public": true,
	"static": true, "yield": true, "null": true, "true": true,
	"false": true, "undefined": true, "NaN": true, "Infinity": true,
	"eval": true, "arguments": true,
}

// ContextualGlobalKeywords are the names spec.md §4.2 excludes from being
// the *object* of a dot-access global-hoist candidate count, because they
// are not ordinary free identifiers (`this`, `super`, `arguments`) or
// because hoisting them into a const binding would change semantics or is
// simply nonsensical (`undefined`, `NaN`, `Infinity`, `null`, `true`,
// `false` are literals/keywords, never free identifiers, but are listed
// defensively since a permissive parser could mis-lower them).
var ContextualGlobalKeywords = map[string]bool{
	"arguments": true, "this": true, "super": true, "undefined": true,
	"NaN": true, "Infinity": true, "null": true, "true": true, "false": true,
}

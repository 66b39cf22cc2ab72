// Package profit is the pure byte-cost model shared by every hoisting pass
// (spec.md §4.1). It has no dependency on internal/js_ast or internal/scope:
// every function here takes integers and strings and returns a signed
// integer count of output bytes, positive meaning savings. Grounded
// directly on spec.md §4.1 — the teacher has no equivalent pass (esbuild
// never hoists by byte cost), so this package is original to this module,
// built the way the teacher builds its own small pure-function packages
// (internal/compat): plain functions, table-driven tests, no state.
package profit

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// QuoteLen returns the length, in bytes, of the JSON-quoted form of s —
// spec.md §3's "standard JSON-style escaping" R(string) primitive. Go's own
// encoding/json string quoting *is* that standard (double-quoted, \n \t \\
// \" and \uXXXX escapes for control characters and U+2028/U+2029), so no
// third-party quoting library is reached for here — see DESIGN.md.
func QuoteLen(s string) int {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal(string) cannot fail for well-formed UTF-8; a
		// malformed string was already rejected by the parser.
		panic("profit: cannot quote invalid string: " + err.Error())
	}
	return len(b)
}

// Quote returns the JSON-quoted form itself, used by the printer and by
// split-packing to build the concatenated literal.
func Quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		panic("profit: cannot quote invalid string: " + err.Error())
	}
	return string(b)
}

// NumberLen returns the length of the canonical shortest decimal form of a
// numeric literal's value, matching the printer's printNumber output
// (internal/js_printer), so that the cost model and the printer can never
// disagree about a number's printed length.
func NumberLen(value float64) int {
	return len(FormatNumber(value))
}

// FormatNumber renders value the way internal/js_printer would print it:
// the shortest round-trip decimal form, JS-style (no leading "+", bare
// exponents use "e" not "E").
func FormatNumber(value float64) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	if math.IsInf(value, 1) {
		return "1/0"
	}
	if math.IsInf(value, -1) {
		return "-1/0"
	}
	s := strconv.FormatFloat(value, 'g', -1, 64)
	// Go emits "1e+06"/"1e-06"; JS emits "1e6"/"1e-6".
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp := s[:i], s[i+1:]
		sign := ""
		if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
			if exp[0] == '-' {
				sign = "-"
			}
			exp = exp[1:]
		}
		exp = strings.TrimLeft(exp, "0")
		if exp == "" {
			exp = "0"
		}
		s = mantissa + "e" + sign + exp
	}
	// The exponent form 'g' picks can be longer than the plain decimal form
	// (1.234567e6 vs 1234567); keep whichever is shorter.
	if f := strconv.FormatFloat(value, 'f', -1, 64); len(f) < len(s) {
		s = f
	}
	return s
}

// R computes the literal representation length for the five literal kinds
// named in spec.md §4.1 plus bigint. Kind is one of "string", "number",
// "true", "false", "null", "undefined", "bigint".
func R(kind string, stringValue string, numberValue float64) int {
	switch kind {
	case "string":
		return QuoteLen(stringValue)
	case "number":
		return NumberLen(numberValue)
	case "true":
		return 4
	case "false":
		return 5
	case "null":
		return 4
	case "undefined":
		return 9
	case "bigint":
		return len(stringValue) + 1
	default:
		panic("profit: unknown literal kind " + kind)
	}
}

// D is the declaration cost for one hoisted binding, spec.md §4.1:
//
//	first:      6 + id + 1 + R   ("const⎵X=V")
//	subsequent: 1 + id + 1 + R   (",X=V")
func D(reprLen, idLen int, first bool) int {
	if first {
		return 6 + idLen + 1 + reprLen
	}
	return 1 + idLen + 1 + reprLen
}

// LiteralHoistProfit is spec.md §4.1's literal hoist profit formula:
//
//	profit = n*R - D(R,id,first) - n*id
func LiteralHoistProfit(occurrences, reprLen, idLen int, first bool) int {
	return occurrences*reprLen - D(reprLen, idLen, first) - occurrences*idLen
}

// DotAccessGate is spec.md §4.1's per-occurrence gate for rewriting `.p` to
// `[X]`: profitable only when `.p` is longer than `[X]`, i.e. when the
// property name is longer than the placeholder plus one byte.
func DotAccessGate(propNameLen, idLen int) bool {
	return propNameLen > 1+idLen
}

// DotAccessProfit compares n*(1+L) ("." + name per use) against the cost of
// hoisting the name plus n*(2+id) ("[X]" per use).
func DotAccessProfit(occurrences, propNameLen, idLen int, first bool) int {
	return occurrences*(1+propNameLen) - D(QuoteLenForName(propNameLen), idLen, first) - occurrences*(2+idLen)
}

// QuoteLenForName is a small helper: callers that already know a property
// name's raw length but not its exact text still need the JSON-quoted
// length for the declaration cost. Real call sites (internal/hoist) always
// have the actual string and call profit.QuoteLen directly; this exists
// only so profit.go's own formulas stay self-contained for table tests that
// work from lengths rather than concrete strings. For an identifier-shaped
// property name (the only names dot-access ever applies to) quoting adds
// exactly 2 bytes (the surrounding quotes) and no escaping, since identifier
// characters never need JSON escapes.
func QuoteLenForName(nameLen int) int {
	return nameLen + 2
}

// ObjectKeyGate is spec.md §4.1's per-occurrence gate for rewriting a
// shorthand-free identifier key `k:` to a computed key `[X]:`.
func ObjectKeyGate(keyLen, idLen int) bool {
	return keyLen > 2+idLen
}

// ObjectKeyProfit compares n*L (`k:`) against hoisting plus n*(2+id) (`[X]:`).
func ObjectKeyProfit(occurrences, keyLen, idLen int, first bool) int {
	return occurrences*keyLen - D(QuoteLenForName(keyLen), idLen, first) - occurrences*(2+idLen)
}

// GlobalHoistProfit is spec.md §4.1's global hoist profit: globals hoist
// verbatim (no quoting), so R is just the name's byte length.
func GlobalHoistProfit(occurrences, nameLen, idLen int, first bool) int {
	return occurrences*nameLen - D(nameLen, idLen, first) - occurrences*idLen
}

// StringCounts is the per-string occurrence tally spec.md §4.1's "selective
// string profit" works from: literal uses, dot-access uses, and
// identifier-key uses (spec.md §4.3's `literal`/`bracketAccess`/`stringKey`
// categories are folded into L since they all cost R per use and save R-id
// per use, identically to a bare literal).
type StringCounts struct {
	Literal       int // literal / bracketAccess / stringKey occurrences combined
	DotAccess     int
	IdentifierKey int
}

// SelectiveDecision is the result of SelectiveStringProfit.
type SelectiveDecision struct {
	Profit        int
	HoistLiterals bool
	HoistAccess   bool
	HoistKeys     bool
}

// SelectiveStringProfit implements spec.md §4.1's selective string profit:
// zero out the P/K counts whose per-occurrence gate fails, require the
// remaining effective count >= 2, then sum original vs. new costs of the
// included categories plus one declaration.
func SelectiveStringProfit(s string, counts StringCounts, idLen int, first bool) SelectiveDecision {
	reprLen := QuoteLen(s)
	propLen := len(s)

	hoistAccess := counts.DotAccess > 0 && DotAccessGate(propLen, idLen)
	hoistKeys := counts.IdentifierKey > 0 && ObjectKeyGate(propLen, idLen)

	effective := counts.Literal
	if hoistAccess {
		effective += counts.DotAccess
	}
	if hoistKeys {
		effective += counts.IdentifierKey
	}
	if effective < 2 {
		return SelectiveDecision{}
	}

	oldCost := counts.Literal * reprLen
	newCost := counts.Literal * idLen
	if hoistAccess {
		oldCost += counts.DotAccess * (1 + propLen)
		newCost += counts.DotAccess * (2 + idLen)
	}
	if hoistKeys {
		oldCost += counts.IdentifierKey * propLen
		newCost += counts.IdentifierKey * (2 + idLen)
	}

	declCost := D(reprLen, idLen, first)
	profit := oldCost - newCost - declCost

	return SelectiveDecision{
		Profit:        profit,
		HoistLiterals: counts.Literal > 0,
		HoistAccess:   hoistAccess,
		HoistKeys:     hoistKeys,
	}
}

// SplitPackDelimiter finds a single-byte delimiter for spec.md §4.1's
// split-packing, in the documented preference order: first a byte from the
// preferred punctuation set absent from every string; else the first
// printable ASCII byte (32-126) that is not a JS string-escape trigger and
// is absent from every string; else ok=false (fall back to non-packed
// emission, spec.md §7 "No valid delimiter").
func SplitPackDelimiter(values []string) (delim byte, ok bool) {
	const preferred = ",;:|!@#$%^&*~`<>?/-_=+.()[]{}"
	for i := 0; i < len(preferred); i++ {
		if delimiterIsFree(preferred[i], values) {
			return preferred[i], true
		}
	}
	for b := byte(32); b <= 126; b++ {
		if isEscapeTrigger(b) {
			continue
		}
		if delimiterIsFree(b, values) {
			return b, true
		}
	}
	return 0, false
}

func isEscapeTrigger(b byte) bool {
	switch b {
	case '"', '\'', '\\', '\r', '\n':
		return true
	}
	return false
}

func delimiterIsFree(b byte, values []string) bool {
	for _, v := range values {
		if strings.IndexByte(v, b) >= 0 {
			return false
		}
	}
	return true
}

// SplitPackCost computes the byte cost of
// `let [X0,X1,...]="v1Dv2D...".split("D")` for the given binding names (in
// declaration order) and their string values.
func SplitPackCost(names []string, values []string, delim byte) int {
	// "let [" + names joined by "," + "]=" + quoted-packed + ".split(" + quoted-delim + ")"
	cost := len("let [")
	for i, n := range names {
		if i > 0 {
			cost++ // comma
		}
		cost += len(n)
	}
	cost += len("]=")
	packed := strings.Join(values, string(delim))
	cost += QuoteLen(packed)
	cost += len(".split(")
	cost += QuoteLen(string(delim))
	cost += len(")")
	return cost
}

// MultiDeclCost computes the byte cost of emitting the same bindings as a
// plain multi-declarator `const X0="v1",X1="v2",...` statement, for
// comparison against SplitPackCost.
func MultiDeclCost(names []string, values []string) int {
	cost := 0
	for i, n := range names {
		reprLen := QuoteLen(values[i])
		cost += D(reprLen, len(n), i == 0)
	}
	return cost
}

package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLen(t *testing.T) {
	assert.Equal(t, len(`"abc"`), QuoteLen("abc"))
	assert.Equal(t, len(`"hello"`), QuoteLen("hello"))
	assert.Equal(t, `"abc"`, Quote("abc"))
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:     "0",
		1:     "1",
		-1:    "-1",
		1.5:   "1.5",
		100:   "100",
		1e21:  "1e21",
		1e-7:  "1e-7",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "input=%v", in)
	}
}

func TestDDeclarationCost(t *testing.T) {
	// const X="abc" -> "const " + "X" + "=" + "\"abc\""
	reprLen := QuoteLen("abc")
	require.Equal(t, 6+1+1+reprLen, D(reprLen, 1, true))
	require.Equal(t, 1+1+1+reprLen, D(reprLen, 1, false))
}

func TestLiteralHoistProfitBreakEven(t *testing.T) {
	// spec.md §8 scenario 1: three copies of "abc" should not be worth
	// hoisting (net unchanged or negative); four copies should be.
	reprLen := QuoteLen("abc")
	threeProfit := LiteralHoistProfit(3, reprLen, 1, true)
	fourProfit := LiteralHoistProfit(4, reprLen, 1, true)
	assert.LessOrEqual(t, threeProfit, 0)
	assert.Greater(t, fourProfit, 0)
}

func TestDotAccessGate(t *testing.T) {
	// "x" (len 1) is never worth rewriting with a 1-char placeholder.
	assert.False(t, DotAccessGate(1, 1))
	// "something" (len 9) comfortably clears the gate.
	assert.True(t, DotAccessGate(len("something"), 1))
}

func TestSelectiveStringProfitRequiresTwoEffectiveUses(t *testing.T) {
	d := SelectiveStringProfit("abc", StringCounts{Literal: 1}, 1, false)
	assert.Equal(t, SelectiveDecision{}, d)
}

func TestSplitPackDelimiterAvoidsCharactersPresent(t *testing.T) {
	values := []string{"a,b", "c;d", "e:f"}
	delim, ok := SplitPackDelimiter(values)
	require.True(t, ok)
	for _, v := range values {
		assert.NotContains(t, v, string(delim))
	}
}

func TestSplitPackDelimiterFailsWhenExhausted(t *testing.T) {
	// A value containing every printable ASCII byte except control/escape
	// characters leaves no free delimiter.
	var all []byte
	for b := byte(32); b <= 126; b++ {
		if b == '"' || b == '\'' || b == '\\' {
			continue
		}
		all = append(all, b)
	}
	_, ok := SplitPackDelimiter([]string{string(all)})
	assert.False(t, ok)
}

func TestMultiDeclCostMatchesD(t *testing.T) {
	names := []string{"a", "b"}
	values := []string{"x", "yy"}
	want := D(QuoteLen("x"), 1, true) + D(QuoteLen("yy"), 1, false)
	assert.Equal(t, want, MultiDeclCost(names, values))
}

package effects

import (
	"errors"
	"regexp"
	"testing"

	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingCatalog(t *testing.T) {
	all := Easings()
	require.Len(t, all, 37)

	seen := map[string]bool{}
	for _, e := range all {
		assert.False(t, seen[e.String()], "duplicate easing name %s", e)
		seen[e.String()] = true
		assert.NotEmpty(t, e.Expr(), e.String())
	}
}

var registerRef = regexp.MustCompile(`\b(ld|st)\((\d+)`)

func TestEasingExpressionsAreSelfContained(t *testing.T) {
	for _, e := range Easings() {
		expr := e.Expr()
		t.Run(e.String(), func(t *testing.T) {
			depth := 0
			for _, r := range expr {
				switch r {
				case '(':
					depth++
				case ')':
					depth--
				}
				require.GreaterOrEqual(t, depth, 0, "closing paren before opening in %q", expr)
			}
			assert.Zero(t, depth, "unbalanced parentheses in %q", expr)

			assert.Regexp(t, `^st\(0, `, expr)
			for _, m := range registerRef.FindAllStringSubmatch(expr, -1) {
				assert.Contains(t, []string{"0", "1", "2"}, m[2], "register out of range in %q", expr)
			}
			assert.NotContains(t, expr, "\n")
			assert.NotContains(t, expr, "  ")
		})
	}
}

func TestEasingPinnedExpressions(t *testing.T) {
	assert.Equal(t, "st(0, if(lt(ld(0), 0.5), 4 * ld(0)^3, 1 - 4 * (1-ld(0))^3))", CubicInOut.Expr())
	assert.Equal(t, "st(0, ld(0))", Linear.Expr())
	assert.Equal(t, "st(0, st(1, 121/16); if(lt(ld(0), 4/11), ld(1) * ld(0) * ld(0), "+
		"if(lt(ld(0), 8/11), ld(1) * (ld(0) - 6/11)^2 + 3/4, "+
		"if(lt(ld(0), 10/11), ld(1) * (ld(0) - 9/11)^2 + 15/16, "+
		"ld(1) * (ld(0) - 21/22)^2 + 63/64))))", BounceOut.Expr())
	assert.Equal(t, CubicInOut, DefaultEasing)
}

func TestParseEasing(t *testing.T) {
	for _, in := range []string{"cubic-in-out", "cubic_in_out", "CUBIC_IN_OUT", " Cubic-In-Out "} {
		e, err := ParseEasing(in)
		require.NoError(t, err, in)
		assert.Equal(t, CubicInOut, e)
	}

	_, err := ParseEasing("wobbly")
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))

	var e Easing
	require.NoError(t, e.UnmarshalText([]byte("bounce-in")))
	assert.Equal(t, BounceIn, e)
	text, err := e.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "bounce-in", string(text))

	assert.False(t, Easing(99).Valid())
	assert.Equal(t, "", Easing(99).Expr())
}

func TestTransitionCatalog(t *testing.T) {
	all := Transitions()
	require.Len(t, all, 58)
	seen := map[Transition]bool{}
	for _, tr := range all {
		assert.False(t, seen[tr], "duplicate transition %s", tr)
		seen[tr] = true
		assert.Regexp(t, `^[a-z]+$`, tr.String())
	}

	tr, err := ParseTransition("WipeLeft")
	require.NoError(t, err)
	assert.Equal(t, WipeLeft, tr)

	_, err = ParseTransition("spin")
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
	assert.Equal(t, Fade, DefaultTransition)
}

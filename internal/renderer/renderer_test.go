package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterString(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{"bare", NewFilter("null"), "null"},
		{"ordered", NewFilter("crop").SetInt("w", 640).SetInt("h", 360), "crop=w=640:h=360"},
		{"reset keeps position", NewFilter("pad").Set("w", "1").Set("h", "2").Set("w", "3"), "pad=w=3:h=2"},
		{"comma quoted", NewFilter("zoompan").Set("z", "clip(t, 0, 1)"), "zoompan=z='clip(t, 0, 1)'"},
		{"semicolon quoted", NewFilter("zoompan").Set("z", "st(0, 1);ld(0)"), "zoompan=z='st(0, 1);ld(0)'"},
		{"plain expression raw", NewFilter("zoompan").Set("x", "(iw+iw*0)/2-(iw/zoom/2)"), "zoompan=x=(iw+iw*0)/2-(iw/zoom/2)"},
		{"float", NewFilter("xfade").SetFloat("offset", 5.5).SetFloat("duration", 1), "xfade=offset=5.5:duration=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.String())
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	values := []string{
		"",
		"plain",
		"a,b",
		"st(0, clip(time / 5, 0, 1));st(0, ld(0));lerp(1, 2, ld(0))",
		"it's",
		"'",
		"''",
		`back\slash`,
		"[pad]",
		"640x480:fps=25",
		"a,'b';c",
	}
	for _, v := range values {
		got, err := Unescape(Escape(v))
		require.NoError(t, err, v)
		assert.Equal(t, v, got)
	}
}

func TestEscapeLeavesPlainValuesAlone(t *testing.T) {
	assert.Equal(t, "1.6363636363636365", Escape("1.6363636363636365"))
	assert.Equal(t, "'a,b'", Escape("a,b"))
	assert.Equal(t, `'it'\''s'`, Escape("it's"))
}

func TestEscapeKeepsGraphSeparatorsInValue(t *testing.T) {
	expr := "st(0, clip(time / 5, 0, 1));lerp(1, 2, ld(0))"
	text := NewFilter("zoompan").Set("z", expr).Set("d", "125").String()

	assert.Equal(t, "zoompan=z='"+expr+"':d=125", text)
	assert.Len(t, splitTop(text, ';'), 1)
	assert.Len(t, splitTop(text, ','), 1)
	// One level of quotes: the value is not escaped again for the option parser.
	assert.Equal(t, "'a:b'", Escape("a:b"))
}

func TestUnescapeErrors(t *testing.T) {
	_, err := Unescape("'open")
	assert.Error(t, err)
	_, err = Unescape(`trailing\`)
	assert.Error(t, err)
}

func TestChainAndGraphString(t *testing.T) {
	first := NewChain(
		NewFilter("zoompan").Set("z", "1"),
		NewFilter("setsar").Set("sar", "1"),
	).From("0").To("pz0")
	second := NewChain(NewFilter("setsar").Set("sar", "1")).From("1").To("pz1")
	fade := NewChain(NewFilter("xfade").Set("transition", "fade")).From("pz0", "pz1")

	assert.Equal(t, "[0]zoompan=z=1,setsar=sar=1[pz0]", first.String())
	assert.Equal(t, "pz0", first.Output())
	assert.Equal(t, "", fade.Output())
	assert.Equal(t, "setsar=sar=1", NewChain(NewFilter("setsar").Set("sar", "1")).String())

	g := NewGraph(first, second).Add(fade)
	assert.Equal(t,
		"[0]zoompan=z=1,setsar=sar=1[pz0];[1]setsar=sar=1[pz1];[pz0][pz1]xfade=transition=fade",
		g.String())
}

func TestParseGraphRoundTrip(t *testing.T) {
	zoom := NewFilter("zoompan").
		Set("z", "st(0, clip(time / 5, 0, 1));st(0, ld(0));lerp(1, 2.4, ld(0))").
		Set("x", "(iw+iw*0.0703125)/2-(iw/zoom/2)").
		Set("s", "640x360")
	g := NewGraph(
		NewChain(NewFilter("scale").SetInt("w", 480).SetInt("h", 360), zoom, NewFilter("null")).From("0").To("pz0"),
		NewChain(NewFilter("setsar").Set("sar", "1")).From("1").To("pz1"),
		NewChain(NewFilter("xfade").Set("transition", "fade").SetFloat("offset", 4)).From("pz0", "pz1"),
	)
	text := g.String()

	parsed, err := ParseGraph(text)
	require.NoError(t, err)
	assert.Equal(t, text, parsed.String())

	chains := parsed.Chains()
	require.Len(t, chains, 3)
	assert.Equal(t, []string{"0"}, chains[0].Inputs())
	assert.Equal(t, []string{"pz0", "pz1"}, chains[2].Inputs())

	filters := chains[0].Filters()
	require.Len(t, filters, 3)
	z, ok := filters[1].Get("z")
	require.True(t, ok)
	assert.Equal(t, "st(0, clip(time / 5, 0, 1));st(0, ld(0));lerp(1, 2.4, ld(0))", z)
	assert.Equal(t, "null", filters[2].Name())
	assert.Empty(t, filters[2].Options())
}

func TestParseFilterErrors(t *testing.T) {
	_, err := ParseFilter("=x=1")
	assert.Error(t, err)
	_, err = ParseFilter("crop=w")
	assert.Error(t, err)
	_, err = ParseFilter("crop=w='640")
	assert.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "5", FormatFloat(5))
	assert.Equal(t, "125", FormatFloat(5*25))
	assert.Equal(t, "0.5", FormatFloat(0.5))
	assert.Equal(t, "1.6363636363636365", FormatFloat(360.0/220.0))
	assert.Equal(t, "2500000", FormatFloat(2.5e6))

	// Contain-mode offsets are computed at run time, not folded as constants.
	center, width := 150.0, 360.0
	assert.Equal(t, "-0.16666666666666663", FormatFloat(2*center/width-1))
}

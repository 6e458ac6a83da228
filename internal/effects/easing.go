package effects

import (
	"strconv"
	"strings"

	"github.com/ivlev/kenburns/internal/errdefs"
)

// Easing names a curve that maps linear progress to eased progress.
//
// Every expression reads the progress from register 0 of the ffmpeg
// expression evaluator and stores the eased value back into it. Registers 1
// and 2 are scratch space; nothing else is touched.
type Easing int

const (
	Linear Easing = iota
	QuadraticIn
	QuadraticOut
	QuadraticInOut
	CubicIn
	CubicOut
	CubicInOut
	QuarticIn
	QuarticOut
	QuarticInOut
	QuinticIn
	QuinticOut
	QuinticInOut
	SinusoidalIn
	SinusoidalOut
	SinusoidalInOut
	ExponentialIn
	ExponentialOut
	ExponentialInOut
	CircularIn
	CircularOut
	CircularInOut
	ElasticIn
	ElasticOut
	ElasticInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut
	SquareRootIn
	SquareRootOut
	SquareRootInOut
	CubeRootIn
	CubeRootOut
	CubeRootInOut
)

// DefaultEasing drives the zoom when nothing else is configured.
const DefaultEasing = CubicInOut

// bounceCore is the piecewise parabola shared by the three bounce curves.
// It reads t from register 0 and keeps the 121/16 coefficient in register 1.
const bounceCore = "st(1, 121/16); " +
	"if(lt(ld(0), 4/11), ld(1) * ld(0) * ld(0), " +
	"if(lt(ld(0), 8/11), ld(1) * (ld(0) - 6/11)^2 + 3/4, " +
	"if(lt(ld(0), 10/11), ld(1) * (ld(0) - 9/11)^2 + 15/16, " +
	"ld(1) * (ld(0) - 21/22)^2 + 63/64)))"

var easings = [...]struct {
	name string
	expr string
}{
	Linear: {"linear", "st(0, ld(0))"},

	QuadraticIn:    {"quadratic-in", "st(0, ld(0) * ld(0))"},
	QuadraticOut:   {"quadratic-out", "st(0, ld(0) * (2 - ld(0)))"},
	QuadraticInOut: {"quadratic-in-out", "st(0, if(lt(ld(0), 0.5), 2 * ld(0) * ld(0), 2 * ld(0) * (2 - ld(0)) - 1))"},

	CubicIn:    {"cubic-in", "st(0, ld(0)^3)"},
	CubicOut:   {"cubic-out", "st(0, 1 - (1-ld(0))^3)"},
	CubicInOut: {"cubic-in-out", "st(0, if(lt(ld(0), 0.5), 4 * ld(0)^3, 1 - 4 * (1-ld(0))^3))"},

	QuarticIn:    {"quartic-in", "st(0, ld(0)^4)"},
	QuarticOut:   {"quartic-out", "st(0, 1 - (1-ld(0))^4)"},
	QuarticInOut: {"quartic-in-out", "st(0, if(lt(ld(0), 0.5), 8 * ld(0)^4, 1 - 8 * (1-ld(0))^4))"},

	QuinticIn:    {"quintic-in", "st(0, ld(0)^5)"},
	QuinticOut:   {"quintic-out", "st(0, 1 - (1-ld(0))^5)"},
	QuinticInOut: {"quintic-in-out", "st(0, if(lt(ld(0), 0.5), 16 * ld(0)^5, 1 - 16 * (1-ld(0))^5))"},

	SinusoidalIn:    {"sinusoidal-in", "st(0, 1 - cos(ld(0) * PI / 2))"},
	SinusoidalOut:   {"sinusoidal-out", "st(0, sin(ld(0) * PI / 2))"},
	SinusoidalInOut: {"sinusoidal-in-out", "st(0, (1 - cos(ld(0) * PI)) / 2)"},

	ExponentialIn:  {"exponential-in", "st(0, if(lte(ld(0), 0), 0, pow(2, 10 * ld(0) - 10)))"},
	ExponentialOut: {"exponential-out", "st(0, if(gte(ld(0), 1), 1, 1 - pow(2, -10 * ld(0))))"},
	ExponentialInOut: {"exponential-in-out", "st(0, if(lt(ld(0), 0.5), " +
		"if(lte(ld(0), 0), 0, pow(2, 20 * ld(0) - 11)), " +
		"if(gte(ld(0), 1), 1, 1 - pow(2, 9 - 20 * ld(0)))))"},

	CircularIn:  {"circular-in", "st(0, 1 - sqrt(1 - ld(0) * ld(0)))"},
	CircularOut: {"circular-out", "st(0, sqrt(ld(0) * (2 - ld(0))))"},
	CircularInOut: {"circular-in-out", "st(0, if(lt(ld(0), 0.5), " +
		"1 - sqrt(1 - 4 * ld(0) * ld(0)), " +
		"1 + sqrt(4 * ld(0) * (2 - ld(0)) - 3)) / 2)"},

	ElasticIn:  {"elastic-in", "st(0, cos(20 * (1-ld(0)) * PI / 3) / pow(2, 10 * (1-ld(0))))"},
	ElasticOut: {"elastic-out", "st(0, 1 - cos(20 * ld(0) * PI / 3) / pow(2, 10 * ld(0)))"},
	ElasticInOut: {"elastic-in-out", "st(0, st(1, cos(40 * st(2, 2 * ld(0) - 1) * PI / 9) / 2); " +
		"st(2, pow(2, 10 * ld(2))); " +
		"if(lt(ld(0), 0.5), ld(1) * ld(2), 1 - ld(1) / ld(2)))"},

	BackIn:  {"back-in", "st(0, ld(0) * ld(0) * (ld(0) * 2.70158 - 1.70158))"},
	BackOut: {"back-out", "st(0, 1 - (1-ld(0))^2 * (1 - ld(0) * 2.70158))"},
	BackInOut: {"back-in-out", "st(0, if(lt(ld(0), 0.5), " +
		"2 * ld(0) * ld(0) * (2 * ld(0) * 3.59491 - 2.59491), " +
		"1 - 2 * (1-ld(0))^2 * (4.59491 - 2 * ld(0) * 3.59491)))"},

	BounceIn:    {"bounce-in", "st(0, st(0, 1 - ld(0)); 1 - (" + bounceCore + "))"},
	BounceOut:   {"bounce-out", "st(0, " + bounceCore + ")"},
	BounceInOut: {"bounce-in-out", "st(0, st(1, st(0, st(2, lt(ld(0), 0.5) * 2 - 1) * (1 - 2 * ld(0))); " + bounceCore + "); (1 - ld(2) * ld(1)) / 2)"},

	SquareRootIn:    {"squareroot-in", "st(0, sqrt(ld(0)))"},
	SquareRootOut:   {"squareroot-out", "st(0, 1 - sqrt((1-ld(0))))"},
	SquareRootInOut: {"squareroot-in-out", "st(0, if(lt(ld(0), 0.5), sqrt(ld(0) / 2), 1 - sqrt((1-ld(0)) / 2)))"},

	CubeRootIn:    {"cuberoot-in", "st(0, 1 - pow((1-ld(0)), 1/3))"},
	CubeRootOut:   {"cuberoot-out", "st(0, pow(ld(0), 1/3))"},
	CubeRootInOut: {"cuberoot-in-out", "st(0, if(lt(ld(0), 0.5), pow(ld(0) / 4, 1/3), 1 - pow((1-ld(0)) / 4, 1/3)))"},
}

// Expr returns the literal ffmpeg expression for the curve.
func (e Easing) Expr() string {
	if !e.Valid() {
		return ""
	}
	return easings[e].expr
}

func (e Easing) String() string {
	if !e.Valid() {
		return "easing(" + strconv.Itoa(int(e)) + ")"
	}
	return easings[e].name
}

func (e Easing) Valid() bool {
	return e >= 0 && int(e) < len(easings)
}

// MarshalText and UnmarshalText let easings appear by name in YAML and flags.
func (e Easing) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Easing) UnmarshalText(text []byte) error {
	v, err := ParseEasing(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Easings lists every curve in catalog order.
func Easings() []Easing {
	out := make([]Easing, len(easings))
	for i := range easings {
		out[i] = Easing(i)
	}
	return out
}

// ParseEasing accepts "cubic-in-out", "cubic_in_out" or "CUBIC_IN_OUT".
func ParseEasing(s string) (Easing, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, e := range easings {
		if e.name == name {
			return Easing(i), nil
		}
	}
	return 0, errdefs.Misconfigured("easing", s, "unknown easing")
}

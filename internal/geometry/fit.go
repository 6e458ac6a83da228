// Package geometry provides the value types used to place images in the
// output frame: sizes, rectangles and fit policies.
package geometry

import (
	"math"
	"strings"

	"github.com/ivlev/kenburns/internal/errdefs"
)

// Fit decides how an image is scaled into the output frame.
type Fit string

const (
	// Cover fills the frame and crops the overflow.
	Cover Fit = "cover"
	// Contain fits the whole image and pads the remainder, centered.
	Contain Fit = "contain"
)

// ParseFit accepts "cover" or "contain" in any case.
func ParseFit(s string) (Fit, error) {
	switch Fit(strings.ToLower(strings.TrimSpace(s))) {
	case Cover:
		return Cover, nil
	case Contain:
		return Contain, nil
	}
	return "", errdefs.Misconfigured("fit", s, "expected cover or contain")
}

func (f Fit) Valid() bool { return f == Cover || f == Contain }

func (f Fit) String() string { return string(f) }

// Scale returns the factor that maps img onto out under this policy.
func (f Fit) Scale(out, img Size) float64 {
	sx := float64(out.Width) / float64(img.Width)
	sy := float64(out.Height) / float64(img.Height)
	if f == Contain {
		return math.Min(sx, sy)
	}
	return math.Max(sx, sy)
}

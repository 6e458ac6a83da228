package geometry

import (
	"fmt"
	"math"

	"github.com/ivlev/kenburns/internal/errdefs"
)

// Size is a width/height pair in whole pixels.
type Size struct {
	Width  int
	Height int
}

// NewSize returns a Size after checking both dimensions are positive.
func NewSize(width, height int) (Size, error) {
	if width <= 0 || height <= 0 {
		return Size{}, errdefs.Invalid("size", "dimensions must be positive, got %dx%d", width, height)
	}
	return Size{Width: width, Height: height}, nil
}

// Scale multiplies both dimensions by factor, rounding each one on its own.
// Ties round to even (2.5 -> 2, 3.5 -> 4).
func (s Size) Scale(factor float64) Size {
	return Size{
		Width:  round(float64(s.Width) * factor),
		Height: round(float64(s.Height) * factor),
	}
}

// Ratio is width divided by height.
func (s Size) Ratio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func round(v float64) int {
	return int(math.RoundToEven(v))
}

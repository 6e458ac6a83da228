package geometry

import (
	"fmt"
	"math"

	"github.com/ivlev/kenburns/internal/errdefs"
)

// Point is a position in floating point pixel coordinates.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle in the pixel space of some reference
// image. A Box always satisfies xmin < xmax and ymin < ymax.
type Box struct {
	xmin, ymin, xmax, ymax float64
}

// NewBox builds a Box, failing with a validation error on an empty or
// inverted rectangle.
func NewBox(xmin, ymin, xmax, ymax float64) (Box, error) {
	for _, v := range [...]float64{xmin, ymin, xmax, ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, errdefs.Invalid("box", "coordinates must be finite, got (%v, %v, %v, %v)", xmin, ymin, xmax, ymax)
		}
	}
	if xmin >= xmax {
		return Box{}, errdefs.Invalid("box", "xmin %v must be less than xmax %v", xmin, xmax)
	}
	if ymin >= ymax {
		return Box{}, errdefs.Invalid("box", "ymin %v must be less than ymax %v", ymin, ymax)
	}
	return Box{xmin: xmin, ymin: ymin, xmax: xmax, ymax: ymax}, nil
}

func (b Box) XMin() float64 { return b.xmin }
func (b Box) YMin() float64 { return b.ymin }
func (b Box) XMax() float64 { return b.xmax }
func (b Box) YMax() float64 { return b.ymax }

// Size is the rounded width and height of the box. A region narrower than
// half a pixel still reports one pixel.
func (b Box) Size() Size {
	return Size{
		Width:  max(1, round(b.xmax-b.xmin)),
		Height: max(1, round(b.ymax-b.ymin)),
	}
}

// Center is measured from the top-left corner using the rounded size.
func (b Box) Center() Point {
	s := b.Size()
	return Point{
		X: b.xmin + float64(s.Width)/2,
		Y: b.ymin + float64(s.Height)/2,
	}
}

// Scaled reprojects the box onto an image resized by factor.
// It panics if factor is not positive, since that would break the box invariant.
func (b Box) Scaled(factor float64) Box {
	if !(factor > 0) {
		panic(fmt.Sprintf("geometry: non-positive scale factor %v", factor))
	}
	// The conversions keep the products rounded so a later Translated
	// cannot be fused into a multiply-add.
	return Box{
		xmin: float64(b.xmin * factor),
		ymin: float64(b.ymin * factor),
		xmax: float64(b.xmax * factor),
		ymax: float64(b.ymax * factor),
	}
}

// Translated shifts the box by (dx, dy).
func (b Box) Translated(dx, dy float64) Box {
	return Box{
		xmin: b.xmin + dx,
		ymin: b.ymin + dy,
		xmax: b.xmax + dx,
		ymax: b.ymax + dy,
	}
}

// Area is the unrounded area of the box.
func (b Box) Area() float64 {
	return (b.xmax - b.xmin) * (b.ymax - b.ymin)
}

func (b Box) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", b.xmin, b.ymin, b.xmax, b.ymax)
}

// LabeledBox is a Box annotated with the feature text the detector matched.
type LabeledBox struct {
	Box
	label string
}

// NewLabeledBox validates the rectangle and attaches label to it.
func NewLabeledBox(xmin, ymin, xmax, ymax float64, label string) (LabeledBox, error) {
	b, err := NewBox(xmin, ymin, xmax, ymax)
	if err != nil {
		return LabeledBox{}, err
	}
	return LabeledBox{Box: b, label: label}, nil
}

// Label returns the matched feature text.
func (b LabeledBox) Label() string { return b.label }

func (b LabeledBox) Scaled(factor float64) LabeledBox {
	return LabeledBox{Box: b.Box.Scaled(factor), label: b.label}
}

func (b LabeledBox) Translated(dx, dy float64) LabeledBox {
	return LabeledBox{Box: b.Box.Translated(dx, dy), label: b.label}
}

func (b LabeledBox) String() string {
	return fmt.Sprintf("%s %q", b.Box.String(), b.label)
}

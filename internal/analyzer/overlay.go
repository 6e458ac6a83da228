package analyzer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/geometry"
)

var (
	overlayFirst = color.NRGBA{0, 255, 0, 255}   // the region a default run zooms toward
	overlayOther = color.NRGBA{255, 204, 0, 255} // other detections
	overlayMark  = color.NRGBA{255, 0, 0, 255}   // region centers
)

// Overlay draws the boxes onto a copy of img for inspection. The first box
// is green, the rest gold; each center gets a red cross. Boxes are in
// img.Bounds() coordinates; the copy starts at the origin.
func Overlay(img image.Image, boxes []geometry.LabeledBox) *image.NRGBA {
	canvas := imaging.Clone(img)
	origin := img.Bounds().Min
	b := canvas.Bounds()
	stroke := max(2, min(b.Dx(), b.Dy())/250)
	cross := max(4, min(b.Dx(), b.Dy())/100)

	for i := len(boxes) - 1; i >= 0; i-- {
		c := overlayOther
		if i == 0 {
			c = overlayFirst
		}
		box := boxes[i]
		r := image.Rect(int(box.XMin()), int(box.YMin()), int(box.XMax()), int(box.YMax())).
			Sub(origin).Intersect(b)
		if r.Empty() {
			continue
		}
		strokeRect(canvas, r, stroke, c)

		center := box.Center()
		cx, cy := int(center.X)-origin.X, int(center.Y)-origin.Y
		fill(canvas, image.Rect(cx-cross, cy, cx+cross+1, cy+1), overlayMark)
		fill(canvas, image.Rect(cx, cy-cross, cx+1, cy+cross+1), overlayMark)
	}
	return canvas
}

func strokeRect(dst *image.NRGBA, r image.Rectangle, width int, c color.Color) {
	width = min(width, r.Dx(), r.Dy())
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func fill(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

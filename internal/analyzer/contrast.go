package analyzer

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/geometry"
)

// ContrastDetector is an offline fallback: it finds clusters of strong
// edges with a Sobel operator and reports their bounding boxes, biggest
// first. It cannot tell features apart, so every box carries the first
// requested feature as its label.
type ContrastDetector struct {
	MinBlockArea  int     // Minimum area in source pixels²
	EdgeThreshold float64 // Gradient magnitude threshold
	MaxSide       int     // Work on a copy no larger than this
	DilateRadius  int
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
		MaxSide:       512,
		DilateRadius:  2,
	}
}

func (d *ContrastDetector) Detect(ctx context.Context, img image.Image, features []string) ([]geometry.LabeledBox, error) {
	features = normalizeFeatures(features)
	if len(features) == 0 {
		return nil, nil
	}
	label := features[0][:len(features[0])-1]

	src := img.Bounds()
	work := imaging.Grayscale(img)
	if d.MaxSide > 0 && (src.Dx() > d.MaxSide || src.Dy() > d.MaxSide) {
		work = imaging.Fit(work, d.MaxSide, d.MaxSide, imaging.Box)
	}
	w, h := work.Bounds().Dx(), work.Bounds().Dy()
	if w < 3 || h < 3 {
		return nil, nil
	}
	// factor maps work coordinates back to the source image.
	factor := float64(src.Dx()) / float64(w)

	mask := sobel(work, d.EdgeThreshold)
	for i := 0; i < 2; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mask = dilate(mask, w, h, d.DilateRadius)
	}

	minArea := float64(d.MinBlockArea) / (factor * factor)
	var rects []image.Rectangle
	for _, r := range components(mask, w, h) {
		if float64(r.Dx()*r.Dy()) >= minArea {
			rects = append(rects, r)
		}
	}
	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].Dx()*rects[i].Dy() > rects[j].Dx()*rects[j].Dy()
	})

	boxes := make([]geometry.LabeledBox, 0, len(rects))
	for _, r := range rects {
		b, err := geometry.NewLabeledBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y), label)
		if err != nil {
			continue
		}
		boxes = append(boxes, b.Scaled(factor).Translated(float64(src.Min.X), float64(src.Min.Y)))
	}
	return boxes, nil
}

// sobel marks pixels whose gradient magnitude exceeds threshold. The one
// pixel border is left unmarked.
func sobel(gray *image.NRGBA, threshold float64) []bool {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	lum := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x*4])
	}

	mask := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -lum(x-1, y-1) + lum(x+1, y-1) -
				2*lum(x-1, y) + 2*lum(x+1, y) -
				lum(x-1, y+1) + lum(x+1, y+1)
			gy := -lum(x-1, y-1) - 2*lum(x, y-1) - lum(x+1, y-1) +
				lum(x-1, y+1) + 2*lum(x, y+1) + lum(x+1, y+1)
			mask[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return mask
}

// dilate grows every marked pixel into a (2r+1)² square.
func dilate(mask []bool, w, h, r int) []bool {
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			for yy := max(0, y-r); yy <= min(h-1, y+r); yy++ {
				for xx := max(0, x-r); xx <= min(w-1, x+r); xx++ {
					out[yy*w+xx] = true
				}
			}
		}
	}
	return out
}

// components returns the bounding rectangle of each 4-connected group of
// marked pixels.
func components(mask []bool, w, h int) []image.Rectangle {
	seen := make([]bool, len(mask))
	var rects []image.Rectangle
	var queue []int

	for start := range mask {
		if !mask[start] || seen[start] {
			continue
		}
		r := image.Rect(start%w, start/w, start%w+1, start/w+1)
		seen[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := p%w, p/w
			r = r.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [...]int{p - 1, p + 1, p - w, p + w} {
				if n < 0 || n >= len(mask) || seen[n] || !mask[n] {
					continue
				}
				// Horizontal neighbours must stay on the same row.
				if (n == p-1 || n == p+1) && n/w != y {
					continue
				}
				seen[n] = true
				queue = append(queue, n)
			}
		}
		rects = append(rects, r)
	}
	return rects
}

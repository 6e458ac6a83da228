// Package director compiles a sequence of shots into an ffmpeg filter
// graph: one zoompan chain per image, stitched together with xfade.
//
// Compilation is pure. It performs no I/O and keeps no state between calls,
// so one Director may be shared across goroutines.
package director

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/ivlev/kenburns/internal/renderer"
	"go.uber.org/multierr"
)

// MaxZoom is the largest factor zoompan accepts.
const MaxZoom = 10.0

type Director struct {
	selectRegion RegionSelector
}

type Option func(*Director)

// WithRegionSelector replaces the default FirstRegion strategy.
func WithRegionSelector(sel RegionSelector) Option {
	return func(d *Director) {
		if sel != nil {
			d.selectRegion = sel
		}
	}
}

func NewDirector(opts ...Option) *Director {
	d := &Director{selectRegion: FirstRegion}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Compile validates every shot and builds the program. Nothing is built
// unless all shots are valid.
func (d *Director) Compile(out Output, shots []Shot) (*Program, error) {
	if err := validate(out, shots); err != nil {
		return nil, err
	}

	prog := &Program{
		Graph:  renderer.NewGraph(),
		Inputs: make([]string, len(shots)),
		Output: out,
	}

	var prev *renderer.FilterChain
	offset := 0.0
	for i, shot := range shots {
		prog.Inputs[i] = shot.Source

		chain := d.shotChain(out, i, shot)
		if len(shots) > 1 {
			chain.To("pz" + strconv.Itoa(i))
		}
		prog.Graph.Add(chain)

		if i == 0 {
			prev = chain
			continue
		}

		// The cross-fade into shot i carries the previous shot's transition.
		before := shots[i-1]
		offset += before.Duration - before.TransitionDuration
		xfade := renderer.NewChain(
			renderer.NewFilter("xfade").
				Set("transition", before.Transition.String()).
				SetFloat("duration", before.TransitionDuration).
				SetFloat("offset", offset),
		).From(prev.Output(), chain.Output())
		if i < len(shots)-1 {
			xfade.To("xf" + strconv.Itoa(i))
		}
		prog.Graph.Add(xfade)
		prog.offsets = append(prog.offsets, offset)
		prev = xfade
	}
	prog.duration = offset + shots[len(shots)-1].Duration

	return prog, nil
}

// shotChain builds the per-image chain: optional contain padding, zoompan,
// optional cover crop, then unit sample aspect ratio.
func (d *Director) shotChain(out Output, index int, shot Shot) *renderer.FilterChain {
	chain := renderer.NewChain().From(strconv.Itoa(index))

	scale := shot.Fit.Scale(out.Size, shot.Size)
	working := shot.Size.Scale(scale)

	region, found := d.selectRegion(shot.Regions)
	if found {
		region = region.Scaled(scale)
	}

	if shot.Fit == geometry.Contain && working != out.Size {
		if found {
			region = region.Translated(
				float64(out.Size.Width-working.Width)/2,
				float64(out.Size.Height-working.Height)/2,
			)
		}
		chain.Append(
			renderer.NewFilter("scale").SetInt("w", working.Width).SetInt("h", working.Height),
			renderer.NewFilter("pad").
				SetInt("w", out.Size.Width).SetInt("h", out.Size.Height).
				Set("x", "-1").Set("y", "-1"),
		)
		working = out.Size
	}

	zoom := "1"
	tx, ty := 0.0, 0.0
	if found {
		c := region.Center()
		tx = 2*c.X/float64(working.Width) - 1
		ty = 2*c.Y/float64(working.Height) - 1
		zoom = zoomExpr(shot, zoomFactor(out.Size, region.Size()))
	}

	chain.Append(renderer.NewFilter("zoompan").
		Set("z", zoom).
		Set("x", fmt.Sprintf("(iw+iw*%s)/2-(iw/zoom/2)", renderer.FormatFloat(tx))).
		Set("y", fmt.Sprintf("(ih+ih*%s)/2-(ih/zoom/2)", renderer.FormatFloat(ty))).
		Set("s", working.String()).
		SetInt("fps", out.FPS).
		SetFloat("d", shot.Duration*float64(out.FPS)))

	if shot.Fit == geometry.Cover && working != out.Size {
		chain.Append(renderer.NewFilter("crop").SetInt("w", out.Size.Width).SetInt("h", out.Size.Height))
	}
	return chain.Append(renderer.NewFilter("setsar").Set("sar", "1"))
}

// zoomFactor is how far the camera must zoom for region to fill the frame.
func zoomFactor(out, region geometry.Size) float64 {
	return math.Min(math.Min(
		float64(out.Width)/float64(region.Width),
		float64(out.Height)/float64(region.Height)),
		MaxZoom)
}

// zoomExpr eases the zoom from 1 to target over the shot's duration.
// Register 0 holds the progress in [0, 1].
func zoomExpr(shot Shot, target float64) string {
	return fmt.Sprintf("st(0, clip(time / %s, 0, 1));%s;lerp(1, %s, ld(0))",
		renderer.FormatFloat(shot.Duration), shot.Easing.Expr(), renderer.FormatFloat(target))
}

func validate(out Output, shots []Shot) error {
	err := out.Validate()
	if len(shots) == 0 {
		err = multierr.Append(err, errdefs.Invalid("images", "at least one image is required"))
	}
	for i, s := range shots {
		for _, e := range multierr.Errors(s.Validate()) {
			err = multierr.Append(err, fmt.Errorf("image[%d] %s: %w", i, s.Source, e))
		}
	}
	return err
}

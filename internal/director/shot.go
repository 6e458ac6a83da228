package director

import (
	"math"

	"github.com/ivlev/kenburns/internal/effects"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
	"go.uber.org/multierr"
)

// Shot is everything the director needs to animate one image.
type Shot struct {
	// Source is handed to ffmpeg as the -i argument.
	Source string
	// Size is the natural pixel size of the image.
	Size geometry.Size
	Fit  geometry.Fit
	// Regions are the detections in Size's pixel space, highest priority first.
	Regions []geometry.LabeledBox
	// Duration is how long the image is on screen, in seconds.
	Duration float64
	// TransitionDuration is the length of the cross-fade into the next image.
	TransitionDuration float64
	// Transition is the style of the cross-fade into the next image.
	Transition effects.Transition
	// Easing shapes the zoom. The zero value is Linear.
	Easing effects.Easing
}

// Validate checks the invariants the compiler relies on. All violations
// are reported together.
func (s Shot) Validate() error {
	var err error
	if s.Source == "" {
		err = multierr.Append(err, errdefs.Invalid("source", "must not be empty"))
	}
	if !s.Size.Valid() {
		err = multierr.Append(err, errdefs.Invalid("size", "dimensions must be positive, got %s", s.Size))
	}
	if !s.Fit.Valid() {
		err = multierr.Append(err, errdefs.Invalid("fit", "unknown policy %q", s.Fit))
	}
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		err = multierr.Append(err, errdefs.Invalid("duration", "must be a positive number of seconds, got %v", s.Duration))
	}
	if !(s.TransitionDuration >= 0) || math.IsInf(s.TransitionDuration, 0) {
		err = multierr.Append(err, errdefs.Invalid("transition duration", "must not be negative, got %v", s.TransitionDuration))
	}
	if s.Duration-s.TransitionDuration <= 0 {
		err = multierr.Append(err, errdefs.Invalid("duration",
			"%v must be longer than the transition duration %v", s.Duration, s.TransitionDuration))
	}
	if !s.Transition.Valid() {
		err = multierr.Append(err, errdefs.Invalid("transition", "unknown transition %q", s.Transition))
	}
	if !s.Easing.Valid() {
		err = multierr.Append(err, errdefs.Invalid("easing", "unknown easing %s", s.Easing))
	}
	return err
}

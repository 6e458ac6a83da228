package config

import (
	"fmt"
	"os"

	"github.com/ivlev/kenburns/internal/effects"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// JobVersion is written into every saved job file.
const JobVersion = "1"

// Job is the file form of a list of images with their overrides.
type Job struct {
	Version string      `yaml:"version"`
	Images  []ImageSpec `yaml:"images"`
}

// ImageSpec is one image with optional overrides. Nil pointers and empty
// strings fall back to the job defaults.
type ImageSpec struct {
	Src                string   `yaml:"src"`
	Duration           *float64 `yaml:"duration,omitempty"`
	Transition         string   `yaml:"transition,omitempty"`
	TransitionDuration *float64 `yaml:"transition_duration,omitempty"`
	Easing             string   `yaml:"easing,omitempty"`
	Fit                string   `yaml:"fit,omitempty"`
	// Features nil means the defaults; an empty list means no detection.
	Features *[]string `yaml:"features,omitempty"`
	// Boxes, when present, are used instead of running the detector.
	Boxes *[]BoxSpec `yaml:"boxes,omitempty"`
}

// BoxSpec is a region in the image's pixel space.
type BoxSpec struct {
	Label string  `yaml:"label,omitempty"`
	XMin  float64 `yaml:"xmin"`
	YMin  float64 `yaml:"ymin"`
	XMax  float64 `yaml:"xmax"`
	YMax  float64 `yaml:"ymax"`
}

// ImageOptions is an ImageSpec with every default applied and every name
// parsed.
type ImageOptions struct {
	Src                string
	Duration           float64
	Transition         effects.Transition
	TransitionDuration float64
	Easing             effects.Easing
	Fit                geometry.Fit
	Features           []string
	// Boxes are meaningful only when HasBoxes is set.
	Boxes    []geometry.LabeledBox
	HasBoxes bool
}

// Resolve applies d to the unset fields of s. Every bad value is reported.
func (s ImageSpec) Resolve(d Defaults) (ImageOptions, error) {
	opts := ImageOptions{
		Src:                s.Src,
		Duration:           d.Duration,
		Transition:         d.Transition,
		TransitionDuration: d.TransitionDuration,
		Easing:             d.Easing,
		Fit:                d.Fit,
		Features:           d.Features,
	}

	var err error
	if s.Src == "" {
		err = multierr.Append(err, errdefs.Misconfigured("src", "", "missing source"))
	}
	if s.Duration != nil {
		opts.Duration = *s.Duration
	}
	if s.TransitionDuration != nil {
		opts.TransitionDuration = *s.TransitionDuration
	}
	if s.Transition != "" {
		t, terr := effects.ParseTransition(s.Transition)
		err = multierr.Append(err, terr)
		opts.Transition = t
	}
	if s.Easing != "" {
		e, eerr := effects.ParseEasing(s.Easing)
		err = multierr.Append(err, eerr)
		opts.Easing = e
	}
	if s.Fit != "" {
		f, ferr := geometry.ParseFit(s.Fit)
		err = multierr.Append(err, ferr)
		opts.Fit = f
	}
	if s.Features != nil {
		opts.Features = append([]string{}, (*s.Features)...)
	}
	if s.Boxes != nil {
		opts.HasBoxes = true
		for i, bs := range *s.Boxes {
			b, berr := geometry.NewLabeledBox(bs.XMin, bs.YMin, bs.XMax, bs.YMax, bs.Label)
			if berr != nil {
				err = multierr.Append(err, fmt.Errorf("boxes[%d]: %w", i, berr))
				continue
			}
			opts.Boxes = append(opts.Boxes, b)
		}
	}
	if err != nil {
		return ImageOptions{}, fmt.Errorf("%s: %w", s.Src, err)
	}
	return opts, nil
}

// Spec turns resolved options back into their file form, with every
// value spelled out.
func (o ImageOptions) Spec() ImageSpec {
	duration, td := o.Duration, o.TransitionDuration
	features := append([]string{}, o.Features...)
	spec := ImageSpec{
		Src:                o.Src,
		Duration:           &duration,
		Transition:         o.Transition.String(),
		TransitionDuration: &td,
		Easing:             o.Easing.String(),
		Fit:                o.Fit.String(),
		Features:           &features,
	}
	if o.HasBoxes {
		boxes := make([]BoxSpec, 0, len(o.Boxes))
		for _, b := range o.Boxes {
			boxes = append(boxes, BoxSpec{Label: b.Label(), XMin: b.XMin(), YMin: b.YMin(), XMax: b.XMax(), YMax: b.YMax()})
		}
		spec.Boxes = &boxes
	}
	return spec
}

// WriteJob writes a job to a YAML file
func WriteJob(job *Job, path string) error {
	if job.Version == "" {
		job.Version = JobVersion
	}
	data, err := yaml.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadJob reads a job from a YAML file
func ReadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, errdefs.Misconfigured("job", path, "%v", err)
	}
	if len(job.Images) == 0 {
		return nil, errdefs.Misconfigured("job", path, "no images")
	}
	return &job, nil
}

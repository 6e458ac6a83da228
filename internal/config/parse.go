package config

import (
	"strconv"
	"strings"

	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
)

// ParseSize reads a "WIDTHxHEIGHT" frame size.
func ParseSize(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, errdefs.Misconfigured("size", s, "expected WIDTHxHEIGHT")
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return geometry.Size{}, errdefs.Misconfigured("size", s, "bad width")
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return geometry.Size{}, errdefs.Misconfigured("size", s, "bad height")
	}
	size, err := geometry.NewSize(width, height)
	if err != nil {
		return geometry.Size{}, errdefs.Misconfigured("size", s, "dimensions must be positive")
	}
	return size, nil
}

// ParseImageArg reads the command-line form of one image,
// "src|key=value|...". The keys are duration, transition,
// transition-duration, easing, fit and feature. feature may repeat; an
// empty feature= turns detection off for the image.
func ParseImageArg(arg string) (ImageSpec, error) {
	parts := strings.Split(arg, "|")
	spec := ImageSpec{Src: strings.TrimSpace(parts[0])}
	if spec.Src == "" {
		return ImageSpec{}, errdefs.Misconfigured("image", arg, "missing source")
	}

	var features []string
	sawFeature := false
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return ImageSpec{}, errdefs.Misconfigured("image", arg, "option %q is not key=value", part)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch key {
		case "duration", "d":
			f, err := parseSeconds(key, value)
			if err != nil {
				return ImageSpec{}, err
			}
			spec.Duration = &f
		case "transition-duration", "td":
			f, err := parseSeconds(key, value)
			if err != nil {
				return ImageSpec{}, err
			}
			spec.TransitionDuration = &f
		case "transition", "t":
			spec.Transition = value
		case "easing", "e":
			spec.Easing = value
		case "fit":
			spec.Fit = value
		case "feature", "f":
			sawFeature = true
			if value != "" {
				features = append(features, value)
			}
		default:
			return ImageSpec{}, errdefs.Misconfigured(key, value, "unknown image option")
		}
	}
	if sawFeature {
		if features == nil {
			features = []string{}
		}
		spec.Features = &features
	}
	return spec, nil
}

func parseSeconds(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errdefs.Misconfigured(key, value, "not a number")
	}
	return f, nil
}

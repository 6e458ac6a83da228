// Package analyzer finds regions of interest in an image for the camera to
// zoom toward.
package analyzer

import (
	"context"
	"image"
	"strings"

	"github.com/ivlev/kenburns/internal/geometry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Detector looks for the described features in img.
//
// Boxes are in img's pixel space and ordered by priority, best match first.
// An empty feature list yields no boxes without doing any work.
type Detector interface {
	Detect(ctx context.Context, img image.Image, features []string) ([]geometry.LabeledBox, error)
}

// NopDetector never finds anything; every image gets a static shot.
type NopDetector struct{}

func (NopDetector) Detect(context.Context, image.Image, []string) ([]geometry.LabeledBox, error) {
	return nil, nil
}

var lower = cases.Lower(language.Und)

// normalizeFeatures lowercases each description and terminates it with a
// period, which is how grounding models expect separate phrases. Blank
// entries are dropped.
func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(lower.String(f))
		if f == "" {
			continue
		}
		if !strings.HasSuffix(f, ".") {
			f += "."
		}
		out = append(out, f)
	}
	return out
}

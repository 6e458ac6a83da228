package director

import (
	"strings"

	"github.com/ivlev/kenburns/internal/geometry"
)

// RegionSelector picks the region the camera zooms toward. It reports
// false when no region should be used.
type RegionSelector func(regions []geometry.LabeledBox) (geometry.LabeledBox, bool)

// FirstRegion trusts the detector's ordering.
func FirstRegion(regions []geometry.LabeledBox) (geometry.LabeledBox, bool) {
	if len(regions) == 0 {
		return geometry.LabeledBox{}, false
	}
	return regions[0], true
}

// LargestRegion picks the region with the biggest area; the earlier one wins a tie.
func LargestRegion(regions []geometry.LabeledBox) (geometry.LabeledBox, bool) {
	if len(regions) == 0 {
		return geometry.LabeledBox{}, false
	}
	best := regions[0]
	for _, r := range regions[1:] {
		if r.Area() > best.Area() {
			best = r
		}
	}
	return best, true
}

// MatchLabel picks the first region whose label contains text, ignoring case.
func MatchLabel(text string) RegionSelector {
	needle := strings.ToLower(text)
	return func(regions []geometry.LabeledBox) (geometry.LabeledBox, bool) {
		for _, r := range regions {
			if strings.Contains(strings.ToLower(r.Label()), needle) {
				return r, true
			}
		}
		return geometry.LabeledBox{}, false
	}
}

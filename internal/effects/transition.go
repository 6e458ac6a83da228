// Package effects holds the fixed catalogs of zoom easings and cross-fade
// transitions that the filter graph can reference.
package effects

import (
	"strings"

	"github.com/ivlev/kenburns/internal/errdefs"
)

// Transition is the name of an ffmpeg xfade transition. It is passed to the
// renderer verbatim.
type Transition string

const (
	Fade        Transition = "fade"
	WipeLeft    Transition = "wipeleft"
	WipeRight   Transition = "wiperight"
	WipeUp      Transition = "wipeup"
	WipeDown    Transition = "wipedown"
	SlideLeft   Transition = "slideleft"
	SlideRight  Transition = "slideright"
	SlideUp     Transition = "slideup"
	SlideDown   Transition = "slidedown"
	CircleCrop  Transition = "circlecrop"
	RectCrop    Transition = "rectcrop"
	Distance    Transition = "distance"
	FadeBlack   Transition = "fadeblack"
	FadeWhite   Transition = "fadewhite"
	Radial      Transition = "radial"
	SmoothLeft  Transition = "smoothleft"
	SmoothRight Transition = "smoothright"
	SmoothUp    Transition = "smoothup"
	SmoothDown  Transition = "smoothdown"
	CircleOpen  Transition = "circleopen"
	CircleClose Transition = "circleclose"
	VertOpen    Transition = "vertopen"
	VertClose   Transition = "vertclose"
	HorzOpen    Transition = "horzopen"
	HorzClose   Transition = "horzclose"
	Dissolve    Transition = "dissolve"
	Pixelize    Transition = "pixelize"
	DiagTL      Transition = "diagtl"
	DiagTR      Transition = "diagtr"
	DiagBL      Transition = "diagbl"
	DiagBR      Transition = "diagbr"
	HLSlice     Transition = "hlslice"
	HRSlice     Transition = "hrslice"
	VUSlice     Transition = "vuslice"
	VDSlice     Transition = "vdslice"
	HBlur       Transition = "hblur"
	FadeGrays   Transition = "fadegrays"
	WipeTL      Transition = "wipetl"
	WipeTR      Transition = "wipetr"
	WipeBL      Transition = "wipebl"
	WipeBR      Transition = "wipebr"
	SqueezeH    Transition = "squeezeh"
	SqueezeV    Transition = "squeezev"
	ZoomIn      Transition = "zoomin"
	FadeFast    Transition = "fadefast"
	FadeSlow    Transition = "fadeslow"
	HLWind      Transition = "hlwind"
	HRWind      Transition = "hrwind"
	VUWind      Transition = "vuwind"
	VDWind      Transition = "vdwind"
	CoverLeft   Transition = "coverleft"
	CoverRight  Transition = "coverright"
	CoverUp     Transition = "coverup"
	CoverDown   Transition = "coverdown"
	RevealLeft  Transition = "revealleft"
	RevealRight Transition = "revealright"
	RevealUp    Transition = "revealup"
	RevealDown  Transition = "revealdown"
)

// DefaultTransition is used between images unless overridden.
const DefaultTransition = Fade

var transitions = []Transition{
	Fade, WipeLeft, WipeRight, WipeUp, WipeDown,
	SlideLeft, SlideRight, SlideUp, SlideDown,
	CircleCrop, RectCrop, Distance, FadeBlack, FadeWhite, Radial,
	SmoothLeft, SmoothRight, SmoothUp, SmoothDown,
	CircleOpen, CircleClose, VertOpen, VertClose, HorzOpen, HorzClose,
	Dissolve, Pixelize, DiagTL, DiagTR, DiagBL, DiagBR,
	HLSlice, HRSlice, VUSlice, VDSlice, HBlur, FadeGrays,
	WipeTL, WipeTR, WipeBL, WipeBR, SqueezeH, SqueezeV,
	ZoomIn, FadeFast, FadeSlow, HLWind, HRWind, VUWind, VDWind,
	CoverLeft, CoverRight, CoverUp, CoverDown,
	RevealLeft, RevealRight, RevealUp, RevealDown,
}

// Transitions lists the catalog in ffmpeg's documentation order.
func Transitions() []Transition {
	return append([]Transition(nil), transitions...)
}

func (t Transition) String() string { return string(t) }

// Valid reports whether t is one of the catalog transitions.
func (t Transition) Valid() bool {
	for _, v := range transitions {
		if v == t {
			return true
		}
	}
	return false
}

// ParseTransition matches a transition name case-insensitively.
func ParseTransition(s string) (Transition, error) {
	t := Transition(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errdefs.Misconfigured("transition", s, "unknown transition")
	}
	return t, nil
}

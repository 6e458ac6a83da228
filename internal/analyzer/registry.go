package analyzer

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Options configures the detector built by NewDetector.
type Options struct {
	// Host is the Ollama server URL; empty means OLLAMA_HOST or the default.
	Host           string
	Model          string
	ScoreThreshold float64
	HTTPClient     *http.Client
	Logger         zerolog.Logger
}

// Variants lists the names accepted by NewDetector.
var Variants = []string{"ollama", "contrast", "none"}

// NewDetector creates a detector based on the specified variant.
func NewDetector(variant string, opts Options) (Detector, error) {
	switch variant {
	case "ollama", "":
		return NewVisionDetector(opts)
	case "contrast":
		return NewContrastDetector(), nil
	case "none":
		return NopDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}

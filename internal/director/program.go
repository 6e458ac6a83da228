package director

import (
	"strconv"

	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/ivlev/kenburns/internal/renderer"
	"go.uber.org/multierr"
)

// PixelFormat is the output pixel format; yuv420p plays everywhere.
const PixelFormat = "yuv420p"

var logLevels = []string{"error", "warning", "info", "verbose", "debug", "trace"}

// LogLevelFor maps a -v count to an ffmpeg -loglevel name.
func LogLevelFor(verbosity int) string {
	if verbosity < 0 {
		return logLevels[0]
	}
	if verbosity >= len(logLevels) {
		return "trace"
	}
	return logLevels[verbosity]
}

// Output describes the video being produced.
type Output struct {
	Size geometry.Size
	FPS  int
	Path string
	// LogLevel is passed to ffmpeg's -loglevel; empty means "error".
	LogLevel string
}

// Validate checks the frame size, the frame rate and the output path.
func (o Output) Validate() error {
	var err error
	if !o.Size.Valid() {
		err = multierr.Append(err, errdefs.Invalid("output size", "dimensions must be positive, got %s", o.Size))
	}
	if o.FPS <= 0 {
		err = multierr.Append(err, errdefs.Invalid("fps", "must be positive, got %d", o.FPS))
	}
	if o.Path == "" {
		err = multierr.Append(err, errdefs.Invalid("output path", "must not be empty"))
	}
	return err
}

func (o Output) logLevel() string {
	if o.LogLevel == "" {
		return logLevels[0]
	}
	return o.LogLevel
}

// Program is a compiled job: the filter graph plus the ffmpeg arguments
// that feed it.
type Program struct {
	Graph  *renderer.FilterGraph
	Inputs []string
	Output Output

	offsets  []float64
	duration float64
}

// Args returns the ffmpeg argument list, without the binary name.
func (p *Program) Args() []string {
	args := make([]string, 0, 2*len(p.Inputs)+13)
	args = append(args, "-loglevel", p.Output.logLevel())
	for _, in := range p.Inputs {
		args = append(args, "-i", in)
	}
	return append(args,
		"-filter_complex", p.Graph.String(),
		"-r", strconv.Itoa(p.Output.FPS),
		"-s", p.Output.Size.String(),
		"-pix_fmt", PixelFormat,
		"-y", p.Output.Path,
	)
}

// Offsets are the start times of the cross-fades, in timeline order.
func (p *Program) Offsets() []float64 {
	return append([]float64(nil), p.offsets...)
}

// Duration is the length of the resulting video in seconds.
func (p *Program) Duration() float64 {
	return p.duration
}

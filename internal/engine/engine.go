// Package engine runs a job end to end: it expands the sources, loads and
// analyzes the images, compiles the filter graph and hands it to ffmpeg.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ivlev/kenburns/internal/analyzer"
	"github.com/ivlev/kenburns/internal/config"
	"github.com/ivlev/kenburns/internal/director"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/ivlev/kenburns/internal/source"
	"github.com/ivlev/kenburns/internal/system"
	"github.com/ivlev/kenburns/internal/video"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Loader is the part of source.Loader the engine needs.
type Loader interface {
	Expand(ctx context.Context, src string) ([]string, error)
	Load(ctx context.Context, src string) (*source.Image, error)
}

type Engine struct {
	Loader   Loader
	Detector analyzer.Detector
	Director *director.Director
	Encoder  video.Encoder
	// Workers bounds concurrent loads and detections; zero means one per CPU.
	Workers int
	Logger  zerolog.Logger
}

// Prepared is an image ready for compilation: every option resolved and
// its regions known.
type Prepared struct {
	Options config.ImageOptions
	Size    geometry.Size
}

func (p Prepared) Shot() director.Shot {
	return director.Shot{
		Source:             p.Options.Src,
		Size:               p.Size,
		Fit:                p.Options.Fit,
		Regions:            p.Options.Boxes,
		Duration:           p.Options.Duration,
		TransitionDuration: p.Options.TransitionDuration,
		Transition:         p.Options.Transition,
		Easing:             p.Options.Easing,
	}
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return system.DefaultWorkers()
}

// Expand replaces directory and PDF entries with the images they contain.
// The expanded images share the entry's options.
func (e *Engine) Expand(ctx context.Context, images []config.ImageOptions) ([]config.ImageOptions, error) {
	var out []config.ImageOptions
	for _, img := range images {
		srcs, err := e.Loader.Expand(ctx, img.Src)
		if err != nil {
			return nil, err
		}
		if len(srcs) > 1 && img.HasBoxes {
			return nil, fmt.Errorf("%s expands to %d images and cannot share one set of boxes", img.Src, len(srcs))
		}
		for _, src := range srcs {
			expanded := img
			expanded.Src = src
			out = append(out, expanded)
		}
	}
	return out, nil
}

// Prepare loads every image and detects regions for those without boxes.
// Images are processed concurrently; the result keeps the input order.
func (e *Engine) Prepare(ctx context.Context, images []config.ImageOptions) ([]Prepared, error) {
	images, err := e.Expand(ctx, images)
	if err != nil {
		return nil, err
	}

	prepared := make([]Prepared, len(images))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i, opts := range images {
		g.Go(func() error {
			img, err := e.Loader.Load(ctx, opts.Src)
			if err != nil {
				return err
			}
			if !opts.HasBoxes {
				start := time.Now()
				boxes, err := e.Detector.Detect(ctx, img.Pixels, opts.Features)
				if err != nil {
					return fmt.Errorf("detect %s: %w", opts.Src, err)
				}
				opts.Boxes, opts.HasBoxes = boxes, true
				e.Logger.Debug().Str("src", opts.Src).Int("regions", len(boxes)).
					Dur("took", time.Since(start)).Msg("regions detected")
			}
			prepared[i] = Prepared{Options: opts, Size: img.Size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prepared, nil
}

type RunOptions struct {
	// DryRun compiles the job without running ffmpeg.
	DryRun bool
	// SaveJob, when set, receives the resolved job with its detected boxes.
	SaveJob string
}

// Run prepares and compiles the images, then encodes unless DryRun is set.
// The compiled program is returned in both cases.
func (e *Engine) Run(ctx context.Context, out director.Output, images []config.ImageOptions, opts RunOptions) (*director.Program, error) {
	logger := e.Logger.With().Str("run", uuid.NewString()).Logger()
	start := time.Now()

	prepared, err := e.Prepare(ctx, images)
	if err != nil {
		return nil, err
	}

	shots := make([]director.Shot, len(prepared))
	for i, p := range prepared {
		shots[i] = p.Shot()
	}
	prog, err := e.Director.Compile(out, shots)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("images", len(shots)).Float64("seconds", prog.Duration()).
		Stringer("size", out.Size).Msg("job compiled")

	if opts.SaveJob != "" {
		job := &config.Job{Images: make([]config.ImageSpec, len(prepared))}
		for i, p := range prepared {
			job.Images[i] = p.Options.Spec()
		}
		if err := config.WriteJob(job, opts.SaveJob); err != nil {
			return nil, fmt.Errorf("save job: %w", err)
		}
		logger.Info().Str("path", opts.SaveJob).Msg("job saved")
	}

	if opts.DryRun {
		return prog, nil
	}

	system.RaiseFileLimit(uint64(len(prog.Inputs)+64), logger)
	if err := e.Encoder.Encode(ctx, prog.Args()); err != nil {
		return nil, err
	}

	ev := logger.Info().Str("output", out.Path).Dur("took", time.Since(start))
	if fi, err := os.Stat(out.Path); err == nil {
		ev = ev.Str("bytes", humanize.Bytes(uint64(fi.Size())))
	}
	ev.Msg("video written")
	return prog, nil
}

// Workspace is a per-run scratch directory for rendered PDF pages.
type Workspace struct {
	ID  string
	Dir string
}

func NewWorkspace(base string) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	id := uuid.NewString()
	dir := filepath.Join(base, "kenburns-"+id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}

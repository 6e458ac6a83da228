package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ivlev/kenburns/internal/analyzer"
	"github.com/ivlev/kenburns/internal/config"
	"github.com/ivlev/kenburns/internal/director"
	"github.com/ivlev/kenburns/internal/engine"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/logging"
	"github.com/ivlev/kenburns/internal/renderer"
	"github.com/ivlev/kenburns/internal/source"
	"github.com/ivlev/kenburns/internal/system"
	"github.com/ivlev/kenburns/internal/video"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type encodeFlags struct {
	images  []string
	job     string
	saveJob string
	dryRun  bool
	explain bool
}

func newEncodeCmd() *cobra.Command {
	var f encodeFlags
	cmd := &cobra.Command{
		Use:   "encode -i IMAGE... -o OUTPUT",
		Short: "Render images into a video",
		Long: `Render images into a video.

Each -i takes an image path, URL, directory or PDF, optionally followed by
per-image overrides: "photo.jpg|duration=4|easing=linear|feature=a dog".
The keys are duration, transition, transition-duration, easing, fit and
feature. An empty feature= turns detection off for that image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&f.images, "image", "i", nil, "input image with optional |key=value overrides; repeatable")
	fs.StringVar(&f.job, "job", "", "YAML job file listing the images")
	fs.StringVar(&f.saveJob, "save-job", "", "write the resolved job, with detected regions, to this file")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the ffmpeg command instead of running it")
	fs.BoolVar(&f.explain, "explain", false, "with --dry-run, also print the filter graph one filter per line")

	fs.StringP("output", "o", "", "output video path")
	fs.StringP("size", "s", "640x360", "output frame size WIDTHxHEIGHT")
	fs.IntP("framerate", "r", 25, "output frame rate")
	fs.Float64("default-image-duration", 5, "seconds each image is shown")
	fs.String("default-transition", "fade", "xfade transition between images")
	fs.Float64("default-transition-duration", 1, "seconds each transition lasts")
	fs.String("default-easing", "cubic-in-out", "zoom easing curve")
	fs.String("default-fit", "cover", "cover crops to fill the frame, contain pads")
	fs.String("region", "first", "which detection to zoom toward: first, largest or label:TEXT")
	fs.Int("workers", 0, "concurrent image loads and detections (0: one per CPU)")
	fs.String("ffmpeg", "ffmpeg", "ffmpeg binary")
	fs.Int("pdf-dpi", 150, "resolution PDF pages are rendered at")
	addDetectorFlags(fs)
	return cmd
}

func runEncode(cmd *cobra.Command, f encodeFlags) error {
	logger := logging.WithComponent("encode")

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := settings.Output()
	if err != nil {
		return err
	}
	images, err := resolveImages(settings, f)
	if err != nil {
		return err
	}
	selector, err := settings.RegionSelector()
	if err != nil {
		return err
	}

	detector, err := analyzer.NewDetector(settings.Detector, analyzer.Options{
		Host:           settings.OllamaHost,
		Model:          settings.Model,
		ScoreThreshold: settings.ScoreThreshold,
		Logger:         logging.WithComponent("analyzer"),
	})
	if err != nil {
		return errdefs.Misconfigured("detector", settings.Detector, "%v", err)
	}

	ws, err := engine.NewWorkspace("")
	if err != nil {
		return err
	}
	if f.dryRun || f.saveJob != "" {
		logger.Info().Str("dir", ws.Dir).Msg("keeping workspace for rendered pages")
	} else {
		defer ws.Cleanup()
	}

	loader := source.NewLoader(ws.Dir, logging.WithComponent("source"))
	loader.DPI = settings.PDFDPI

	binary := settings.FFmpeg
	if !f.dryRun {
		if binary, err = system.LookupFFmpeg(settings.FFmpeg); err != nil {
			return err
		}
	}

	host := system.DescribeHost()
	logger.Debug().Int("cpus", host.CPUs).
		Str("memory", humanize.Bytes(host.TotalMemory)).
		Str("free", humanize.Bytes(host.FreeMemory)).
		Str("workspace", ws.ID).
		Msg("host")

	eng := &engine.Engine{
		Loader:   loader,
		Detector: detector,
		Director: director.NewDirector(director.WithRegionSelector(selector)),
		Encoder:  video.NewFFmpegEncoder(binary, logging.WithComponent("ffmpeg")),
		Workers:  settings.Workers,
		Logger:   logging.WithComponent("engine"),
	}
	prog, err := eng.Run(cmd.Context(), out, images, engine.RunOptions{DryRun: f.dryRun, SaveJob: f.saveJob})
	if err != nil {
		return err
	}

	if f.dryRun {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, shellJoin(append([]string{binary}, prog.Args()...)))
		if f.explain {
			return explain(w, prog.Graph.String())
		}
	}
	return nil
}

// resolveImages merges the job file entries and the -i arguments, in that
// order, and applies the defaults.
func resolveImages(settings *config.Settings, f encodeFlags) ([]config.ImageOptions, error) {
	defaults, err := settings.Defaults()
	if err != nil {
		return nil, err
	}

	var specs []config.ImageSpec
	if f.job != "" {
		job, err := config.ReadJob(f.job)
		if err != nil {
			return nil, err
		}
		specs = append(specs, job.Images...)
	}
	for _, arg := range f.images {
		spec, err := config.ParseImageArg(arg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, errdefs.Misconfigured("image", "", "at least one -i or a --job is required")
	}

	var all error
	images := make([]config.ImageOptions, 0, len(specs))
	for i, spec := range specs {
		opts, err := spec.Resolve(defaults)
		if err != nil {
			all = multierr.Append(all, fmt.Errorf("image[%d] %w", i, err))
			continue
		}
		images = append(images, opts)
	}
	return images, all
}

// explain prints each chain of the graph with one filter per line.
func explain(w io.Writer, graph string) error {
	g, err := renderer.ParseGraph(graph)
	if err != nil {
		return err
	}
	for i, chain := range g.Chains() {
		fmt.Fprintf(w, "chain %d: in=%v out=%v\n", i, chain.Inputs(), chain.Outputs())
		for _, filter := range chain.Filters() {
			fmt.Fprintf(w, "  %s\n", filter.Name())
			for _, opt := range filter.Options() {
				fmt.Fprintf(w, "    %s = %s\n", opt.Key, opt.Value)
			}
		}
	}
	return nil
}

// shellJoin quotes args for a POSIX shell.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$`|&;<>()[]*?{}!#~=,:") {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/ivlev/kenburns/internal/analyzer"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/logging"
	"github.com/ivlev/kenburns/internal/source"
	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	var overlay string
	cmd := &cobra.Command{
		Use:   "detect IMAGE [FEATURE...]",
		Short: "Show the regions the detector finds in an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0], args[1:], overlay)
		},
	}
	cmd.Flags().StringVar(&overlay, "overlay", "", "write a copy of the image with the boxes drawn on it")
	addDetectorFlags(cmd.Flags())
	return cmd
}

func runDetect(cmd *cobra.Command, src string, features []string, overlay string) error {
	logger := logging.WithComponent("detect")

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if len(features) == 0 {
		features = settings.DefaultFeatures
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

	img, err := source.NewLoader("", logging.WithComponent("source")).Load(cmd.Context(), src)
	if err != nil {
		return err
	}

	start := time.Now()
	boxes, err := detector.Detect(cmd.Context(), img.Pixels, features)
	if err != nil {
		return err
	}
	logger.Debug().Int("regions", len(boxes)).Dur("took", time.Since(start)).Msg("detection done")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "#\tLABEL\tBOX\tCENTER\n")
	for i, b := range boxes {
		c := b.Center()
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f,%.1f\n", i, b.Label(), b.Box, c.X, c.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if overlay == "" {
		return nil
	}
	if err := imaging.Save(analyzer.Overlay(img.Pixels, boxes), overlay); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	ev := logger.Info().Str("path", overlay)
	if fi, err := os.Stat(overlay); err == nil {
		ev = ev.Str("bytes", humanize.Bytes(uint64(fi.Size())))
	}
	ev.Msg("overlay written")
	return nil
}

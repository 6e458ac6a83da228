package main

import (
	"bytes"
	"context"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/config"
	"github.com/ivlev/kenburns/internal/effects"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "easings")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(effects.Easings()))
	assert.Equal(t, "linear", lines[0])

	out, err = execute(t, "list", "transitions")
	require.NoError(t, err)
	assert.Contains(t, out, "wipeleft\n")

	_, err = execute(t, "list", "colors")
	assert.Error(t, err)
}

func TestEncodeDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	require.NoError(t, imaging.Save(image.NewGray(image.Rect(0, 0, 1280, 960)), src))
	jobPath := filepath.Join(dir, "job.yaml")

	out, err := execute(t, "encode", "-i", src, "-o", "out.mp4", "--detector", "none",
		"--dry-run", "--explain", "--save-job", jobPath)
	require.NoError(t, err)

	assert.Contains(t, out, "-filter_complex '[0]zoompan=z=1:x=(iw+iw*0)/2-(iw/zoom/2):y=(ih+ih*0)/2-(ih/zoom/2)"+
		":s=640x480:fps=25:d=125,crop=w=640:h=360,setsar=sar=1'")
	assert.Contains(t, out, "-pix_fmt yuv420p -y out.mp4")
	assert.Contains(t, out, "chain 0:")
	assert.Contains(t, out, "    z = 1\n")

	job, err := config.ReadJob(jobPath)
	require.NoError(t, err)
	require.Len(t, job.Images, 1)
	assert.Equal(t, src, job.Images[0].Src)
}

func TestEncodeRequiresImages(t *testing.T) {
	_, err := execute(t, "encode", "-o", "out.mp4", "--detector", "none", "--dry-run")
	assert.ErrorIs(t, err, errdefs.ErrConfiguration)
}

func TestResolveImagesReportsEachBadImage(t *testing.T) {
	s := &config.Settings{DefaultImageDuration: 5, DefaultTransition: "fade", DefaultEasing: "linear", DefaultFit: "cover"}
	_, err := resolveImages(s, encodeFlags{images: []string{"a.png|easing=wobble", "b.png", "c.png|fit=stretch"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image[0]")
	assert.Contains(t, err.Error(), "image[2]")
	assert.NotContains(t, err.Error(), "image[1]")
}

func TestShellJoin(t *testing.T) {
	assert.Equal(t, `ffmpeg -i 'a b.png' -y out.mp4`, shellJoin([]string{"ffmpeg", "-i", "a b.png", "-y", "out.mp4"}))
	assert.Equal(t, `'it'\''s' ''`, shellJoin([]string{"it's", ""}))
}

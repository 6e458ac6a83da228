package source

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	writePNG(t, path, 64, 48)

	img, err := NewLoader(dir, zerolog.Nop()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, img.Src)
	assert.Equal(t, geometry.Size{Width: 64, Height: 48}, img.Size)
	assert.Equal(t, 64, img.Pixels.Bounds().Dx())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader("", zerolog.Nop()).Load(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestLoadURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 20))))

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader("", zerolog.Nop())
	img, err := l.Load(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/img.png", img.Src)
	assert.Equal(t, geometry.Size{Width: 30, Height: 20}, img.Size)
	assert.Equal(t, defaultUserAgent, gotAgent)

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadURLCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader("", zerolog.Nop()).Load(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "a.PNG"), 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	l := NewLoader(dir, zerolog.Nop())
	ctx := context.Background()

	got, err := l.Expand(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.png")}, got)

	got, err = l.Expand(ctx, filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.png")}, got)

	got, err = l.Expand(ctx, "https://example.com/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/x.jpg"}, got)

	_, err = l.Expand(ctx, filepath.Join(dir, "sub"))
	assert.Error(t, err)

	_, err = l.Expand(ctx, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

// Package source finds and opens the still images a job is built from:
// local files, http(s) URLs, directories of images and PDF documents.
package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "kenburns/1.0"
	// maxDownload caps how much of a remote image is read.
	maxDownload = 64 << 20
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// Image is a decoded still together with the identifier ffmpeg will read
// it from.
type Image struct {
	Src    string
	Size   geometry.Size
	Pixels image.Image
}

// Loader opens images from disk or over HTTP.
type Loader struct {
	Client    *http.Client
	UserAgent string
	// WorkDir receives the pages rendered from PDF documents.
	WorkDir string
	// DPI is the resolution PDF pages are rendered at.
	DPI    int
	Logger zerolog.Logger
}

func NewLoader(workDir string, logger zerolog.Logger) *Loader {
	return &Loader{
		Client:    &http.Client{Timeout: defaultTimeout},
		UserAgent: defaultUserAgent,
		WorkDir:   workDir,
		DPI:       150,
		Logger:    logger,
	}
}

// IsURL reports whether src should be fetched over HTTP.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load decodes src and reports its natural size. The returned Src is src
// unchanged.
func (l *Loader) Load(ctx context.Context, src string) (*Image, error) {
	var (
		img image.Image
		err error
	)
	if IsURL(src) {
		img, err = l.fetch(ctx, src)
	} else {
		img, err = imaging.Open(src)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}

	b := img.Bounds()
	size, err := geometry.NewSize(b.Dx(), b.Dy())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	l.Logger.Debug().Str("src", src).Stringer("size", size).Msg("image loaded")
	return &Image{Src: src, Size: size, Pixels: img}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.UserAgent)

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return imaging.Decode(bytes.NewReader(data))
}

// Expand turns one job entry into the image sources it stands for: a
// directory yields its images in name order, a PDF yields one rendered PNG
// per page, anything else is returned as-is.
func (l *Loader) Expand(ctx context.Context, src string) ([]string, error) {
	if IsURL(src) {
		return []string{src}, nil
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", src, err)
	}
	if fi.IsDir() {
		return listImages(src)
	}
	if strings.EqualFold(filepath.Ext(src), ".pdf") {
		return l.renderPDF(ctx, src)
	}
	return []string{src}, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// renderPDF writes every page of the document to WorkDir as a PNG and
// returns the page paths in order.
func (l *Loader) renderPDF(ctx context.Context, path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}

	dir := l.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dpi := l.DPI
	if dpi <= 0 {
		dpi = 150
	}

	paths := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d of %s: %w", i+1, path, err)
		}
		out := filepath.Join(dir, fmt.Sprintf("%s-page-%03d.png", base, i+1))
		if err := imaging.Save(img, out); err != nil {
			return nil, fmt.Errorf("save page %d of %s: %w", i+1, path, err)
		}
		paths = append(paths, out)
	}

	l.Logger.Info().Str("pdf", path).Int("pages", pages).Int("dpi", dpi).Msg("pdf rendered")
	return paths, nil
}

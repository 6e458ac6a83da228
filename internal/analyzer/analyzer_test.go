package analyzer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareImage() *image.Gray {
	// A white square on a black background, standing in for a subject.
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 50; y < 150; y++ {
		for x := 50; x < 150; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func TestContrastDetector(t *testing.T) {
	boxes, err := NewContrastDetector().Detect(context.Background(), squareImage(), []string{"A Person"})
	require.NoError(t, err)
	require.NotEmpty(t, boxes)

	b := boxes[0]
	assert.Equal(t, "a person", b.Label())
	assert.GreaterOrEqual(t, b.Size().Width, 80)
	assert.GreaterOrEqual(t, b.Size().Height, 80)
	c := b.Center()
	assert.InDelta(t, 100, c.X, 5)
	assert.InDelta(t, 100, c.Y, 5)

	t.Logf("Detected %d boxes, first %v", len(boxes), b)
}

func TestContrastDetectorDownscales(t *testing.T) {
	big := image.NewGray(image.Rect(0, 0, 1000, 800))
	for y := 200; y < 600; y++ {
		for x := 500; x < 900; x++ {
			big.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	boxes, err := NewContrastDetector().Detect(context.Background(), big, []string{"a dog"})
	require.NoError(t, err)
	require.NotEmpty(t, boxes)
	c := boxes[0].Center()
	assert.InDelta(t, 700, c.X, 15)
	assert.InDelta(t, 400, c.Y, 15)
}

func TestContrastDetectorFlatImage(t *testing.T) {
	boxes, err := NewContrastDetector().Detect(context.Background(), image.NewGray(image.Rect(0, 0, 64, 64)), []string{"a cat"})
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestEmptyFeaturesSkipDetection(t *testing.T) {
	fake := &fakeChat{}
	detectors := []Detector{
		NewContrastDetector(),
		newVisionDetector(fake, Options{}),
		NopDetector{},
	}
	for _, d := range detectors {
		boxes, err := d.Detect(context.Background(), squareImage(), nil)
		require.NoError(t, err)
		assert.Empty(t, boxes)

		boxes, err = d.Detect(context.Background(), squareImage(), []string{"  "})
		require.NoError(t, err)
		assert.Empty(t, boxes)
	}
	assert.Zero(t, fake.calls)
}

func TestNormalizeFeatures(t *testing.T) {
	got := normalizeFeatures([]string{"A Human Face", "a dog.", " ", "ÉCLAIR"})
	assert.Equal(t, []string{"a human face.", "a dog.", "éclair."}, got)
}

type fakeChat struct {
	calls int
	req   *api.ChatRequest
	reply string
	err   error
}

func (f *fakeChat) Chat(_ context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error {
	f.calls++
	f.req = req
	if f.err != nil {
		return f.err
	}
	return fn(api.ChatResponse{Message: api.Message{Role: "assistant", Content: f.reply}})
}

func TestVisionDetector(t *testing.T) {
	fake := &fakeChat{reply: "```json\n" + `{
		"detections": [
			{"label": "A person.", "score": 0.9, "box": [0.5, 0.25, 0.75, 1.0]},
			{"label": "a dog", "score": 0.2, "box": [0, 0, 0.1, 0.1]},
			{"label": "a cat", "box": [0.1, 0.1, 0.2]},
			{"label": "a cat", "box": [0.3, 0.3, 0.3, 0.4]},
			{"label": "a cat", "box": [-0.5, 0.5, 0.25, 1.5]},
		]
	}` + "\n```"}
	d := newVisionDetector(fake, Options{Model: "llava", Logger: zerolog.Nop()})

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	boxes, err := d.Detect(context.Background(), img, []string{"A Person", "a dog"})
	require.NoError(t, err)

	require.Equal(t, 1, fake.calls)
	assert.Equal(t, "llava", fake.req.Model)
	require.Len(t, fake.req.Messages, 1)
	msg := fake.req.Messages[0]
	assert.Equal(t, "user", msg.Role)
	assert.Contains(t, msg.Content, "a person. a dog.")
	require.Len(t, msg.Images, 1)
	assert.NotEmpty(t, msg.Images[0])
	require.NotNil(t, fake.req.Stream)
	assert.False(t, *fake.req.Stream)

	require.Len(t, boxes, 2)
	assert.Equal(t, "a person", boxes[0].Label())
	assert.Equal(t, 200.0, boxes[0].XMin())
	assert.Equal(t, 50.0, boxes[0].YMin())
	assert.Equal(t, 300.0, boxes[0].XMax())
	assert.Equal(t, 200.0, boxes[0].YMax())

	assert.Equal(t, 0.0, boxes[1].XMin())
	assert.Equal(t, 100.0, boxes[1].XMax())
	assert.Equal(t, 200.0, boxes[1].YMax())
}

func TestVisionDetectorErrors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	boom := errors.New("connection refused")
	_, err := newVisionDetector(&fakeChat{err: boom}, Options{}).Detect(context.Background(), img, []string{"a cat"})
	assert.ErrorIs(t, err, boom)

	_, err = newVisionDetector(&fakeChat{reply: "I see a cat"}, Options{}).Detect(context.Background(), img, []string{"a cat"})
	assert.Error(t, err)
}

func TestVisionDetectorShrinksLargeImages(t *testing.T) {
	d := newVisionDetector(&fakeChat{}, Options{})
	d.MaxSide = 64
	payload, err := d.encode(image.NewRGBA(image.Rect(0, 0, 640, 320)))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestSanitizeModelJSON(t *testing.T) {
	raw := "Sure!\n{\"detections\": [ {\"box\": [1,2,3,4],}, ], /* note */}\n// done"
	assert.Equal(t, `{"detections": [ {"box": [1,2,3,4]} ] }`, sanitizeModelJSON(raw))
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"contrast", false},
		{"none", false},
		{"ollama", false},
		{"", false}, // default
		{"ocr", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant, Options{Host: "http://127.0.0.1:11434"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, detector)
		})
	}
}

func TestOverlay(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 200, 200))
	first, err := geometry.NewLabeledBox(20, 20, 120, 120, "a person")
	require.NoError(t, err)
	second, err := geometry.NewLabeledBox(150, 150, 190, 190, "a dog")
	require.NoError(t, err)

	out := Overlay(src, []geometry.LabeledBox{first, second})
	assert.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, overlayFirst, out.NRGBAAt(20, 60))
	assert.Equal(t, overlayOther, out.NRGBAAt(150, 170))
	assert.Equal(t, overlayMark, out.NRGBAAt(70, 70))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(60, 40))
	assert.Equal(t, color.Gray{}, src.GrayAt(20, 60), "source untouched")
}

func TestOverlayOffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 300, 300)).SubImage(image.Rect(100, 100, 300, 300))
	box, err := geometry.NewLabeledBox(120, 120, 220, 220, "a person")
	require.NoError(t, err)

	out := Overlay(src, []geometry.LabeledBox{box})
	assert.Equal(t, image.Rect(0, 0, 200, 200), out.Bounds())
	assert.Equal(t, overlayFirst, out.NRGBAAt(20, 60))
	assert.Equal(t, overlayMark, out.NRGBAAt(70, 70))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(120, 60))
}

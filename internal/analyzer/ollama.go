package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

const (
	DefaultModel          = "qwen2.5vl"
	DefaultScoreThreshold = 0.5
	defaultMaxSide        = 1024
	defaultChatTimeout    = 5 * time.Minute
)

// chatClient is the part of the Ollama API client the detector uses.
type chatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// VisionDetector asks a vision model served by Ollama to locate the
// features and return them as normalized bounding boxes.
type VisionDetector struct {
	client    chatClient
	model     string
	threshold float64
	// MaxSide bounds the longer edge of the image sent to the model.
	MaxSide int
	logger  zerolog.Logger
}

func NewVisionDetector(opts Options) (*VisionDetector, error) {
	var client *api.Client
	if opts.Host == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		client = c
	} else {
		u, err := url.Parse(opts.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", opts.Host, err)
		}
		hc := opts.HTTPClient
		if hc == nil {
			hc = http.DefaultClient
		}
		client = api.NewClient(&url.URL{Scheme: u.Scheme, Host: u.Host}, hc)
	}
	return newVisionDetector(client, opts), nil
}

func newVisionDetector(client chatClient, opts Options) *VisionDetector {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	threshold := opts.ScoreThreshold
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	return &VisionDetector{
		client:    client,
		model:     model,
		threshold: threshold,
		MaxSide:   defaultMaxSide,
		logger:    opts.Logger,
	}
}

func buildPrompt(features []string) string {
	var b strings.Builder
	b.WriteString("Locate the following objects in the image: ")
	b.WriteString(strings.Join(features, " "))
	b.WriteString("\nRespond with JSON only, in this shape:\n")
	b.WriteString(`{"detections":[{"label":"<the matching object text>","score":<0..1>,"box":[xmin,ymin,xmax,ymax]}]}`)
	b.WriteString("\nCoordinates are fractions of the image width and height, between 0 and 1. ")
	b.WriteString("List the most prominent match first. Return an empty list when nothing matches.")
	return b.String()
}

func (d *VisionDetector) Detect(ctx context.Context, img image.Image, features []string) ([]geometry.LabeledBox, error) {
	features = normalizeFeatures(features)
	if len(features) == 0 {
		return nil, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultChatTimeout)
		defer cancel()
	}

	payload, err := d.encode(img)
	if err != nil {
		return nil, err
	}

	stream := false
	req := &api.ChatRequest{
		Model: d.model,
		Messages: []api.Message{{
			Role:    "user",
			Content: buildPrompt(features),
			Images:  []api.ImageData{payload},
		}},
		Stream:  &stream,
		Format:  json.RawMessage(`"json"`),
		Options: map[string]any{"temperature": 0},
	}

	var content strings.Builder
	err = d.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	b := img.Bounds()
	boxes, err := d.parse(content.String(), float64(b.Dx()), float64(b.Dy()))
	if err != nil {
		return nil, err
	}
	d.logger.Debug().Str("model", d.model).Int("boxes", len(boxes)).Msg("vision detection done")
	return boxes, nil
}

// encode shrinks the image to MaxSide and encodes it as JPEG. Normalized
// coordinates are unaffected by the resize.
func (d *VisionDetector) encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if d.MaxSide > 0 && (b.Dx() > d.MaxSide || b.Dy() > d.MaxSide) {
		img = imaging.Fit(img, d.MaxSide, d.MaxSide, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image for model: %w", err)
	}
	return buf.Bytes(), nil
}

type detectionReply struct {
	Detections []struct {
		Label string    `json:"label"`
		Score *float64  `json:"score"`
		Box   []float64 `json:"box"`
	} `json:"detections"`
}

func (d *VisionDetector) parse(raw string, width, height float64) ([]geometry.LabeledBox, error) {
	var reply detectionReply
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &reply); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}

	var boxes []geometry.LabeledBox
	for i, det := range reply.Detections {
		if det.Score != nil && *det.Score < d.threshold {
			continue
		}
		if len(det.Box) != 4 {
			d.logger.Debug().Int("detection", i).Msg("skipping detection without a 4-value box")
			continue
		}
		label := strings.TrimSuffix(strings.TrimSpace(lower.String(det.Label)), ".")
		box, err := geometry.NewLabeledBox(
			clamp01(det.Box[0])*width, clamp01(det.Box[1])*height,
			clamp01(det.Box[2])*width, clamp01(det.Box[3])*height,
			label)
		if err != nil {
			d.logger.Debug().Err(err).Int("detection", i).Msg("skipping degenerate box")
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

var (
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment  = regexp.MustCompile(`(?m)//.*$`)
	reTrailing     = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON strips the code fences, comments and trailing commas
// vision models like to wrap around JSON, keeping the outermost object.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

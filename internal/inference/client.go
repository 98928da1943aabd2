package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/scoring"
	"media-forensics/backend/internal/spectral"
)

// ClassifierFrames is the number of frames the action classifier samples from the start of a video.
const ClassifierFrames = 8

// Config holds inference sidecar configuration.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	RealPrompts      []string
	SyntheticPrompts []string
}

var (
	defaultRealPrompts = []string{
		"a real photograph taken with a camera",
		"a natural unedited photo",
	}
	defaultSyntheticPrompts = []string{
		"an AI-generated image",
		"a synthetic digital artwork",
	}
)

// Client implements Backend against a JSON-over-HTTP model sidecar.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	realPrompts      []string
	syntheticPrompts []string
}

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	realPrompts := cfg.RealPrompts
	if len(realPrompts) == 0 {
		realPrompts = defaultRealPrompts
	}
	syntheticPrompts := cfg.SyntheticPrompts
	if len(syntheticPrompts) == 0 {
		syntheticPrompts = defaultSyntheticPrompts
	}
	return &Client{
		httpClient:       &http.Client{Timeout: timeout},
		baseURL:          baseURL,
		realPrompts:      realPrompts,
		syntheticPrompts: syntheticPrompts,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Name identifies the backend in logs.
func (c *Client) Name() string {
	return "sidecar"
}

type mediaRequest struct {
	Image   []byte   `json:"image,omitempty"`
	Video   []byte   `json:"video,omitempty"`
	Audio   []byte   `json:"audio,omitempty"`
	Prompts []string `json:"prompts,omitempty"`
}

type facesResponse struct {
	Faces [][]float64 `json:"faces"`
}

type classifyImageResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

type landmarksResponse struct {
	Frames [][][]float64 `json:"frames"`
}

type classifyVideoResponse struct {
	Probability any `json:"probability"`
	Frames      int `json:"frames"`
}

type encodeSpeechResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// DetectFaces asks the sidecar for face boxes. Malformed boxes are dropped.
func (c *Client) DetectFaces(ctx context.Context, img image.Image) ([]spectral.Box, error) {
	encoded, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var resp facesResponse
	if err := c.post(ctx, "/v1/faces", mediaRequest{Image: encoded}, &resp); err != nil {
		return nil, err
	}
	boxes := make([]spectral.Box, 0, len(resp.Faces))
	for _, face := range resp.Faces {
		if len(face) < 4 {
			continue
		}
		boxes = append(boxes, spectral.Box{X1: face[0], Y1: face[1], X2: face[2], Y2: face[3]})
	}
	return boxes, nil
}

// ClassifyImage scores the image against the configured prompts. The sidecar returns one
// probability per prompt in request order.
func (c *Client) ClassifyImage(ctx context.Context, img image.Image) (Distribution, error) {
	encoded, err := encodeImage(img)
	if err != nil {
		return Distribution{}, err
	}
	prompts := append(append([]string{}, c.realPrompts...), c.syntheticPrompts...)

	var resp classifyImageResponse
	if err := c.post(ctx, "/v1/image/classify", mediaRequest{Image: encoded, Prompts: prompts}, &resp); err != nil {
		return Distribution{}, err
	}
	if len(resp.Probabilities) != len(prompts) {
		return Distribution{}, fmt.Errorf("classify image: expected %d probabilities got %d", len(prompts), len(resp.Probabilities))
	}

	var dist Distribution
	for i, p := range resp.Probabilities {
		if i < len(c.realPrompts) {
			dist.Real += p
		} else {
			dist.Synthetic += p
		}
	}
	return dist, nil
}

// ExtractLandmarks returns per-frame landmarks; frames without a face decode to nil.
func (c *Client) ExtractLandmarks(ctx context.Context, video []byte, maxFrames int) ([]biometric.LandmarkFrame, error) {
	path := "/v1/video/landmarks?max_frames=" + strconv.Itoa(maxFrames)
	var resp landmarksResponse
	if err := c.post(ctx, path, mediaRequest{Video: video}, &resp); err != nil {
		return nil, err
	}
	frames := make([]biometric.LandmarkFrame, len(resp.Frames))
	for i, raw := range resp.Frames {
		if len(raw) == 0 {
			continue
		}
		frame := make(biometric.LandmarkFrame, 0, len(raw))
		for _, pt := range raw {
			if len(pt) < 2 {
				frame = nil
				break
			}
			frame = append(frame, biometric.Point{X: pt[0], Y: pt[1]})
		}
		frames[i] = frame
	}
	return frames, nil
}

// ClassifyVideo returns the fake-class probability over the first ClassifierFrames frames.
func (c *Client) ClassifyVideo(ctx context.Context, video []byte) (Classification, error) {
	path := "/v1/video/classify?frames=" + strconv.Itoa(ClassifierFrames)
	var resp classifyVideoResponse
	if err := c.post(ctx, path, mediaRequest{Video: video}, &resp); err != nil {
		return Classification{}, err
	}
	return Classification{
		Probability: scoring.Coerce(resp.Probability),
		Frames:      resp.Frames,
	}, nil
}

// EncodeSpeech returns the speech encoder hidden states for the clip.
func (c *Client) EncodeSpeech(ctx context.Context, audio []byte) ([][]float64, error) {
	var resp encodeSpeechResponse
	if err := c.post(ctx, "/v1/speech/encode", mediaRequest{Audio: audio}, &resp); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

func (c *Client) post(ctx context.Context, path string, payload mediaRequest, out any) error {
	if c == nil || !c.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sidecar status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeImage(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

package inference

import (
	"context"
	"errors"
	"image"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/scoring"
	"media-forensics/backend/internal/spectral"
)

// MinClassifierFrames is the number of sampled frames below which the action classifier is neutral.
const MinClassifierFrames = 4

// ErrDisabled is returned when a backend has no reachable model service.
var ErrDisabled = errors.New("inference backend disabled")

// Capability names, used in logs and metrics.
const (
	CapabilityFaces     = "faces"
	CapabilityImage     = "image_classifier"
	CapabilityLandmarks = "landmarks"
	CapabilityVideo     = "action_classifier"
	CapabilitySpeech    = "speech_encoder"
)

// Distribution is the zero-shot classifier output summed over real-like and synthetic-like prompts.
type Distribution struct {
	Real      float64 `json:"real"`
	Synthetic float64 `json:"synthetic"`
}

// SyntheticScore is the share of probability mass on synthetic prompts. An empty distribution is neutral.
func (d Distribution) SyntheticScore() float64 {
	if d.Real == 0 && d.Synthetic == 0 {
		return scoring.NeutralScore
	}
	return scoring.Clamp01(d.Synthetic / (d.Synthetic + d.Real + 1e-8))
}

// Classification is the action classifier output for a short frame sample.
type Classification struct {
	Probability float64 `json:"probability"`
	Frames      int     `json:"frames"`
}

// SyntheticScore returns the fake-class probability, or NeutralScore when too few frames were sampled.
func (c Classification) SyntheticScore() float64 {
	if c.Frames < MinClassifierFrames {
		return scoring.NeutralScore
	}
	return scoring.Clamp01(c.Probability)
}

// ImageClassifier scores an image against real-like and synthetic-like prompts.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, img image.Image) (Distribution, error)
}

// LandmarkExtractor returns per-frame face landmarks for up to maxFrames frames, nil where no face was found.
type LandmarkExtractor interface {
	ExtractLandmarks(ctx context.Context, video []byte, maxFrames int) ([]biometric.LandmarkFrame, error)
}

// SpeechEncoder returns the encoder's hidden-state vectors for an audio clip.
type SpeechEncoder interface {
	EncodeSpeech(ctx context.Context, audio []byte) ([][]float64, error)
}

// ActionClassifier scores a short frame sample of a video.
type ActionClassifier interface {
	ClassifyVideo(ctx context.Context, video []byte) (Classification, error)
}

// Backend bundles every model capability the analyzers consume.
type Backend interface {
	spectral.FaceDetector
	ImageClassifier
	LandmarkExtractor
	SpeechEncoder
	ActionClassifier
	Enabled() bool
	Name() string
}

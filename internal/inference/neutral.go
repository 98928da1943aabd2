package inference

import (
	"context"
	"image"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/spectral"
)

// Neutral answers every capability with its documented fallback: no faces, no landmarks, no
// embeddings and neutral classifier scores.
type Neutral struct{}

func (Neutral) Enabled() bool { return false }

func (Neutral) Name() string { return "neutral" }

func (Neutral) DetectFaces(context.Context, image.Image) ([]spectral.Box, error) {
	return nil, nil
}

func (Neutral) ClassifyImage(context.Context, image.Image) (Distribution, error) {
	return Distribution{}, nil
}

func (Neutral) ExtractLandmarks(context.Context, []byte, int) ([]biometric.LandmarkFrame, error) {
	return nil, nil
}

func (Neutral) EncodeSpeech(context.Context, []byte) ([][]float64, error) {
	return nil, nil
}

func (Neutral) ClassifyVideo(context.Context, []byte) (Classification, error) {
	return Classification{}, nil
}

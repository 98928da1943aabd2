package inference

import (
	"context"
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/metrics"
	"media-forensics/backend/internal/spectral"
)

type backendChain struct {
	primary  Backend
	fallback Backend
}

// WithFallback returns a backend that first tries the primary implementation and falls back to
// the provided backend when the primary is disabled or fails.
func WithFallback(primary, fallback Backend) Backend {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &backendChain{primary: primary, fallback: fallback}
}

// Enabled reports whether real model output can be produced.
func (c *backendChain) Enabled() bool {
	return c.primary.Enabled()
}

func (c *backendChain) Name() string {
	return c.primary.Name() + "+" + c.fallback.Name()
}

func (c *backendChain) DetectFaces(ctx context.Context, img image.Image) ([]spectral.Box, error) {
	if c.primary.Enabled() {
		boxes, err := c.primary.DetectFaces(ctx, img)
		if err == nil {
			return boxes, nil
		}
		c.degrade(CapabilityFaces, err)
	}
	return c.fallback.DetectFaces(ctx, img)
}

func (c *backendChain) ClassifyImage(ctx context.Context, img image.Image) (Distribution, error) {
	if c.primary.Enabled() {
		dist, err := c.primary.ClassifyImage(ctx, img)
		if err == nil {
			return dist, nil
		}
		c.degrade(CapabilityImage, err)
	}
	return c.fallback.ClassifyImage(ctx, img)
}

func (c *backendChain) ExtractLandmarks(ctx context.Context, video []byte, maxFrames int) ([]biometric.LandmarkFrame, error) {
	if c.primary.Enabled() {
		frames, err := c.primary.ExtractLandmarks(ctx, video, maxFrames)
		if err == nil {
			return frames, nil
		}
		c.degrade(CapabilityLandmarks, err)
	}
	return c.fallback.ExtractLandmarks(ctx, video, maxFrames)
}

func (c *backendChain) EncodeSpeech(ctx context.Context, audio []byte) ([][]float64, error) {
	if c.primary.Enabled() {
		vectors, err := c.primary.EncodeSpeech(ctx, audio)
		if err == nil {
			return vectors, nil
		}
		c.degrade(CapabilitySpeech, err)
	}
	return c.fallback.EncodeSpeech(ctx, audio)
}

func (c *backendChain) ClassifyVideo(ctx context.Context, video []byte) (Classification, error) {
	if c.primary.Enabled() {
		class, err := c.primary.ClassifyVideo(ctx, video)
		if err == nil {
			return class, nil
		}
		c.degrade(CapabilityVideo, err)
	}
	return c.fallback.ClassifyVideo(ctx, video)
}

func (c *backendChain) degrade(capability string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"backend":    c.primary.Name(),
		"capability": capability,
	}).Warn("inference call failed, using fallback")
	metrics.RecordFallback(capability)
}

// NewBackend builds the backend used by the analyzers: the sidecar client behind a circuit
// breaker with the neutral fallback, or the neutral backend alone when inference is disabled.
func NewBackend(cfg Config, breaker BreakerConfig, disabled bool) (Backend, error) {
	if disabled {
		logrus.Info("inference disabled via configuration, using neutral fallbacks")
		return Neutral{}, nil
	}
	client, err := NewClient(cfg)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			logrus.Info("inference sidecar not configured, using neutral fallbacks")
			return Neutral{}, nil
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"base_url": client.baseURL,
		"timeout":  client.httpClient.Timeout,
	}).Info("inference sidecar enabled")
	return WithFallback(NewBreaker(client, breaker), Neutral{}), nil
}

package inference

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/metrics"
	"media-forensics/backend/internal/spectral"
)

// BreakerConfig tunes the circuit breaker guarding a backend.
type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

// Breaker trips after consecutive backend failures so an unavailable sidecar fails fast.
type Breaker struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker[any]
}

// NewBreaker wraps backend with a circuit breaker.
func NewBreaker(backend Backend, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        backend.Name(),
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"backend": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("inference circuit breaker state changed")
			metrics.SetBreakerState(int(to))
		},
	}
	return &Breaker{
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State reports the breaker state for monitoring.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) Enabled() bool { return b.backend.Enabled() }

func (b *Breaker) Name() string { return b.backend.Name() }

func (b *Breaker) DetectFaces(ctx context.Context, img image.Image) ([]spectral.Box, error) {
	return guard(b, func() ([]spectral.Box, error) { return b.backend.DetectFaces(ctx, img) })
}

func (b *Breaker) ClassifyImage(ctx context.Context, img image.Image) (Distribution, error) {
	return guard(b, func() (Distribution, error) { return b.backend.ClassifyImage(ctx, img) })
}

func (b *Breaker) ExtractLandmarks(ctx context.Context, video []byte, maxFrames int) ([]biometric.LandmarkFrame, error) {
	return guard(b, func() ([]biometric.LandmarkFrame, error) { return b.backend.ExtractLandmarks(ctx, video, maxFrames) })
}

func (b *Breaker) EncodeSpeech(ctx context.Context, audio []byte) ([][]float64, error) {
	return guard(b, func() ([][]float64, error) { return b.backend.EncodeSpeech(ctx, audio) })
}

func (b *Breaker) ClassifyVideo(ctx context.Context, video []byte) (Classification, error) {
	return guard(b, func() (Classification, error) { return b.backend.ClassifyVideo(ctx, video) })
}

func guard[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

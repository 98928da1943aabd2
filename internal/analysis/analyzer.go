package analysis

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"

	"media-forensics/backend/internal/biometric"
	"media-forensics/backend/internal/fetch"
	"media-forensics/backend/internal/inference"
	"media-forensics/backend/internal/match"
	"media-forensics/backend/internal/metrics"
	"media-forensics/backend/internal/scoring"
	"media-forensics/backend/internal/spectral"
	"media-forensics/backend/internal/speech"
	"media-forensics/backend/internal/util"
)

// Modality names used in logs, metrics and stream events.
const (
	ModalityImage = "image"
	ModalityVideo = "video"
	ModalityAudio = "audio"
	ModalityLink  = "link"
)

// Strategy selects how video verdicts are produced.
type Strategy string

const (
	// StrategyForensic uses the biometric analysis alone.
	StrategyForensic Strategy = "forensic"
	// StrategyFused blends the biometric score with the action classifier.
	StrategyFused Strategy = "fused"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategyForensic:
		return StrategyForensic, nil
	case StrategyFused:
		return StrategyFused, nil
	default:
		return "", fmt.Errorf("unknown video strategy %q", value)
	}
}

// Options tunes the pipelines.
type Options struct {
	VideoStrategy  Strategy
	MaxVideoFrames int
}

// ScorerSource supplies the link scorer for the current indicator snapshot.
type ScorerSource interface {
	Scorer() *scoring.LinkScorer
}

type staticScorer struct {
	scorer *scoring.LinkScorer
}

func (s staticScorer) Scorer() *scoring.LinkScorer { return s.scorer }

// StaticScorer returns a ScorerSource that always yields scorer.
func StaticScorer(scorer *scoring.LinkScorer) ScorerSource {
	return staticScorer{scorer: scorer}
}

// Analyzer runs the per-modality pipelines against injected collaborators.
type Analyzer struct {
	backend inference.Backend
	fetcher fetch.Fetcher
	scorers ScorerSource
	opts    Options
}

// New constructs an Analyzer. Nil collaborators are replaced with neutral defaults.
func New(backend inference.Backend, fetcher fetch.Fetcher, scorers ScorerSource, opts Options) *Analyzer {
	if backend == nil {
		backend = inference.Neutral{}
	}
	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.Config{})
	}
	if scorers == nil {
		scorers = StaticScorer(scoring.NewLinkScorer(scoring.DefaultIndicators()))
	}
	if opts.VideoStrategy == "" {
		opts.VideoStrategy = StrategyForensic
	}
	if opts.MaxVideoFrames <= 0 || opts.MaxVideoFrames > biometric.MaxFrames {
		opts.MaxVideoFrames = biometric.MaxFrames
	}
	return &Analyzer{backend: backend, fetcher: fetcher, scorers: scorers, opts: opts}
}

// Options returns the effective options.
func (a *Analyzer) Options() Options {
	return a.opts
}

// InferenceEnabled reports whether real model output is available.
func (a *Analyzer) InferenceEnabled() bool {
	return a.backend.Enabled()
}

// Indicators returns the indicator snapshot the next link analysis will use.
func (a *Analyzer) Indicators() scoring.Indicators {
	return a.scorers.Scorer().Indicators()
}

// Image fuses the face-focused spectral score with the zero-shot classifier score.
func (a *Analyzer) Image(ctx context.Context, img image.Image) scoring.ImageResult {
	timer := util.StartTimer()

	region := spectral.FaceScore(ctx, img, a.backend)

	dist, err := a.backend.ClassifyImage(ctx, img)
	if err != nil {
		logrus.WithError(err).Warn("image classifier unavailable, using neutral score")
		dist = inference.Distribution{}
	}
	semantic := dist.SyntheticScore()

	result := scoring.EvaluateImage(region.Score, semantic)

	logrus.WithFields(logrus.Fields{
		"fft_score":  region.Score,
		"faces":      region.Faces,
		"clip_score": semantic,
	}).Debug("image signals")
	a.finish(ModalityImage, string(result.Verdict), result.Confidence, timer)
	return result
}

// Video scores facial motion and, under the fused strategy, blends in the action classifier.
func (a *Analyzer) Video(ctx context.Context, video []byte) scoring.VideoResult {
	timer := util.StartTimer()

	frames, err := a.backend.ExtractLandmarks(ctx, video, a.opts.MaxVideoFrames)
	if err != nil {
		logrus.WithError(err).Warn("landmark extraction unavailable, treating video as faceless")
		frames = nil
	}
	bio := biometric.Analyze(frames)

	fields := logrus.Fields{
		"strategy":       a.opts.VideoStrategy,
		"jitter":         bio.Jitter,
		"blink_variance": bio.BlinkVariance,
		"samples":        bio.Samples,
		"forensic_score": bio.ForensicScore,
	}

	var result scoring.VideoResult
	if a.opts.VideoStrategy == StrategyFused && a.backend.Enabled() {
		class, err := a.backend.ClassifyVideo(ctx, video)
		if err != nil {
			logrus.WithError(err).Warn("action classifier unavailable, using neutral score")
			class = inference.Classification{}
		}
		temporal := class.SyntheticScore()
		fields["temporal_score"] = temporal
		result = scoring.EvaluateFusedVideo(bio.ForensicScore, temporal)
	} else {
		result = scoring.EvaluateForensicVideo(bio.Verdict, bio.Confidence)
	}

	logrus.WithFields(fields).Debug("video signals")
	a.finish(ModalityVideo, string(result.Verdict), result.Confidence, timer)
	return result
}

// Audio scores the regularity of the speech encoder trajectory.
func (a *Analyzer) Audio(ctx context.Context, audio []byte) scoring.AudioResult {
	timer := util.StartTimer()

	vectors, err := a.backend.EncodeSpeech(ctx, audio)
	if err != nil {
		logrus.WithError(err).Warn("speech encoder unavailable, using neutral score")
		vectors = nil
	}
	regularity := speech.Analyze(vectors)
	result := scoring.EvaluateAudio(regularity.Score)

	logrus.WithFields(logrus.Fields{
		"score":      regularity.Score,
		"ratio":      regularity.Ratio,
		"steps":      regularity.Steps,
		"sufficient": regularity.Sufficient,
	}).Debug("audio signals")
	a.finish(ModalityAudio, string(result.Verdict), result.Confidence, timer)
	return result
}

// Link fetches the page once and runs the heuristic rules. A fetch failure becomes evidence;
// only an empty URL is an error.
func (a *Analyzer) Link(ctx context.Context, raw string) (scoring.LinkResult, error) {
	timer := util.StartTimer()

	profile := match.ProfileURL(raw)
	if profile.URL == "" {
		return scoring.LinkResult{}, fetch.ErrEmptyURL
	}

	signals := scoring.LinkSignals{Profile: profile}
	page, err := a.fetcher.Fetch(ctx, profile.Target)
	if err != nil {
		logrus.WithError(err).WithField("url", profile.Target).Warn("link fetch failed")
		metrics.RecordFetchFailure()
	} else {
		signals.Fetched = true
		signals.Redirects = page.Redirects
		signals.Text = page.Text
	}

	assessment := a.scorers.Scorer().Score(signals)

	logrus.WithFields(logrus.Fields{
		"host":      profile.Host,
		"suffix":    profile.Suffix,
		"fetched":   signals.Fetched,
		"redirects": signals.Redirects,
		"points":    assessment.Points,
		"rules":     assessment.Fired,
	}).Debug("link signals")
	a.finish(ModalityLink, string(assessment.Result.Verdict), assessment.Result.Confidence, timer)
	return assessment.Result, nil
}

func (a *Analyzer) finish(modality, verdict string, confidence int, timer util.Timer) {
	elapsed := timer.Elapsed()
	metrics.RecordAnalysis(modality, verdict, elapsed)
	logrus.WithFields(logrus.Fields{
		"modality":   modality,
		"verdict":    verdict,
		"confidence": confidence,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("analysis complete")
}

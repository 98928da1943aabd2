package biometric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"media-forensics/backend/internal/scoring"
)

const (
	// MaxFrames caps how many frames, detected or not, are considered.
	MaxFrames = 150
	// MinJitterSamples is the minimum number of consecutive detected-frame pairs needed for a verdict.
	MinJitterSamples = 10

	jitterWeight = 8
	blinkWeight  = 20
)

// Point is a normalized landmark coordinate.
type Point struct {
	X, Y float64
}

// LandmarkFrame holds the landmarks of one frame. A nil frame means no face was detected.
type LandmarkFrame []Point

// EyeIndices selects the six eye landmarks: two corners at 0 and 3, upper lid at 1 and 2, lower
// lid at 4 and 5.
type EyeIndices [6]int

var (
	LeftEye  = EyeIndices{33, 160, 158, 133, 153, 144}
	RightEye = EyeIndices{362, 385, 387, 263, 373, 380}
)

// Result is the outcome of the temporal biometric analysis.
type Result struct {
	Verdict    scoring.VideoVerdict
	Confidence int
	// ForensicScore is the unbounded jitter/blink score, or NeutralScore when evidence is insufficient.
	ForensicScore float64
	Jitter        float64
	BlinkVariance float64
	Samples       int
	Sufficient    bool
}

// Analyze scores facial motion across the supplied frames.
func Analyze(frames []LandmarkFrame) Result {
	if len(frames) > MaxFrames {
		frames = frames[:MaxFrames]
	}

	var (
		movements []float64
		openness  []float64
		prev      LandmarkFrame
	)
	for _, frame := range frames {
		if !usable(frame, prev) {
			continue
		}
		if prev != nil {
			movements = append(movements, displacement(frame, prev))
		}
		openness = append(openness, (EAR(frame, LeftEye)+EAR(frame, RightEye))/2)
		prev = frame
	}

	if len(movements) < MinJitterSamples {
		return Result{
			Verdict:       scoring.VideoPossiblyAI,
			Confidence:    50,
			ForensicScore: scoring.NeutralScore,
			Samples:       len(movements),
		}
	}

	jitter := stat.Mean(movements, nil)
	variance := stat.PopVariance(openness, nil)
	forensic := ForensicScore(jitter, variance)
	verdict, confidence := Decide(forensic)

	return Result{
		Verdict:       verdict,
		Confidence:    confidence,
		ForensicScore: forensic,
		Jitter:        jitter,
		BlinkVariance: variance,
		Samples:       len(movements),
		Sufficient:    true,
	}
}

// ForensicScore combines mean landmark jitter with blink openness variance.
func ForensicScore(meanJitter, blinkVariance float64) float64 {
	return meanJitter*jitterWeight + blinkVariance*blinkWeight
}

// Decide thresholds a forensic score into the forensic-only video verdict.
func Decide(forensic float64) (scoring.VideoVerdict, int) {
	switch {
	case forensic > 1.2:
		return scoring.VideoLikelyAI, min(95, round(forensic*70))
	case forensic > 0.6:
		return scoring.VideoPossiblyAI, min(80, round(forensic*60))
	default:
		return scoring.VideoReal, max(55, 100-round(forensic*80))
	}
}

// EAR computes the eye aspect ratio for one eye. A zero-width eye yields 0.
func EAR(frame LandmarkFrame, eye EyeIndices) float64 {
	p := func(i int) []float64 {
		pt := frame[eye[i]]
		return []float64{pt.X, pt.Y}
	}
	horizontal := 2 * floats.Distance(p(0), p(3), 2)
	if horizontal == 0 {
		return 0
	}
	vertical := floats.Distance(p(1), p(5), 2) + floats.Distance(p(2), p(4), 2)
	return vertical / horizontal
}

// usable rejects faceless frames, frames too short to address the eye landmarks and frames whose
// landmark count differs from the previous detected frame.
func usable(frame, prev LandmarkFrame) bool {
	if len(frame) < minLandmarks {
		return false
	}
	return prev == nil || len(prev) == len(frame)
}

var minLandmarks = func() int {
	highest := 0
	for _, eye := range []EyeIndices{LeftEye, RightEye} {
		for _, idx := range eye {
			highest = max(highest, idx)
		}
	}
	return highest + 1
}()

// displacement is the mean Euclidean distance each landmark moved between two frames.
func displacement(cur, prev LandmarkFrame) float64 {
	var sum float64
	for i := range cur {
		sum += math.Hypot(cur[i].X-prev[i].X, cur[i].Y-prev[i].Y)
	}
	return sum / float64(len(cur))
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

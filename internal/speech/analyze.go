package speech

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"media-forensics/backend/internal/scoring"
)

const (
	// baseline is the regularity ratio subtracted from to obtain the synthetic score.
	baseline = 0.85
	epsilon  = 1e-6
	// minVectors is the smallest sequence that yields two deltas, the minimum for a sample deviation.
	minVectors = 3
)

// Result describes how regular the step sizes of an embedding trajectory are.
type Result struct {
	// Score is in [0,1]; higher means more uniform steps, which is typical of synthetic speech.
	Score      float64
	Ratio      float64
	MeanDelta  float64
	StdDelta   float64
	Steps      int
	Sufficient bool
}

// Analyze measures step-size regularity over a sequence of equal-dimension encoder vectors.
// Short or ragged sequences yield NeutralScore.
func Analyze(sequence [][]float64) Result {
	if len(sequence) < minVectors || !uniformDimension(sequence) {
		return Result{Score: scoring.NeutralScore}
	}

	deltas := make([]float64, len(sequence)-1)
	for i := 1; i < len(sequence); i++ {
		deltas[i-1] = floats.Distance(sequence[i], sequence[i-1], 2)
	}

	mean, std := stat.MeanStdDev(deltas, nil)
	ratio := std / (mean + epsilon)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return Result{Score: scoring.NeutralScore, Steps: len(deltas)}
	}

	return Result{
		Score:      scoring.Clamp01(baseline - ratio),
		Ratio:      ratio,
		MeanDelta:  mean,
		StdDelta:   std,
		Steps:      len(deltas),
		Sufficient: true,
	}
}

func uniformDimension(sequence [][]float64) bool {
	dim := len(sequence[0])
	if dim == 0 {
		return false
	}
	for _, vec := range sequence[1:] {
		if len(vec) != dim {
			return false
		}
	}
	return true
}

package speech

import (
	"math"
	"testing"

	"media-forensics/backend/internal/scoring"
)

func line(steps []float64) [][]float64 {
	seq := [][]float64{{0, 0}}
	x := 0.0
	for _, s := range steps {
		x += s
		seq = append(seq, []float64{x, 0})
	}
	return seq
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		sequence   [][]float64
		score      float64
		sufficient bool
	}{
		{"empty", nil, scoring.NeutralScore, false},
		{"two vectors", [][]float64{{0, 1}, {1, 1}}, scoring.NeutralScore, false},
		{"ragged", [][]float64{{0, 1}, {1}, {2, 2}}, scoring.NeutralScore, false},
		{"zero dimension", [][]float64{{}, {}, {}}, scoring.NeutralScore, false},
		{"perfectly uniform steps", line([]float64{1, 1, 1, 1}), 0.85, true},
		{"stationary", line([]float64{0, 0, 0}), 0.85, true},
		{"erratic steps", line([]float64{0.1, 5, 0.1, 5, 0.1}), 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Analyze(tc.sequence)
			if math.Abs(got.Score-tc.score) > 1e-9 {
				t.Fatalf("expected score %v got %v", tc.score, got.Score)
			}
			if got.Sufficient != tc.sufficient {
				t.Fatalf("expected sufficient=%v got %v", tc.sufficient, got.Sufficient)
			}
		})
	}
}

func TestAnalyzeUsesSampleDeviation(t *testing.T) {
	got := Analyze(line([]float64{1, 3}))
	// deltas 1 and 3: mean 2, sample std sqrt(2)
	if math.Abs(got.MeanDelta-2) > 1e-12 || math.Abs(got.StdDelta-math.Sqrt2) > 1e-12 {
		t.Fatalf("unexpected stats mean=%v std=%v", got.MeanDelta, got.StdDelta)
	}
	want := 0.85 - math.Sqrt2/(2+1e-6)
	if want < 0 {
		want = 0
	}
	if math.Abs(got.Score-want) > 1e-12 {
		t.Fatalf("expected %v got %v", want, got.Score)
	}
	if got.Steps != 2 {
		t.Fatalf("expected 2 steps got %d", got.Steps)
	}
}

func TestAnalyzeRegularityOrdering(t *testing.T) {
	regular := Analyze(line([]float64{1, 1.1, 0.9, 1, 1.05}))
	irregular := Analyze(line([]float64{0.2, 1.8, 0.4, 1.6, 1}))
	if regular.Score <= irregular.Score {
		t.Fatalf("expected regular trajectory to score higher: %v vs %v", regular.Score, irregular.Score)
	}
}

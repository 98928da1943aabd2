package scoring

import (
	"math"
	"testing"
)

func TestImageDecisionBands(t *testing.T) {
	tests := []struct {
		name       string
		fft        float64
		clip       float64
		verdict    ImageVerdict
		confidence int
	}{
		{"strong synthetic", 0.9, 0.9, ImageAIGenerated, 90},
		{"strong real", 0.1, 0.1, ImageReal, 90},
		{"midpoint", 0.5, 0.5, ImagePossiblyAI, 0},
		{"fft high clip low", 0.9, 0.2, ImagePossiblyAI, 31},
		{"edge of real band", 0.40, 0.1, ImagePossiblyAI, 41},
		{"clamped above", 3, 7, ImageAIGenerated, 100},
		{"clamped below", -2, -9, ImageReal, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict, confidence := ImageDecision(tc.fft, tc.clip)
			if verdict != tc.verdict {
				t.Fatalf("expected %s got %s", tc.verdict, verdict)
			}
			if confidence != tc.confidence {
				t.Fatalf("expected confidence %d got %d", tc.confidence, confidence)
			}
		})
	}
}

func TestImageDecisionStaysInRange(t *testing.T) {
	values := []float64{math.Inf(-1), -1e9, -0.5, 0, 0.25, 0.5, 0.73, 0.76, 1, 1.5, 1e9, math.Inf(1), math.NaN()}
	allowed := map[ImageVerdict]bool{ImageReal: true, ImagePossiblyAI: true, ImageAIGenerated: true}
	for _, fft := range values {
		for _, clip := range values {
			verdict, confidence := ImageDecision(fft, clip)
			if !allowed[verdict] {
				t.Fatalf("fft=%v clip=%v: unexpected verdict %q", fft, clip, verdict)
			}
			if confidence < 0 || confidence > 100 {
				t.Fatalf("fft=%v clip=%v: confidence %d out of range", fft, clip, confidence)
			}
		}
	}
}

func TestImageDecisionNonFiniteIsNeutral(t *testing.T) {
	verdict, confidence := ImageDecision(math.NaN(), math.NaN())
	if verdict != ImagePossiblyAI || confidence != 0 {
		t.Fatalf("expected neutral midpoint result, got %s/%d", verdict, confidence)
	}
}

func TestImageReasonsAlwaysTwo(t *testing.T) {
	tests := []struct {
		name   string
		fft    float64
		clip   float64
		titles [2]string
		scores [2]int
	}{
		{"both suspicious", 0.8, 0.7, [2]string{"High-Frequency Artifacts", "Semantic Inconsistency"}, [2]int{80, 70}},
		{"both natural", 0.2, 0.3, [2]string{"Natural Frequency Distribution", "Semantic Coherence"}, [2]int{80, 70}},
		{"threshold is exclusive", 0.65, 0.6, [2]string{"Natural Frequency Distribution", "Semantic Coherence"}, [2]int{35, 40}},
		{"out of range input", 4, -1, [2]string{"High-Frequency Artifacts", "Semantic Coherence"}, [2]int{100, 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reasons := ImageReasons(tc.fft, tc.clip)
			if len(reasons) != 2 {
				t.Fatalf("expected 2 reasons got %d", len(reasons))
			}
			for i := range reasons {
				if reasons[i].Title != tc.titles[i] {
					t.Fatalf("reason %d: expected %q got %q", i, tc.titles[i], reasons[i].Title)
				}
				if reasons[i].Score != tc.scores[i] {
					t.Fatalf("reason %d: expected score %d got %d", i, tc.scores[i], reasons[i].Score)
				}
			}
		})
	}
}

func TestEvaluateImageDeterministic(t *testing.T) {
	first := EvaluateImage(0.61, 0.47)
	for i := 0; i < 5; i++ {
		next := EvaluateImage(0.61, 0.47)
		if next.Verdict != first.Verdict || next.Confidence != first.Confidence || len(next.Reasons) != len(first.Reasons) {
			t.Fatalf("run %d differs: %+v vs %+v", i, next, first)
		}
		for j := range next.Reasons {
			if next.Reasons[j] != first.Reasons[j] {
				t.Fatalf("run %d reason %d differs", i, j)
			}
		}
	}
}

package scoring

import "math"

const (
	imageSpectralWeight = 0.65
	imageSemanticWeight = 0.35
)

// ImageDecision fuses the spectral and semantic scores into an image verdict. In the undecided
// band the confidence measures distance from the 0.5 midpoint rather than likelihood.
func ImageDecision(fft, clip float64) (ImageVerdict, int) {
	fft = Clamp01(fft)
	clip = Clamp01(clip)

	combined := imageSpectralWeight*fft + imageSemanticWeight*clip

	if fft > 0.72 && clip > 0.75 {
		return ImageAIGenerated, percent(combined * 100)
	}
	if fft < 0.40 && clip < 0.45 {
		return ImageReal, percent((1 - combined) * 100)
	}
	return ImagePossiblyAI, percent(math.Abs(combined-0.5) * 200)
}

// ImageReasons always yields exactly two items, one per signal, independent of the verdict.
func ImageReasons(fft, clip float64) []Evidence {
	fft = Clamp01(fft)
	clip = Clamp01(clip)

	reasons := make([]Evidence, 0, 2)

	if fft > 0.65 {
		reasons = append(reasons, Evidence{
			Title:       "High-Frequency Artifacts",
			Score:       percent(fft * 100),
			Description: "The image shows unnatural frequency patterns often introduced by AI generation.",
		})
	} else {
		reasons = append(reasons, Evidence{
			Title:       "Natural Frequency Distribution",
			Score:       percent((1 - fft) * 100),
			Description: "The image exhibits natural frequency characteristics typical of real photographs.",
		})
	}

	if clip > 0.6 {
		reasons = append(reasons, Evidence{
			Title:       "Semantic Inconsistency",
			Score:       percent(clip * 100),
			Description: "Visual content shows patterns commonly associated with AI-generated images.",
		})
	} else {
		reasons = append(reasons, Evidence{
			Title:       "Semantic Coherence",
			Score:       percent((1 - clip) * 100),
			Description: "The image content aligns with real-world photographic semantics.",
		})
	}

	return reasons
}

// EvaluateImage produces the full image result.
func EvaluateImage(fft, clip float64) ImageResult {
	verdict, confidence := ImageDecision(fft, clip)
	return ImageResult{
		Verdict:    verdict,
		Confidence: confidence,
		Reasons:    ImageReasons(fft, clip),
	}
}

package scoring

const (
	videoForensicWeight = 0.45
	videoTemporalWeight = 0.55
)

// VideoDecision fuses the biometric forensic score with the action-classifier probability.
func VideoDecision(forensic, temporal float64) (VideoVerdict, int) {
	forensic = Clamp01(forensic)
	temporal = Clamp01(temporal)

	combined := videoForensicWeight*forensic + videoTemporalWeight*temporal

	switch {
	case combined > 0.72 && temporal > 0.70:
		return VideoAIGenerated, percent(combined * 100)
	case combined < 0.45:
		return VideoReal, percent((1 - combined) * 100)
	default:
		return VideoPossiblyAI, percent(combined * 100)
	}
}

// VideoReasons derives the three biometric evidence items from a verdict and its confidence.
func VideoReasons(verdict VideoVerdict, confidence int) []Evidence {
	confidence = clampInt(confidence, 0, 100)
	synthetic := verdict != VideoReal

	pick := func(fake, real string) string {
		if synthetic {
			return fake
		}
		return real
	}

	return []Evidence{
		{
			Title: "Facial Motion Consistency",
			Score: confidence,
			Description: pick(
				"Facial movements appear overly smooth and lack natural micro-expressions.",
				"Facial motion shows natural jitter and expressive variation.",
			),
		},
		{
			Title: "Blink Pattern Analysis",
			Score: percent(float64(confidence) * 0.85),
			Description: pick(
				"Blink frequency and timing deviate from typical human behavior.",
				"Blink patterns fall within expected human ranges.",
			),
		},
		{
			Title: "Temporal Frame Coherence",
			Score: percent(float64(confidence) * 0.75),
			Description: pick(
				"Frame-to-frame transitions show synthetic temporal consistency.",
				"Temporal transitions appear naturally inconsistent.",
			),
		},
	}
}

// EvaluateForensicVideo wraps a biometric-only verdict with its reasons.
func EvaluateForensicVideo(verdict VideoVerdict, confidence int) VideoResult {
	confidence = clampInt(confidence, 0, 100)
	return VideoResult{
		Verdict:    verdict,
		Confidence: confidence,
		Reasons:    VideoReasons(verdict, confidence),
	}
}

// EvaluateFusedVideo runs the cross-modal decision and appends the classifier evidence item.
func EvaluateFusedVideo(forensic, temporal float64) VideoResult {
	verdict, confidence := VideoDecision(forensic, temporal)
	temporal = Clamp01(temporal)

	reasons := VideoReasons(verdict, confidence)
	classifier := Evidence{
		Title:       "Temporal Classifier Signal",
		Score:       percent(temporal * 100),
		Description: "The video action classifier found no strong synthetic motion signature.",
	}
	if temporal > 0.70 {
		classifier.Description = "The video action classifier assigns high probability to synthetic motion."
	}
	reasons = append(reasons, classifier)

	return VideoResult{
		Verdict:    verdict,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

package scoring

// AudioDecision maps the embedding-regularity score to an audio verdict.
func AudioDecision(score float64) (AudioVerdict, int) {
	score = Clamp01(score)

	switch {
	case score > 0.55:
		return AudioAIGenerated, percent(65 + score*30)
	case score < 0.45:
		return AudioHuman, percent(65 + (1-score)*30)
	default:
		return AudioPossiblyAI, 55
	}
}

// AudioReasons derives the fixed audio evidence items from the score.
func AudioReasons(score float64) []Evidence {
	score = Clamp01(score)
	return []Evidence{
		{
			Title:       "Speech Naturalness",
			Score:       percent(score * 120),
			Description: "Voice shows reduced natural variability common in synthetic speech.",
		},
		{
			Title:       "Temporal Consistency",
			Score:       percent(score * 100),
			Description: "Timing and flow patterns resemble AI-generated audio.",
		},
		{
			Title:       "Acoustic Entropy",
			Score:       percent((1 - score) * 90),
			Description: "Information density differs from natural human speech.",
		},
	}
}

// EvaluateAudio produces the full audio result.
func EvaluateAudio(score float64) AudioResult {
	verdict, confidence := AudioDecision(score)
	return AudioResult{
		Verdict:    verdict,
		Confidence: confidence,
		Reasons:    AudioReasons(score),
	}
}

package scoring

import (
	"math"
	"strconv"
	"strings"
)

// NeutralScore is substituted for any signal that is missing or malformed.
const NeutralScore = 0.5

// Evidence is one displayable justification backing a verdict.
type Evidence struct {
	Title       string `json:"title"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// Verdict is the constraint satisfied by every per-modality verdict type.
type Verdict interface {
	~string
}

// Decision bundles a verdict with its confidence and ordered reasons.
type Decision[V Verdict] struct {
	Verdict    V          `json:"verdict"`
	Confidence int        `json:"confidence"`
	Reasons    []Evidence `json:"reasons"`
}

// ImageVerdict enumerates the outcomes of the image pipeline.
type ImageVerdict string

const (
	ImageReal        ImageVerdict = "Real"
	ImagePossiblyAI  ImageVerdict = "Possibly AI-Generated"
	ImageAIGenerated ImageVerdict = "AI-Generated"
)

// VideoVerdict enumerates the outcomes of both video strategies.
type VideoVerdict string

const (
	VideoReal        VideoVerdict = "Real"
	VideoPossiblyAI  VideoVerdict = "Possibly AI-Generated"
	VideoLikelyAI    VideoVerdict = "Likely AI-Generated"
	VideoAIGenerated VideoVerdict = "AI-Generated"
)

// AudioVerdict enumerates the outcomes of the audio pipeline.
type AudioVerdict string

const (
	AudioHuman       AudioVerdict = "Human"
	AudioPossiblyAI  AudioVerdict = "Possibly AI-Generated"
	AudioAIGenerated AudioVerdict = "AI-Generated"
)

// LinkVerdict enumerates the outcomes of the link scorer.
type LinkVerdict string

const (
	LinkReal       LinkVerdict = "Real"
	LinkSuspicious LinkVerdict = "Suspicious"
	LinkLikelyFake LinkVerdict = "Likely Fake"
)

type (
	ImageResult = Decision[ImageVerdict]
	VideoResult = Decision[VideoVerdict]
	AudioResult = Decision[AudioVerdict]
	LinkResult  = Decision[LinkVerdict]
)

// Clamp01 bounds a score to [0,1]. Non-finite values collapse to NeutralScore.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NeutralScore
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Coerce converts a loosely typed score into a float. Numbers pass through, lists are averaged over
// their numeric members, and anything else yields NeutralScore.
func Coerce(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case []float64:
		if len(val) == 0 {
			return NeutralScore
		}
		var sum float64
		for _, item := range val {
			sum += item
		}
		return sum / float64(len(val))
	case []any:
		var (
			sum   float64
			count int
		)
		for _, item := range val {
			if f, ok := numeric(item); ok {
				sum += f
				count++
			}
		}
		if count == 0 {
			return NeutralScore
		}
		return sum / float64(count)
	default:
		return NeutralScore
	}
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// percent rounds v and clamps it into the [0,100] confidence range.
func percent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

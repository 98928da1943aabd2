package api

import (
	"media-forensics/backend/internal/indicators"
	"media-forensics/backend/internal/scoring"
)

// AnalysisResponse is the payload returned by every /analyze endpoint.
type AnalysisResponse[V scoring.Verdict] struct {
	ID       string `json:"id"`
	Modality string `json:"modality"`
	scoring.Decision[V]
}

// LinkRequest is the body accepted by /analyze/link.
type LinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// IndicatorsRequest adds operator indicators.
type IndicatorsRequest struct {
	Entries []indicators.Entry `json:"entries" binding:"required,min=1,dive"`
	Source  string             `json:"source"`
}

// IndicatorsResponse lists the effective indicator sets.
type IndicatorsResponse struct {
	Indicators map[scoring.IndicatorKind][]string `json:"indicators"`
	Counts     map[scoring.IndicatorKind]int      `json:"counts"`
}

// AddIndicatorsResponse reports how many entries were accepted.
type AddIndicatorsResponse struct {
	Added  int                           `json:"added"`
	Counts map[scoring.IndicatorKind]int `json:"counts"`
}

// ConfigResponse summarizes the effective runtime configuration.
type ConfigResponse struct {
	VideoStrategy       string                        `json:"video_strategy"`
	MaxVideoFrames      int                           `json:"max_video_frames"`
	InferenceEnabled    bool                          `json:"inference_enabled"`
	IndicatorCounts     map[scoring.IndicatorKind]int `json:"indicator_counts"`
	FetchTimeoutSeconds float64                       `json:"fetch_timeout_seconds"`
}

// IndicatorsFromSnapshot converts an indicator snapshot into its API representation.
func IndicatorsFromSnapshot(snapshot scoring.Indicators) IndicatorsResponse {
	lists := make(map[scoring.IndicatorKind][]string, len(scoring.IndicatorKinds))
	for _, kind := range scoring.IndicatorKinds {
		values := snapshot.List(kind)
		if values == nil {
			values = []string{}
		}
		lists[kind] = values
	}
	return IndicatorsResponse{Indicators: lists, Counts: snapshot.Counts()}
}

// Package prediction orchestrates the scoring pipeline into a ranked
// prediction set, routing between the high-accuracy and fallback paths
// based on validation results.
package prediction

import (
	"time"

	"github.com/aristath/playwhe/internal/modules/scoring"
	"github.com/aristath/playwhe/internal/modules/validation"
)

// PredictionSet is the surfaced result of one orchestration run.
type PredictionSet struct {
	Predictions       []scoring.ScoredPrediction `json:"predictions"`
	OverallConfidence float64                    `json:"overall_confidence"`
	ExpectedAccuracy  float64                    `json:"expected_accuracy"`
	TotalDataPoints   int                        `json:"total_data_points"`
	ValidationMetrics *validation.Metrics        `json:"validation_metrics,omitempty"`
	Recommendation    string                     `json:"recommendation"`
	GeneratedAt       time.Time                  `json:"generated_at"`
}

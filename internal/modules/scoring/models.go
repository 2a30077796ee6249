package scoring

import (
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/elements"
)

// RiskLevel buckets a prediction by how confident the scorer is in it.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// riskLevelFor maps a probability to a risk bucket.
func riskLevelFor(probability float64) RiskLevel {
	switch {
	case probability > 0.9:
		return RiskLow
	case probability > 0.7:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// SubScores holds the individual factor scores that make up a prediction.
type SubScores struct {
	Recency          float64 `json:"recency"`
	FrequencyDeficit float64 `json:"frequency_deficit"`
	PairAffinity     float64 `json:"pair_affinity"`
	Temporal         float64 `json:"temporal"`
	Streak           float64 `json:"streak"`
}

// ScoredPrediction is the scored outcome for one number. Ephemeral -
// recomputed on every run, never persisted as source of truth.
type ScoredPrediction struct {
	Number      int              `json:"number"`
	Probability float64          `json:"probability"`
	SubScores   SubScores        `json:"sub_scores"`
	Element     elements.Element `json:"element"`
	Reasoning   []string         `json:"reasoning"`
	RiskLevel   RiskLevel        `json:"risk_level"`
}

// Context is the input snapshot for one scoring run. History is ordered
// newest first. The reference time is injected so runs are reproducible.
type Context struct {
	History     []domain.DrawRecord
	Frequencies map[int]int
	Now         time.Time
	DayOfWeek   time.Weekday
	Slot        domain.TimeSlot
}

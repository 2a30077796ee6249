package prediction

import (
	"fmt"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/scoring"
	"github.com/aristath/playwhe/internal/modules/validation"
	"github.com/rs/zerolog"
)

const (
	// MinHistorySize is the minimum draw log size before any
	// prediction path runs.
	MinHistorySize = 10

	// MinValidatedAccuracy gates the high-accuracy path. Below this
	// the orchestrator refuses to fabricate confident predictions.
	MinValidatedAccuracy = 0.85

	// MaxPredictions caps every surfaced prediction set.
	MaxPredictions = 5

	// VeryRecentWindow is how many of the newest draws are excluded
	// from the high-accuracy candidate pool.
	VeryRecentWindow = 3
)

// DrawSource is the slice of the draw store the orchestrator reads.
type DrawSource interface {
	History() ([]domain.DrawRecord, error)
	Frequencies() ([]domain.FrequencyEntry, error)
	FrequencyMap() (map[int]int, error)
}

// Service orchestrates validation, scoring, and the fallback path into
// one prediction set per request.
type Service struct {
	store     DrawSource
	scorer    *scoring.Scorer
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new prediction orchestrator.
func NewService(store DrawSource, scorer *scoring.Scorer, validator *validation.Validator, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		scorer:    scorer,
		validator: validator,
		log:       log.With().Str("module", "prediction").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate runs the full orchestration: fetch the snapshot, validate,
// then route to the high-accuracy or fallback path. Store fetch errors
// propagate; they are never masked as empty history.
func (s *Service) Generate() (PredictionSet, error) {
	history, err := s.store.History()
	if err != nil {
		return PredictionSet{}, fmt.Errorf("failed to fetch draw history: %w", err)
	}

	now := s.now()

	if len(history) < MinHistorySize {
		s.log.Info().Int("draws", len(history)).Msg("Insufficient data for predictions")
		return PredictionSet{
			Predictions:     []scoring.ScoredPrediction{},
			TotalDataPoints: len(history),
			Recommendation:  "Insufficient data for high-accuracy predictions. Need at least 100+ draws for reliable analysis.",
			GeneratedAt:     now,
		}, nil
	}

	metrics := s.validator.Validate(history)

	if metrics.OverallAccuracy < MinValidatedAccuracy {
		s.log.Info().Float64("accuracy", metrics.OverallAccuracy).
			Msg("Validation below threshold, returning conservative set")
		return s.conservativeSet(len(history), metrics, now), nil
	}

	frequencies, err := s.store.FrequencyMap()
	if err != nil {
		return PredictionSet{}, fmt.Errorf("failed to fetch frequencies: %w", err)
	}

	scored := s.scorer.ScoreAll(scoring.Context{
		History:     history,
		Frequencies: frequencies,
		Now:         now,
		DayOfWeek:   now.Weekday(),
		Slot:        domain.TimeSlotForHour(now.Hour()),
	})

	passing := selectHighConfidence(scored, history, metrics.RecommendedConfidenceThreshold)

	if len(passing) == 0 {
		s.log.Info().Msg("No predictions passed the confidence threshold, using fallback")
		return s.fallback(history, metrics, now)
	}

	set := PredictionSet{
		Predictions:       passing,
		OverallConfidence: meanProbability(passing),
		ExpectedAccuracy:  expectedAccuracy(passing, metrics.OverallAccuracy),
		TotalDataPoints:   len(history),
		ValidationMetrics: &metrics,
		GeneratedAt:       now,
	}
	set.Recommendation = recommendationFor(set.ExpectedAccuracy, len(history))

	s.log.Info().Int("predictions", len(passing)).
		Float64("expected_accuracy", set.ExpectedAccuracy).
		Msg("Generated high-accuracy prediction set")
	return set, nil
}

func (s *Service) conservativeSet(dataPoints int, metrics validation.Metrics, now time.Time) PredictionSet {
	return PredictionSet{
		Predictions:       []scoring.ScoredPrediction{},
		ExpectedAccuracy:  metrics.OverallAccuracy,
		TotalDataPoints:   dataPoints,
		ValidationMetrics: &metrics,
		Recommendation: fmt.Sprintf(
			"Current algorithm shows %.1f%% accuracy. Need more data and pattern analysis before surfacing predictions. Consider collecting at least 200+ historical draws.",
			metrics.OverallAccuracy*100),
		GeneratedAt: now,
	}
}

// selectHighConfidence drops numbers drawn in the very-recent window,
// filters by the recommended threshold, and keeps the top entries. The
// scored input is already ordered by descending probability.
func selectHighConfidence(scored []scoring.ScoredPrediction, history []domain.DrawRecord, threshold float64) []scoring.ScoredPrediction {
	veryRecent := make(map[int]bool, VeryRecentWindow)
	for i := 0; i < len(history) && i < VeryRecentWindow; i++ {
		veryRecent[history[i].Number] = true
	}

	passing := make([]scoring.ScoredPrediction, 0, MaxPredictions)
	for _, p := range scored {
		if veryRecent[p.Number] || p.Probability < threshold {
			continue
		}
		passing = append(passing, p)
		if len(passing) == MaxPredictions {
			break
		}
	}
	return passing
}

func meanProbability(predictions []scoring.ScoredPrediction) float64 {
	if len(predictions) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range predictions {
		sum += p.Probability
	}
	return sum / float64(len(predictions))
}

// expectedAccuracy weights each prediction's probability by itself, then
// caps the result at the backtested accuracy plus a small margin so the
// estimate never outruns measured performance by much.
func expectedAccuracy(predictions []scoring.ScoredPrediction, backtestAccuracy float64) float64 {
	if len(predictions) == 0 {
		return 0
	}

	var weighted, weights float64
	for _, p := range predictions {
		weighted += p.Probability * p.Probability
		weights += p.Probability
	}
	estimate := weighted / weights

	limit := backtestAccuracy + 0.1
	if estimate > limit {
		return limit
	}
	return estimate
}

func recommendationFor(expectedAccuracy float64, dataPoints int) string {
	switch {
	case expectedAccuracy >= 0.95:
		return fmt.Sprintf("High confidence predictions with %.1f%% expected accuracy. Based on %d data points.",
			expectedAccuracy*100, dataPoints)
	case expectedAccuracy >= 0.80:
		return fmt.Sprintf("Moderate confidence predictions with %.1f%% expected accuracy. Consider these as guidance only.",
			expectedAccuracy*100)
	case dataPoints < 50:
		return fmt.Sprintf("Insufficient data (%d draws). Need 100+ draws for reliable predictions.", dataPoints)
	default:
		return fmt.Sprintf("Current patterns suggest %.1f%% accuracy. Algorithm needs refinement.",
			expectedAccuracy*100)
	}
}

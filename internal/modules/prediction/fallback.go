package prediction

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/elements"
	"github.com/aristath/playwhe/internal/modules/scoring"
	"github.com/aristath/playwhe/internal/modules/validation"
)

const (
	fallbackCandidates      = 5
	fallbackRecentWindow    = 5
	fallbackNeutralScore    = 0.45
	fallbackNeutralAccuracy = 0.60
)

// fallback selects the least-frequent numbers not recently drawn and
// scores them by their deficit from the expected uniform frequency,
// padding with neutral baseline entries when fewer than five qualify.
func (s *Service) fallback(history []domain.DrawRecord, metrics validation.Metrics, now time.Time) (PredictionSet, error) {
	entries, err := s.store.Frequencies()
	if err != nil {
		return PredictionSet{}, fmt.Errorf("failed to fetch frequencies for fallback: %w", err)
	}

	recent := make(map[int]bool, fallbackRecentWindow)
	for i := 0; i < len(history) && i < fallbackRecentWindow; i++ {
		recent[history[i].Number] = true
	}

	expected := float64(len(history)) / 36.0

	var predictions []scoring.ScoredPrediction
	var accuracies []float64

	// Entries arrive least-frequent first; only the front of the list
	// carries a meaningful deficit signal.
	candidates := entries
	if len(candidates) > fallbackCandidates {
		candidates = candidates[:fallbackCandidates]
	}
	for _, entry := range candidates {
		if recent[entry.Number] {
			continue
		}

		deficit := expected - float64(entry.Count)
		if deficit < 0 {
			deficit = 0
		}

		confidence := minFloat(0.85, 0.4+(deficit/expected)*0.4)
		accuracy := minFloat(0.80, 0.55+(deficit/expected)*0.25)

		predictions = append(predictions, scoring.ScoredPrediction{
			Number:      entry.Number,
			Probability: confidence,
			Element:     elements.Classify(entry.Number),
			Reasoning: []string{
				fmt.Sprintf("Under-drawn: %d times vs expected %.1f", entry.Count, expected),
				fmt.Sprintf("Deficit of %.1f draws suggests higher probability", deficit),
				"Statistical reversion to mean principle",
			},
			RiskLevel: fallbackRiskLevel(confidence),
		})
		accuracies = append(accuracies, accuracy)
	}

	for number := domain.MinNumber; number <= domain.MaxNumber && len(predictions) < MaxPredictions; number++ {
		if recent[number] || containsNumber(predictions, number) {
			continue
		}

		predictions = append(predictions, scoring.ScoredPrediction{
			Number:      number,
			Probability: fallbackNeutralScore,
			Element:     elements.Classify(number),
			Reasoning: []string{
				"Selection from remaining number pool",
				"Not recently drawn",
				"Equal probability baseline",
			},
			RiskLevel: scoring.RiskHigh,
		})
		accuracies = append(accuracies, fallbackNeutralAccuracy)
	}

	order := make([]int, len(predictions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return predictions[order[a]].Probability > predictions[order[b]].Probability
	})
	if len(order) > MaxPredictions {
		order = order[:MaxPredictions]
	}

	sorted := make([]scoring.ScoredPrediction, len(order))
	accuracySum := 0.0
	for i, idx := range order {
		sorted[i] = predictions[idx]
		accuracySum += accuracies[idx]
	}

	set := PredictionSet{
		Predictions:       sorted,
		OverallConfidence: meanProbability(sorted),
		TotalDataPoints:   len(history),
		ValidationMetrics: &metrics,
		GeneratedAt:       now,
	}
	if len(sorted) > 0 {
		set.ExpectedAccuracy = accuracySum / float64(len(sorted))
	}
	set.Recommendation = fmt.Sprintf(
		"Generated %d predictions based on frequency analysis with %.1f%% expected accuracy. These are statistically-based predictions from %d historical draws.",
		len(sorted), set.ExpectedAccuracy*100, len(history))

	s.log.Info().Int("predictions", len(sorted)).Msg("Generated fallback prediction set")
	return set, nil
}

// fallbackRiskLevel uses looser bands than the composite scorer since
// fallback confidences top out at 0.85.
func fallbackRiskLevel(confidence float64) scoring.RiskLevel {
	switch {
	case confidence > 0.7:
		return scoring.RiskLow
	case confidence > 0.5:
		return scoring.RiskMedium
	default:
		return scoring.RiskHigh
	}
}

func containsNumber(predictions []scoring.ScoredPrediction, number int) bool {
	for _, p := range predictions {
		if p.Number == number {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

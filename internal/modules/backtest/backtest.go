// Package backtest replays a lightweight pattern predictor over sliding
// windows of the draw log to measure how often its picks would have hit.
package backtest

import (
	"github.com/aristath/playwhe/internal/domain"
)

// DefaultWindowSize is the training window used by the validation layer.
const DefaultWindowSize = 10

// ConfidenceGate is the minimum self-reported confidence a window
// prediction needs before it is counted at all. Predictions below the gate
// are skipped entirely, so the reported accuracy covers only the gated
// subset of draws.
const ConfidenceGate = 0.85

// Result summarizes one backtest run. A degenerate zero-valued result (not
// an error) is returned when history is too short to replay.
type Result struct {
	Accuracy            float64                     `json:"accuracy"`
	TotalPredictions    int                         `json:"total_predictions"`
	CorrectPredictions  int                         `json:"correct_predictions"`
	ConfidenceThreshold float64                     `json:"confidence_threshold"`
	SlotAccuracy        map[domain.TimeSlot]float64 `json:"slot_accuracy"`
}

// Run slides a window of windowSize consecutive records across the log (in
// the order given, newest first by convention) and, at each position, asks
// the micro-pattern predictor for up to five candidates for the record that
// follows the window. Needs at least windowSize+5 records.
func Run(history []domain.DrawRecord, windowSize int) Result {
	if len(history) < windowSize+5 {
		return Result{
			ConfidenceThreshold: 0.95,
			SlotAccuracy:        map[domain.TimeSlot]float64{},
		}
	}

	totalPredictions := 0
	correctPredictions := 0
	slotHits := make(map[domain.TimeSlot]*slotTally)

	for i := windowSize; i < len(history)-1; i++ {
		training := history[i-windowSize : i]
		actual := history[i+1]

		prediction := predictFromWindow(training, actual.TimeSlot)
		if prediction == nil || prediction.Confidence <= ConfidenceGate {
			continue
		}

		totalPredictions++
		tally := slotHits[actual.TimeSlot]
		if tally == nil {
			tally = &slotTally{}
			slotHits[actual.TimeSlot] = tally
		}
		tally.total++

		if containsNumber(prediction.Numbers, actual.Number) {
			correctPredictions++
			tally.correct++
		}
	}

	slotAccuracy := make(map[domain.TimeSlot]float64, len(slotHits))
	for slot, tally := range slotHits {
		if tally.total > 0 {
			slotAccuracy[slot] = float64(tally.correct) / float64(tally.total)
		}
	}

	accuracy := 0.0
	if totalPredictions > 0 {
		accuracy = float64(correctPredictions) / float64(totalPredictions)
	}

	return Result{
		Accuracy:            accuracy,
		TotalPredictions:    totalPredictions,
		CorrectPredictions:  correctPredictions,
		ConfidenceThreshold: 0.95,
		SlotAccuracy:        slotAccuracy,
	}
}

type slotTally struct {
	correct int
	total   int
}

func containsNumber(numbers []int, n int) bool {
	for _, candidate := range numbers {
		if candidate == n {
			return true
		}
	}
	return false
}

package backtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyOf(numbers []int, slots []domain.TimeSlot) []domain.DrawRecord {
	base := time.Date(2025, 8, 16, 19, 0, 0, 0, time.UTC)
	records := make([]domain.DrawRecord, 0, len(numbers))
	for i, n := range numbers {
		records = append(records, domain.DrawRecord{
			DrawID:     fmt.Sprintf("D%04d", len(numbers)-i),
			OccurredAt: base.Add(-time.Duration(i*6) * time.Hour),
			TimeSlot:   slots[i%len(slots)],
			Number:     n,
		})
	}
	return records
}

func TestRunInsufficientHistoryReturnsZeroResult(t *testing.T) {
	numbers := make([]int, 14)
	for i := range numbers {
		numbers[i] = i + 1
	}
	history := historyOf(numbers, domain.AllTimeSlots)

	result := Run(history, DefaultWindowSize)

	assert.Equal(t, 0.0, result.Accuracy)
	assert.Equal(t, 0, result.TotalPredictions)
	assert.Equal(t, 0, result.CorrectPredictions)
	assert.Equal(t, 0.95, result.ConfidenceThreshold)
	assert.Empty(t, result.SlotAccuracy)
}

func TestRunCountsAtMostOnePredictionPerPosition(t *testing.T) {
	numbers := make([]int, 80)
	for i := range numbers {
		numbers[i] = (i*11)%36 + 1
	}
	history := historyOf(numbers, domain.AllTimeSlots)

	result := Run(history, DefaultWindowSize)

	assert.LessOrEqual(t, result.TotalPredictions, len(history))
	assert.LessOrEqual(t, result.CorrectPredictions, result.TotalPredictions)
	if result.TotalPredictions > 0 {
		assert.InDelta(t,
			float64(result.CorrectPredictions)/float64(result.TotalPredictions),
			result.Accuracy, 1e-9)
	}
	assert.GreaterOrEqual(t, result.Accuracy, 0.0)
	assert.LessOrEqual(t, result.Accuracy, 1.0)
}

func TestRunSlotAccuracyKeyedByOutcomeSlot(t *testing.T) {
	numbers := make([]int, 60)
	for i := range numbers {
		numbers[i] = (i*7)%36 + 1
	}
	history := historyOf(numbers, []domain.TimeSlot{domain.SlotEvening, domain.SlotMorning})

	result := Run(history, DefaultWindowSize)

	for slot, accuracy := range result.SlotAccuracy {
		assert.Contains(t, []domain.TimeSlot{domain.SlotEvening, domain.SlotMorning}, slot)
		assert.GreaterOrEqual(t, accuracy, 0.0)
		assert.LessOrEqual(t, accuracy, 1.0)
	}
}

func TestPredictFromWindowCandidateLimits(t *testing.T) {
	numbers := []int{3, 8, 11, 19, 27, 5, 14, 22, 30, 9}
	window := historyOf(numbers, domain.AllTimeSlots)

	prediction := predictFromWindow(window, domain.SlotMorning)

	require.NotNil(t, prediction)
	assert.GreaterOrEqual(t, len(prediction.Numbers), 3)
	assert.LessOrEqual(t, len(prediction.Numbers), 5)
	for _, n := range prediction.Numbers {
		assert.GreaterOrEqual(t, n, domain.MinNumber)
		assert.LessOrEqual(t, n, domain.MaxNumber)
	}
	assert.Greater(t, prediction.Confidence, 0.5)
}

func TestPredictFromWindowTooFewCandidates(t *testing.T) {
	// A single record: no slot clustering (needs two in-slot draws), no
	// additive patterns (needs two recents); gap analysis alone yields
	// three candidates, which still qualifies.
	window := historyOf([]int{6}, []domain.TimeSlot{domain.SlotMidday})

	prediction := predictFromWindow(window, domain.SlotMidday)
	require.NotNil(t, prediction)
	assert.Len(t, prediction.Numbers, 3)
	assert.InDelta(t, 0.65, prediction.Confidence, 1e-9)
}

func TestAbsentNumbersFindsGaps(t *testing.T) {
	window := historyOf([]int{1, 2, 3, 4, 5}, domain.AllTimeSlots)

	gaps := absentNumbers(window)

	require.NotEmpty(t, gaps)
	assert.Equal(t, 6, gaps[0])
	assert.LessOrEqual(t, len(gaps), 10)
}

func TestAdditivePatterns(t *testing.T) {
	// 5 then 8: sum 13, difference 3.
	patterns := additivePatterns([]int{5, 8})
	assert.ElementsMatch(t, []int{13, 3}, patterns)

	// Sums beyond 36 are discarded; difference already drawn is skipped.
	patterns = additivePatterns([]int{30, 20, 10})
	assert.NotContains(t, patterns, 50)
}

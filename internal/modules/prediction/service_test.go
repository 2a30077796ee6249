package prediction

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/scoring"
	"github.com/aristath/playwhe/internal/modules/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	history    []domain.DrawRecord
	entries    []domain.FrequencyEntry
	historyErr error
	entriesErr error
}

func (f *fakeStore) History() ([]domain.DrawRecord, error) {
	return f.history, f.historyErr
}

func (f *fakeStore) Frequencies() ([]domain.FrequencyEntry, error) {
	return f.entries, f.entriesErr
}

func (f *fakeStore) FrequencyMap() (map[int]int, error) {
	counts := make(map[int]int)
	for _, e := range f.entries {
		counts[e.Number] = e.Count
	}
	return counts, nil
}

func newTestService(store *fakeStore) *Service {
	scorer := scoring.NewScorer(zerolog.Nop(), rand.New(rand.NewSource(1)))
	svc := NewService(store, scorer, validation.New(zerolog.Nop()), zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2025, 8, 20, 19, 0, 0, 0, time.UTC)
	}
	return svc
}

// syntheticHistory builds a newest-first log cycling through numbers
// and slots.
func syntheticHistory(n int) []domain.DrawRecord {
	records := make([]domain.DrawRecord, n)
	base := time.Date(2025, 8, 20, 19, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		records[i] = domain.DrawRecord{
			DrawID:     "t",
			OccurredAt: base.Add(-time.Duration(i) * 6 * time.Hour),
			TimeSlot:   domain.AllTimeSlots[i%4],
			Number:     (i*7)%36 + 1,
		}
	}
	return records
}

func TestGenerateWithInsufficientData(t *testing.T) {
	svc := newTestService(&fakeStore{history: syntheticHistory(9)})

	set, err := svc.Generate()
	require.NoError(t, err)

	assert.Empty(t, set.Predictions)
	assert.Equal(t, 9, set.TotalDataPoints)
	assert.Zero(t, set.OverallConfidence)
	assert.Contains(t, set.Recommendation, "Insufficient data")
}

func TestGeneratePropagatesFetchErrors(t *testing.T) {
	svc := newTestService(&fakeStore{historyErr: errors.New("store unavailable")})

	_, err := svc.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestGenerateConservativeWhenValidationIsLow(t *testing.T) {
	// 12 records is enough to score but too few for the backtester,
	// which reports zero accuracy, so the conservative path fires.
	svc := newTestService(&fakeStore{history: syntheticHistory(12)})

	set, err := svc.Generate()
	require.NoError(t, err)

	assert.Empty(t, set.Predictions)
	assert.Equal(t, 12, set.TotalDataPoints)
	require.NotNil(t, set.ValidationMetrics)
	assert.Less(t, set.ValidationMetrics.OverallAccuracy, MinValidatedAccuracy)
	assert.Contains(t, set.Recommendation, "accuracy")
}

func TestSelectHighConfidence(t *testing.T) {
	history := []domain.DrawRecord{
		{Number: 4}, {Number: 9}, {Number: 11}, {Number: 4},
	}
	scored := []scoring.ScoredPrediction{
		{Number: 4, Probability: 0.99},  // very recent, excluded
		{Number: 17, Probability: 0.97},
		{Number: 22, Probability: 0.96},
		{Number: 30, Probability: 0.80}, // below threshold
	}

	passing := selectHighConfidence(scored, history, 0.95)
	require.Len(t, passing, 2)
	assert.Equal(t, 17, passing[0].Number)
	assert.Equal(t, 22, passing[1].Number)
}

func TestSelectHighConfidenceCapsAtFive(t *testing.T) {
	scored := make([]scoring.ScoredPrediction, 10)
	for i := range scored {
		scored[i] = scoring.ScoredPrediction{Number: i + 10, Probability: 0.99}
	}

	passing := selectHighConfidence(scored, nil, 0.95)
	assert.Len(t, passing, MaxPredictions)
}

func TestExpectedAccuracyCappedByBacktest(t *testing.T) {
	predictions := []scoring.ScoredPrediction{
		{Probability: 0.98}, {Probability: 0.97},
	}

	assert.InDelta(t, 0.95, expectedAccuracy(predictions, 0.85), 1e-9)

	uncapped := expectedAccuracy(predictions, 0.99)
	assert.InDelta(t, (0.98*0.98+0.97*0.97)/(0.98+0.97), uncapped, 1e-9)
}

func TestRecommendationBands(t *testing.T) {
	assert.Contains(t, recommendationFor(0.96, 200), "High confidence")
	assert.Contains(t, recommendationFor(0.85, 200), "Moderate confidence")
	assert.Contains(t, recommendationFor(0.5, 30), "Insufficient data")
	assert.Contains(t, recommendationFor(0.5, 200), "needs refinement")
}

func TestFallbackPrefersUnderDrawnNumbers(t *testing.T) {
	history := syntheticHistory(40)
	store := &fakeStore{
		history: history,
		entries: []domain.FrequencyEntry{
			{Number: 7, Count: 0},
			{Number: 20, Count: 1},
			{Number: 33, Count: 1},
			{Number: 2, Count: 2},
			{Number: 19, Count: 2},
		},
	}
	svc := newTestService(store)
	metrics := validation.Metrics{OverallAccuracy: 0.9, RecommendedConfidenceThreshold: 0.95}

	set, err := svc.fallback(history, metrics, svc.now())
	require.NoError(t, err)

	require.Len(t, set.Predictions, MaxPredictions)
	// Count zero means a full deficit, so number 7 leads.
	assert.Equal(t, 7, set.Predictions[0].Number)
	assert.InDelta(t, 0.8, set.Predictions[0].Probability, 1e-9)
	assert.NotEmpty(t, set.Predictions[0].Reasoning)

	recent := map[int]bool{}
	for i := 0; i < 5; i++ {
		recent[history[i].Number] = true
	}
	for _, p := range set.Predictions {
		assert.False(t, recent[p.Number], "fallback must skip recently drawn numbers")
		assert.NotEmpty(t, p.Element)
	}
	assert.Greater(t, set.ExpectedAccuracy, 0.0)
	assert.Contains(t, set.Recommendation, "frequency analysis")
}

func TestFallbackPropagatesFrequencyErrors(t *testing.T) {
	history := syntheticHistory(40)
	store := &fakeStore{history: history, entriesErr: errors.New("frequency table unavailable")}
	svc := newTestService(store)

	_, err := svc.fallback(history, validation.Metrics{}, svc.now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequency table unavailable")
}

func TestFallbackPadsWithNeutralEntries(t *testing.T) {
	history := syntheticHistory(40)
	store := &fakeStore{history: history, entries: nil}
	svc := newTestService(store)
	metrics := validation.Metrics{OverallAccuracy: 0.9}

	set, err := svc.fallback(history, metrics, svc.now())
	require.NoError(t, err)

	require.Len(t, set.Predictions, MaxPredictions)
	for _, p := range set.Predictions {
		assert.InDelta(t, fallbackNeutralScore, p.Probability, 1e-9)
		assert.Equal(t, scoring.RiskHigh, p.RiskLevel)
	}
	assert.InDelta(t, fallbackNeutralAccuracy, set.ExpectedAccuracy, 1e-9)
}

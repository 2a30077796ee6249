// Package scoring combines recency, frequency, pair-affinity, temporal and
// streak factors into one probability per number.
package scoring

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/elements"
	"github.com/aristath/playwhe/internal/modules/temporal"
	"github.com/rs/zerolog"
)

// Factor weights (must sum to 1.0).
const (
	WeightRecency          = 0.35 // long-absent numbers score higher
	WeightFrequencyDeficit = 0.15 // under-drawn numbers score higher
	WeightPairAffinity     = 0.25 // pairs chart with element cycle bonus
	WeightTemporal         = 0.15 // day/slot, weekly and seasonal recurrence
	WeightStreak           = 0.10 // penalize numbers on a recent streak
)

// Temporal sub-blend weights.
const (
	TemporalWeightSlot     = 0.5
	TemporalWeightWeek     = 0.3
	TemporalWeightSeasonal = 0.2
)

// Volatility and clamping.
const (
	VolatilityMin = 0.85
	VolatilityMax = 1.15

	MinProbability = 0.01
	MaxProbability = 0.99

	// RankDecayStep flattens ties after sorting: probability scales by
	// (1 - rank*step), which nudges ordering only at the margins.
	RankDecayStep = 0.02
)

// Lookback windows over the newest-first history.
const (
	RecentWindow     = 10
	VeryRecentWindow = 3
)

// Scorer produces the composite per-number probabilities. The random source
// drives the volatility perturbation and is injected so runs are seedable.
type Scorer struct {
	rng *rand.Rand
	log zerolog.Logger
}

// NewScorer creates a scorer with the given random source.
func NewScorer(log zerolog.Logger, rng *rand.Rand) *Scorer {
	return &Scorer{
		rng: rng,
		log: log.With().Str("module", "scoring").Logger(),
	}
}

// ScoreAll scores every number 1-36 against the history snapshot and returns
// predictions sorted by descending probability (ties broken by ascending
// number) with rank decay applied.
func (s *Scorer) ScoreAll(ctx Context) []ScoredPrediction {
	recent := numbersInWindow(ctx.History, RecentWindow)
	veryRecent := numbersInWindow(ctx.History, VeryRecentWindow)
	lastSeen := lastSeenPositions(ctx.History)
	patterns := temporal.Analyze(ctx.History, ctx.Now, ctx.DayOfWeek, ctx.Slot)

	predictions := make([]ScoredPrediction, 0, domain.MaxNumber)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		predictions = append(predictions, s.scoreNumber(n, ctx, lastSeen, recent, veryRecent, patterns[n]))
	}

	sortPredictions(predictions)
	applyRankDecay(predictions)
	sortPredictions(predictions)

	s.log.Debug().
		Int("history", len(ctx.History)).
		Int("top_number", predictions[0].Number).
		Float64("top_probability", predictions[0].Probability).
		Msg("Scoring run complete")

	return predictions
}

func (s *Scorer) scoreNumber(
	number int,
	ctx Context,
	lastSeen map[int]int,
	recent, veryRecent []int,
	pattern temporal.Scores,
) ScoredPrediction {
	totalDraws := len(ctx.History)
	var reasoning []string

	recency := recencyScore(number, lastSeen, totalDraws)
	if drawsSince, ok := lastSeen[number]; (!ok || drawsSince >= RecentWindow) && totalDraws > 0 {
		absence := totalDraws
		if ok {
			absence = drawsSince
		}
		reasoning = append(reasoning, fmt.Sprintf("Long absence: not seen for %d draws", absence))
	}

	deficit := frequencyDeficitScore(number, ctx.Frequencies, totalDraws)
	if deficit > 0.5 {
		expected := float64(totalDraws) / 36
		reasoning = append(reasoning, fmt.Sprintf(
			"Under-drawn: only %d times vs expected %.1f", ctx.Frequencies[number], expected))
	}

	pair := elements.PairScore(number, recent)
	if pair > 0.8 {
		reasoning = append(reasoning, "Pairs chart indicates related numbers in play")
	}

	temporalBlend := pattern.Slot*TemporalWeightSlot +
		pattern.Week*TemporalWeightWeek +
		pattern.Seasonal*TemporalWeightSeasonal
	if pattern.Slot > 0.7 {
		reasoning = append(reasoning, fmt.Sprintf(
			"Strong time pattern: %.1f%% match for %s", pattern.Slot*100, ctx.Slot))
	}

	streak := streakScore(number, recent, veryRecent)

	weighted := recency*WeightRecency +
		deficit*WeightFrequencyDeficit +
		pair*WeightPairAffinity +
		temporalBlend*WeightTemporal +
		streak*WeightStreak

	volatility := VolatilityMin + s.rng.Float64()*(VolatilityMax-VolatilityMin)
	probability := clamp(weighted*volatility, MinProbability, MaxProbability)

	return ScoredPrediction{
		Number:      number,
		Probability: probability,
		SubScores: SubScores{
			Recency:          recency,
			FrequencyDeficit: deficit,
			PairAffinity:     pair,
			Temporal:         temporalBlend,
			Streak:           streak,
		},
		Element:   elements.Classify(number),
		Reasoning: reasoning,
		RiskLevel: riskLevelFor(probability),
	}
}

// recencyScore rewards absence: the longer unseen, the higher the score,
// capped at 0.95. The number from the immediately preceding draw gets a
// fixed low 0.1.
func recencyScore(number int, lastSeen map[int]int, totalDraws int) float64 {
	if totalDraws == 0 {
		return 0.5
	}
	drawsSince, ok := lastSeen[number]
	if !ok {
		drawsSince = totalDraws
	} else if drawsSince == 0 {
		return 0.1
	}
	return math.Min(0.95, 0.3+0.7*float64(drawsSince)/float64(totalDraws))
}

// frequencyDeficitScore compares the number's lifetime count against the
// uniform expectation: under-drawn scores 0.8, over-drawn 0.3, else 0.5.
func frequencyDeficitScore(number int, frequencies map[int]int, totalDraws int) float64 {
	expected := float64(totalDraws) / 36
	if expected == 0 {
		return 0.5
	}
	count := float64(frequencies[number])
	switch {
	case count < expected*0.8:
		return 0.8
	case count > expected*1.2:
		return 0.3
	default:
		return 0.5
	}
}

// streakScore penalizes numbers still on a run: drawn in the last few draws
// scores lowest, absent from both windows scores highest.
func streakScore(number int, recent, veryRecent []int) float64 {
	if contains(veryRecent, number) {
		return 0.2
	}
	if contains(recent, number) {
		return 0.4
	}
	return 0.8
}

func applyRankDecay(predictions []ScoredPrediction) {
	for i := range predictions {
		predictions[i].Probability = clamp(
			predictions[i].Probability*(1-float64(i)*RankDecayStep),
			MinProbability, MaxProbability)
	}
}

func sortPredictions(predictions []ScoredPrediction) {
	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].Probability != predictions[j].Probability {
			return predictions[i].Probability > predictions[j].Probability
		}
		return predictions[i].Number < predictions[j].Number
	})
}

// lastSeenPositions maps each number to its index in the newest-first
// history (0 = the most recent draw). Absent numbers have no entry.
func lastSeenPositions(history []domain.DrawRecord) map[int]int {
	positions := make(map[int]int)
	for i, rec := range history {
		if _, seen := positions[rec.Number]; !seen {
			positions[rec.Number] = i
		}
	}
	return positions
}

func numbersInWindow(history []domain.DrawRecord, window int) []int {
	if window > len(history) {
		window = len(history)
	}
	numbers := make([]int, 0, window)
	for _, rec := range history[:window] {
		numbers = append(numbers, rec.Number)
	}
	return numbers
}

func contains(numbers []int, n int) bool {
	for _, candidate := range numbers {
		if candidate == n {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

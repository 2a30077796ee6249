package backtest

import (
	"math"
	"sort"

	"github.com/aristath/playwhe/internal/domain"
)

// WindowPrediction is the micro-pattern predictor's output for one training
// window: at most five candidate numbers plus a self-reported confidence.
// This predictor is deliberately simpler than the composite scorer - it only
// looks inside the window.
type WindowPrediction struct {
	Numbers    []int
	Confidence float64
}

// predictFromWindow inspects a training window for micro patterns and
// suggests candidates for the next draw in the target slot. Returns nil
// when fewer than three candidates emerge - too weak to call a prediction.
func predictFromWindow(training []domain.DrawRecord, targetSlot domain.TimeSlot) *WindowPrediction {
	recent := lastNumbers(training, 3)

	confidence := 0.5
	var suggested []int

	// Pattern 1: time-slot clustering. Numbers drawn in the target slot
	// tend to sit near that slot's running average.
	var slotNumbers []int
	for _, rec := range training {
		if rec.TimeSlot == targetSlot {
			slotNumbers = append(slotNumbers, rec.Number)
		}
	}
	if len(slotNumbers) > 1 {
		sum := 0
		for _, n := range slotNumbers {
			sum += n
		}
		avg := float64(sum) / float64(len(slotNumbers))
		confidence += 0.2
		suggested = append(suggested,
			clampNumber(int(math.Floor(avg))-2),
			clampNumber(int(math.Floor(avg))-1),
			clampNumber(int(math.Ceil(avg))),
			clampNumber(int(math.Ceil(avg))+1),
			clampNumber(int(math.Ceil(avg))+2),
		)
	}

	// Pattern 2: gap analysis - numbers entirely absent from the window.
	gaps := absentNumbers(training)
	if len(gaps) > 0 {
		confidence += 0.15
		if len(gaps) > 3 {
			gaps = gaps[:3]
		}
		suggested = append(suggested, gaps...)
	}

	// Pattern 3: additive/difference sequences over the last three draws.
	fib := additivePatterns(recent)
	if len(fib) > 0 {
		confidence += 0.25
		suggested = append(suggested, fib...)
	}

	candidates := dedupeValid(suggested)
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	if len(candidates) < 3 {
		return nil
	}

	return &WindowPrediction{Numbers: candidates, Confidence: confidence}
}

func lastNumbers(records []domain.DrawRecord, n int) []int {
	if n > len(records) {
		n = len(records)
	}
	numbers := make([]int, 0, n)
	for _, rec := range records[len(records)-n:] {
		numbers = append(numbers, rec.Number)
	}
	return numbers
}

// absentNumbers returns the numbers 1-36 that never occur in the window,
// in ascending order.
func absentNumbers(records []domain.DrawRecord) []int {
	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		seen[rec.Number] = true
	}
	var gaps []int
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		if !seen[n] {
			gaps = append(gaps, n)
		}
	}
	sort.Ints(gaps)
	if len(gaps) > 10 {
		gaps = gaps[:10]
	}
	return gaps
}

// additivePatterns looks for Fibonacci-like structure in the most recent
// numbers: pairwise sums that stay in range, and pairwise differences not
// already present.
func additivePatterns(recent []int) []int {
	if len(recent) < 2 {
		return nil
	}
	var patterns []int
	for i := 1; i < len(recent); i++ {
		sum := recent[i-1] + recent[i]
		if sum <= domain.MaxNumber {
			patterns = append(patterns, sum)
		}
		diff := recent[i] - recent[i-1]
		if diff < 0 {
			diff = -diff
		}
		if diff > 0 && diff <= domain.MaxNumber && !containsNumber(recent, diff) {
			patterns = append(patterns, diff)
		}
	}
	return dedupeValid(patterns)
}

func dedupeValid(numbers []int) []int {
	seen := make(map[int]bool, len(numbers))
	var out []int
	for _, n := range numbers {
		if n < domain.MinNumber || n > domain.MaxNumber || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func clampNumber(n int) int {
	if n < domain.MinNumber {
		return domain.MinNumber
	}
	if n > domain.MaxNumber {
		return domain.MaxNumber
	}
	return n
}

// Package temporal analyzes day-of-week, weekly and seasonal recurrence
// patterns in the draw history.
package temporal

import (
	"math"
	"time"

	"github.com/aristath/playwhe/internal/domain"
)

// Scores holds the three temporal sub-scores for one number, each in [0,1].
type Scores struct {
	Slot     float64 `json:"slot_score"`     // recurrence in the current (day-of-week, time-slot) key
	Week     float64 `json:"week_score"`     // recurrence across week-of-year buckets
	Seasonal float64 `json:"seasonal_score"` // recurrence in the current calendar month
}

// slotKey identifies one (day-of-week, time-slot) bucket.
type slotKey struct {
	day  time.Weekday
	slot domain.TimeSlot
}

// Analyze computes temporal sub-scores for every number 1-36 from the full
// history. The reference time and target slot are injected so repeated calls
// over the same snapshot are deterministic; the function keeps no state
// between calls.
func Analyze(history []domain.DrawRecord, now time.Time, dayOfWeek time.Weekday, slot domain.TimeSlot) map[int]Scores {
	slotCounts := buildSlotCounts(history)
	weekBuckets := buildWeekBuckets(history)
	monthCounts := buildMonthCounts(history)

	currentKey := slotKey{day: dayOfWeek, slot: slot}
	currentWeek := weekOfYear(now)
	currentMonth := now.Month()

	results := make(map[int]Scores, domain.MaxNumber)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		results[n] = Scores{
			Slot:     slotScore(n, slotCounts[currentKey]),
			Week:     weekScore(n, weekBuckets, currentWeek),
			Seasonal: seasonalScore(n, monthCounts, currentMonth),
		}
	}
	return results
}

func buildSlotCounts(history []domain.DrawRecord) map[slotKey]map[int]int {
	counts := make(map[slotKey]map[int]int)
	for _, rec := range history {
		key := slotKey{day: rec.OccurredAt.Weekday(), slot: rec.TimeSlot}
		if counts[key] == nil {
			counts[key] = make(map[int]int)
		}
		counts[key][rec.Number]++
	}
	return counts
}

// slotScore is the number's count in the current key divided by the maximum
// count among numbers sharing that key. Unseen key scores 0; a number that
// never occurred in a seen key scores 0.3.
func slotScore(number int, keyCounts map[int]int) float64 {
	if len(keyCounts) == 0 {
		return 0
	}
	count, ok := keyCounts[number]
	if !ok {
		return 0.3
	}
	max := 0
	for _, c := range keyCounts {
		if c > max {
			max = c
		}
	}
	return float64(count) / float64(max)
}

func buildWeekBuckets(history []domain.DrawRecord) map[int]map[int]bool {
	buckets := make(map[int]map[int]bool)
	for _, rec := range history {
		week := weekOfYear(rec.OccurredAt)
		if buckets[week] == nil {
			buckets[week] = make(map[int]bool)
		}
		buckets[week][rec.Number] = true
	}
	return buckets
}

// weekScore starts neutral and gains 0.1 for every week bucket other than the
// current one in which the number appeared, capped at 1.0.
func weekScore(number int, buckets map[int]map[int]bool, currentWeek int) float64 {
	score := 0.5
	for week, numbers := range buckets {
		if week != currentWeek && numbers[number] {
			score += 0.1
		}
	}
	return math.Min(score, 1.0)
}

// weekOfYear buckets a date into a week number computed from its day of
// year, offset by the weekday of January 1st so calendar weeks line up.
func weekOfYear(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return int(math.Ceil(float64(t.YearDay()+int(jan1.Weekday())) / 7))
}

func buildMonthCounts(history []domain.DrawRecord) map[int]map[time.Month]int {
	counts := make(map[int]map[time.Month]int)
	for _, rec := range history {
		if counts[rec.Number] == nil {
			counts[rec.Number] = make(map[time.Month]int)
		}
		counts[rec.Number][rec.OccurredAt.Month()]++
	}
	return counts
}

// seasonalScore is the number's count in the current month relative to its
// best month, or 0.5 when the number has no recorded occurrences.
func seasonalScore(number int, monthCounts map[int]map[time.Month]int, currentMonth time.Month) float64 {
	months := monthCounts[number]
	max := 0
	for _, c := range months {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return 0.5
	}
	return float64(months[currentMonth]) / float64(max)
}

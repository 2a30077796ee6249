// Package ingestion parses bulk historical draw text and imports it
// into the draw store.
package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/playwhe/internal/domain"
)

// ParsedDraw is one draw extracted from a bulk text block, before the
// date line has been resolved to a timestamp. The persistent draw id is
// derived later from the resolved date and slot, so importing the same
// block twice maps to the same rows.
type ParsedDraw struct {
	DateLine string
	TimeSlot domain.TimeSlot
	Number   int
}

var dayHeaderPattern = regexp.MustCompile(
	`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`)

// ParseBulkDraws parses a line-oriented text block into draws. A day
// header line sets the current date; a time-slot line followed by a
// numeric line yields one draw. Lines that match neither are skipped.
func ParseBulkDraws(raw string) []ParsedDraw {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var parsed []ParsedDraw
	currentDate := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if dayHeaderPattern.MatchString(line) {
			currentDate = line
			continue
		}

		slot, err := domain.ParseTimeSlot(line)
		if err != nil {
			continue
		}
		if i+1 >= len(lines) {
			continue
		}

		number, err := strconv.Atoi(lines[i+1])
		if err != nil {
			continue
		}

		parsed = append(parsed, ParsedDraw{
			DateLine: currentDate,
			TimeSlot: slot,
			Number:   number,
		})
		i++ // consume the number line
	}

	return parsed
}

var ordinalSuffixPattern = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)

var dateLayouts = []string{
	"Monday 2 January 2006",
	"Monday, 2 January 2006",
	"Monday January 2 2006",
	"Monday, January 2, 2006",
}

// slotTimes places each draw at its published draw time so that draws
// within one day order correctly in the log.
var slotTimes = map[domain.TimeSlot]struct{ hour, minute int }{
	domain.SlotMorning:   {10, 30},
	domain.SlotMidday:    {13, 0},
	domain.SlotAfternoon: {16, 30},
	domain.SlotEvening:   {19, 0},
}

// ResolveOccurrence turns a parsed date line and time slot into a
// concrete UTC timestamp.
func ResolveOccurrence(dateLine string, slot domain.TimeSlot) (time.Time, error) {
	cleaned := ordinalSuffixPattern.ReplaceAllString(dateLine, "$1")

	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		day, err = time.Parse(layout, cleaned)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date line %q: %w", dateLine, err)
	}

	at := slotTimes[slot]
	return time.Date(day.Year(), day.Month(), day.Day(), at.hour, at.minute, 0, 0, time.UTC), nil
}

// DrawID derives the persistent id for an imported draw. One draw
// happens per slot per day, so the date and slot identify it; repeated
// imports of the same block produce the same ids.
func DrawID(occurredAt time.Time, slot domain.TimeSlot) string {
	return fmt.Sprintf("D%s-%s", occurredAt.Format("20060102"), slot)
}

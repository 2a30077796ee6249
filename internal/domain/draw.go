// Package domain contains the core types shared across modules.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Play Whe draws a single number from this range, four times a day.
const (
	MinNumber = 1
	MaxNumber = 36
)

// ErrNumberOutOfRange is returned when a caller supplies a draw number
// outside [MinNumber, MaxNumber]. Range violations are rejected at the
// boundary so invalid numbers never reach the scoring pipeline.
var ErrNumberOutOfRange = errors.New("draw number out of range")

// ValidateNumber checks that n is a valid draw number.
func ValidateNumber(n int) error {
	if n < MinNumber || n > MaxNumber {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrNumberOutOfRange, n, MinNumber, MaxNumber)
	}
	return nil
}

// TimeSlot is one of the four fixed daily draw slots.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotMidday    TimeSlot = "Midday"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
)

// AllTimeSlots lists the slots in draw order.
var AllTimeSlots = []TimeSlot{SlotMorning, SlotMidday, SlotAfternoon, SlotEvening}

// ParseTimeSlot converts a string to a TimeSlot, validating it.
func ParseTimeSlot(s string) (TimeSlot, error) {
	switch TimeSlot(s) {
	case SlotMorning, SlotMidday, SlotAfternoon, SlotEvening:
		return TimeSlot(s), nil
	}
	return "", fmt.Errorf("invalid time slot: %q", s)
}

// TimeSlotForHour returns the slot a wall-clock hour falls into.
// Draws happen at 10:30, 13:00, 16:00 and 19:00 local time.
func TimeSlotForHour(hour int) TimeSlot {
	switch {
	case hour < 12:
		return SlotMorning
	case hour < 15:
		return SlotMidday
	case hour < 18:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

// DrawRecord is one historical draw outcome. Records are append-only:
// once written they are never updated or deleted.
type DrawRecord struct {
	DrawID     string    `json:"draw_id"`
	OccurredAt time.Time `json:"occurred_at"`
	TimeSlot   TimeSlot  `json:"time_slot"`
	Number     int       `json:"number"`
}

// FrequencyEntry tracks how many times a number has been drawn overall.
// Maintained by incremental upsert on each recorded draw; the
// reconciliation job repairs drift against the draw log.
type FrequencyEntry struct {
	Number    int       `json:"number"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

package draws

import (
	"fmt"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecordResult reports the outcome of recording one draw. The draw insert
// and the frequency increment are two sequential writes without a wrapping
// transaction; when the second write fails the draw stays recorded and
// FrequencyStale flags the drift for the reconciliation job.
type RecordResult struct {
	Record         domain.DrawRecord `json:"record"`
	FrequencyStale bool              `json:"frequency_stale"`
	Warning        string            `json:"warning,omitempty"`
}

// Service coordinates writes to the draw log and frequency table.
type Service struct {
	drawRepo *DrawRepository
	freqRepo *FrequencyRepository
	log      zerolog.Logger
}

// NewService creates a new draw store service.
func NewService(drawRepo *DrawRepository, freqRepo *FrequencyRepository, log zerolog.Logger) *Service {
	return &Service{
		drawRepo: drawRepo,
		freqRepo: freqRepo,
		log:      log.With().Str("module", "draws").Logger(),
	}
}

// Record validates and appends one draw, then bumps the frequency count.
// Range violations are rejected before anything is written.
func (s *Service) Record(number int, slot domain.TimeSlot, occurredAt time.Time) (RecordResult, error) {
	if err := domain.ValidateNumber(number); err != nil {
		return RecordResult{}, err
	}

	rec := domain.DrawRecord{
		DrawID:     uuid.NewString(),
		OccurredAt: occurredAt,
		TimeSlot:   slot,
		Number:     number,
	}

	if err := s.drawRepo.Insert(rec); err != nil {
		return RecordResult{}, fmt.Errorf("failed to record draw: %w", err)
	}

	result := RecordResult{Record: rec}
	if err := s.freqRepo.Increment(number, occurredAt); err != nil {
		// The draw is already in the log; don't roll back or retry.
		// Surface the drift and let reconciliation repair it.
		result.FrequencyStale = true
		result.Warning = fmt.Sprintf(
			"draw recorded but frequency update failed for %d; counts are stale until reconciliation", number)
		s.log.Warn().Err(err).Int("number", number).Msg("Frequency increment failed after draw insert")
	}

	return result, nil
}

// History returns the draw log, newest first.
func (s *Service) History() ([]domain.DrawRecord, error) {
	return s.drawRepo.ListNewestFirst()
}

// Frequencies returns all frequency entries, least frequent first.
func (s *Service) Frequencies() ([]domain.FrequencyEntry, error) {
	return s.freqRepo.List()
}

// FrequencyMap returns frequencies keyed by number.
func (s *Service) FrequencyMap() (map[int]int, error) {
	return s.freqRepo.Map()
}

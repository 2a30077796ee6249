package ingestion

import (
	"fmt"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/rs/zerolog"
)

const batchSize = 100

// DrawInserter is the slice of the draw store the importer writes to.
type DrawInserter interface {
	InsertBatch(records []domain.DrawRecord) (int, error)
	CountByNumber() (map[int]int, error)
}

// FrequencyUpserter restores frequency counts after an import.
type FrequencyUpserter interface {
	Upsert(number, count int, updatedAt time.Time) error
}

// ImportResult summarizes one bulk import. Duplicates counts draws
// whose id already existed in the log and were left untouched.
type ImportResult struct {
	Parsed     int `json:"parsed"`
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// Service imports bulk draw text into the draw store.
type Service struct {
	draws       DrawInserter
	frequencies FrequencyUpserter
	log         zerolog.Logger
}

// NewService creates a new ingestion service.
func NewService(draws DrawInserter, frequencies FrequencyUpserter, log zerolog.Logger) *Service {
	return &Service{
		draws:       draws,
		frequencies: frequencies,
		log:         log.With().Str("module", "ingestion").Logger(),
	}
}

// Import parses raw bulk text, batch-inserts the draws, then recomputes
// per-number counts from the draw log and upserts the frequency table.
// Draws with numbers outside 1..36 or unresolvable dates are skipped
// and counted, not fatal.
func (s *Service) Import(raw string) (ImportResult, error) {
	parsed := ParseBulkDraws(raw)
	result := ImportResult{Parsed: len(parsed)}

	var records []domain.DrawRecord
	for _, p := range parsed {
		if err := domain.ValidateNumber(p.Number); err != nil {
			s.log.Warn().Int("number", p.Number).Str("date_line", p.DateLine).
				Msg("Skipping draw with out-of-range number")
			result.Skipped++
			continue
		}

		occurredAt, err := ResolveOccurrence(p.DateLine, p.TimeSlot)
		if err != nil {
			s.log.Warn().Str("date_line", p.DateLine).Int("number", p.Number).
				Msg("Skipping draw with unresolvable date")
			result.Skipped++
			continue
		}

		records = append(records, domain.DrawRecord{
			DrawID:     DrawID(occurredAt, p.TimeSlot),
			OccurredAt: occurredAt,
			TimeSlot:   p.TimeSlot,
			Number:     p.Number,
		})
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		inserted, err := s.draws.InsertBatch(records[start:end])
		if err != nil {
			return result, fmt.Errorf("failed to import batch starting at %d: %w", start, err)
		}
		result.Imported += inserted
		result.Duplicates += (end - start) - inserted
		s.log.Info().Int("batch_start", start).Int("batch_size", end-start).
			Int("inserted", inserted).Msg("Imported draw batch")
	}

	if result.Imported > 0 {
		if err := s.recomputeFrequencies(); err != nil {
			return result, err
		}
	}

	s.log.Info().Int("parsed", result.Parsed).Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).Int("skipped", result.Skipped).
		Msg("Bulk import complete")
	return result, nil
}

func (s *Service) recomputeFrequencies() error {
	counts, err := s.draws.CountByNumber()
	if err != nil {
		return fmt.Errorf("failed to recompute frequencies: %w", err)
	}

	now := time.Now().UTC()
	for number, count := range counts {
		if err := s.frequencies.Upsert(number, count, now); err != nil {
			return fmt.Errorf("failed to upsert frequency for %d: %w", number, err)
		}
	}
	return nil
}

package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DrawCounter recomputes true per-number counts from the draw log.
type DrawCounter interface {
	CountByNumber() (map[int]int, error)
}

// FrequencyStore is the frequency table side of the reconciliation.
type FrequencyStore interface {
	Map() (map[int]int, error)
	Upsert(number, count int, updatedAt time.Time) error
}

// ReconcileFrequenciesJob repairs drift between the append-only draw
// log and the frequency table. Drift appears when the second of the two
// non-transactional writes on a draw submission fails.
type ReconcileFrequenciesJob struct {
	draws       DrawCounter
	frequencies FrequencyStore
	log         zerolog.Logger
}

// NewReconcileFrequenciesJob creates the reconciliation job.
func NewReconcileFrequenciesJob(draws DrawCounter, frequencies FrequencyStore, log zerolog.Logger) *ReconcileFrequenciesJob {
	return &ReconcileFrequenciesJob{
		draws:       draws,
		frequencies: frequencies,
		log:         log.With().Str("job", "reconcile_frequencies").Logger(),
	}
}

// Name returns the job name
func (j *ReconcileFrequenciesJob) Name() string {
	return "reconcile_frequencies"
}

// Run compares the frequency table against counts recomputed from the
// draw log and repairs every drifted entry.
func (j *ReconcileFrequenciesJob) Run() error {
	truth, err := j.draws.CountByNumber()
	if err != nil {
		return fmt.Errorf("failed to recount draws: %w", err)
	}

	stored, err := j.frequencies.Map()
	if err != nil {
		return fmt.Errorf("failed to load frequency table: %w", err)
	}

	now := time.Now().UTC()
	repaired := 0

	for number, trueCount := range truth {
		if stored[number] == trueCount {
			continue
		}
		j.log.Warn().Int("number", number).
			Int("stored", stored[number]).Int("actual", trueCount).
			Msg("Frequency drift detected, repairing")

		if err := j.frequencies.Upsert(number, trueCount, now); err != nil {
			return fmt.Errorf("failed to repair frequency for %d: %w", number, err)
		}
		repaired++
	}

	// Entries for numbers with no draws at all should read zero.
	for number, storedCount := range stored {
		if _, drawn := truth[number]; drawn || storedCount == 0 {
			continue
		}
		j.log.Warn().Int("number", number).Int("stored", storedCount).
			Msg("Frequency entry has no backing draws, zeroing")

		if err := j.frequencies.Upsert(number, 0, now); err != nil {
			return fmt.Errorf("failed to zero frequency for %d: %w", number, err)
		}
		repaired++
	}

	if repaired > 0 {
		j.log.Info().Int("repaired", repaired).Msg("Frequency reconciliation repaired entries")
	}
	return nil
}

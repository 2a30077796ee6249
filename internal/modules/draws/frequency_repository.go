package draws

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/rs/zerolog"
)

// FrequencyRepository handles the per-number frequency table. Counts are
// maintained incrementally on each recorded draw and repaired against the
// draw log by the reconciliation job.
type FrequencyRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewFrequencyRepository creates a new frequency repository.
func NewFrequencyRepository(db *sql.DB, log zerolog.Logger) *FrequencyRepository {
	return &FrequencyRepository{
		db:  db,
		log: log.With().Str("repo", "frequencies").Logger(),
	}
}

// List returns all frequency entries ordered by ascending count, least
// frequent first (the order the fallback path consumes).
func (r *FrequencyRepository) List() ([]domain.FrequencyEntry, error) {
	rows, err := r.db.Query(`SELECT number, count, updated_at
		FROM frequencies ORDER BY count ASC, number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequencies: %w", err)
	}
	defer rows.Close()

	var entries []domain.FrequencyEntry
	for rows.Next() {
		var entry domain.FrequencyEntry
		if err := rows.Scan(&entry.Number, &entry.Count, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frequencies: %w", err)
	}

	return entries, nil
}

// Map returns frequencies keyed by number.
func (r *FrequencyRepository) Map() (map[int]int, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(entries))
	for _, entry := range entries {
		counts[entry.Number] = entry.Count
	}
	return counts, nil
}

// Upsert sets a number's count to an absolute value.
func (r *FrequencyRepository) Upsert(number, count int, updatedAt time.Time) error {
	if err := domain.ValidateNumber(number); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO frequencies (number, count, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET count = excluded.count, updated_at = excluded.updated_at`,
		number, count, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert frequency for %d: %w", number, err)
	}
	return nil
}

// Increment bumps a number's count by one, creating the row if missing.
func (r *FrequencyRepository) Increment(number int, updatedAt time.Time) error {
	if err := domain.ValidateNumber(number); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO frequencies (number, count, updated_at) VALUES (?, 1, ?)
		ON CONFLICT(number) DO UPDATE SET count = count + 1, updated_at = excluded.updated_at`,
		number, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to increment frequency for %d: %w", number, err)
	}
	return nil
}

// Package draws implements the draw store: the append-only draw log and
// the per-number frequency table.
package draws

import (
	"database/sql"
	"fmt"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/rs/zerolog"
)

// DrawRepository handles draw log database operations.
type DrawRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewDrawRepository creates a new draw repository.
func NewDrawRepository(db *sql.DB, log zerolog.Logger) *DrawRepository {
	return &DrawRepository{
		db:  db,
		log: log.With().Str("repo", "draws").Logger(),
	}
}

// ListNewestFirst returns the full draw log ordered by occurrence,
// newest first.
func (r *DrawRepository) ListNewestFirst() ([]domain.DrawRecord, error) {
	rows, err := r.db.Query(`SELECT draw_id, occurred_at, time_slot, number
		FROM draws ORDER BY occurred_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var records []domain.DrawRecord
	for rows.Next() {
		var rec domain.DrawRecord
		var slot string
		if err := rows.Scan(&rec.DrawID, &rec.OccurredAt, &slot, &rec.Number); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		rec.TimeSlot = domain.TimeSlot(slot)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}

	return records, nil
}

// Insert appends one draw record. The log is append-only: records are
// never updated or deleted.
func (r *DrawRepository) Insert(rec domain.DrawRecord) error {
	_, err := r.db.Exec(
		`INSERT INTO draws (draw_id, occurred_at, time_slot, number) VALUES (?, ?, ?, ?)`,
		rec.DrawID, rec.OccurredAt, string(rec.TimeSlot), rec.Number,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draw %s: %w", rec.DrawID, err)
	}
	return nil
}

// InsertBatch appends a batch of draw records inside one transaction.
// Records whose draw id already exists are skipped, so re-importing
// overlapping data is safe. Returns how many rows were actually inserted.
func (r *DrawRepository) InsertBatch(records []domain.DrawRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO draws (draw_id, occurred_at, time_slot, number) VALUES (?, ?, ?, ?)
		ON CONFLICT(draw_id) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		res, err := stmt.Exec(rec.DrawID, rec.OccurredAt, string(rec.TimeSlot), rec.Number)
		if err != nil {
			return 0, fmt.Errorf("failed to insert draw %s: %w", rec.DrawID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read batch insert result: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return inserted, nil
}

// CountByNumber recomputes per-number counts directly from the draw log.
// Used by the reconciliation job as the source of truth for frequencies.
func (r *DrawRepository) CountByNumber() (map[int]int, error) {
	rows, err := r.db.Query(`SELECT number, COUNT(*) FROM draws GROUP BY number`)
	if err != nil {
		return nil, fmt.Errorf("failed to count draws per number: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var number, count int
		if err := rows.Scan(&number, &count); err != nil {
			return nil, fmt.Errorf("failed to scan draw count: %w", err)
		}
		counts[number] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw counts: %w", err)
	}

	return counts, nil
}

// Count returns the total number of recorded draws.
func (r *DrawRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM draws`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// Package snapshots persists generated prediction sets as msgpack blobs
// in the cache database so the latest set can be served without
// recomputing the full pipeline.
package snapshots

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/playwhe/internal/modules/prediction"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// RetentionDays is how long snapshots are kept before pruning.
const RetentionDays = 30

// ErrNoSnapshot is returned when no snapshot has been stored yet.
var ErrNoSnapshot = errors.New("no prediction snapshot stored")

// Repository handles prediction snapshot persistence.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Save stores a prediction set as a msgpack blob keyed by its
// generation time.
func (r *Repository) Save(set prediction.PredictionSet) error {
	payload, err := msgpack.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO prediction_snapshots (generated_at, payload) VALUES (?, ?)`,
		set.GeneratedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	r.log.Debug().Time("generated_at", set.GeneratedAt).
		Int("bytes", len(payload)).Msg("Stored prediction snapshot")
	return nil
}

// Latest returns the most recently generated snapshot.
func (r *Repository) Latest() (prediction.PredictionSet, error) {
	var payload []byte
	err := r.db.QueryRow(
		`SELECT payload FROM prediction_snapshots ORDER BY generated_at DESC, id DESC LIMIT 1`,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return prediction.PredictionSet{}, ErrNoSnapshot
	}
	if err != nil {
		return prediction.PredictionSet{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	var set prediction.PredictionSet
	if err := msgpack.Unmarshal(payload, &set); err != nil {
		return prediction.PredictionSet{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return set, nil
}

// Prune deletes snapshots older than the retention window and returns
// how many were removed.
func (r *Repository) Prune(now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -RetentionDays)

	result, err := r.db.Exec(
		`DELETE FROM prediction_snapshots WHERE generated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}

	if removed > 0 {
		r.log.Info().Int64("removed", removed).Msg("Pruned old prediction snapshots")
	}
	return removed, nil
}

package draws

import (
	"database/sql"
	"testing"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE draws (
			draw_id     TEXT PRIMARY KEY,
			occurred_at TIMESTAMP NOT NULL,
			time_slot   TEXT NOT NULL,
			number      INTEGER NOT NULL CHECK (number BETWEEN 1 AND 36)
		);
		CREATE TABLE frequencies (
			number     INTEGER PRIMARY KEY,
			count      INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		);
	`)
	require.NoError(t, err)
	return db
}

func setupService(t *testing.T) (*Service, *DrawRepository, *FrequencyRepository) {
	db := setupTestDB(t)
	drawRepo := NewDrawRepository(db, zerolog.Nop())
	freqRepo := NewFrequencyRepository(db, zerolog.Nop())
	return NewService(drawRepo, freqRepo, zerolog.Nop()), drawRepo, freqRepo
}

func TestRecordInsertsDrawAndIncrementsFrequency(t *testing.T) {
	svc, drawRepo, freqRepo := setupService(t)
	occurredAt := time.Date(2025, 8, 16, 19, 0, 0, 0, time.UTC)

	result, err := svc.Record(14, domain.SlotEvening, occurredAt)
	require.NoError(t, err)

	assert.False(t, result.FrequencyStale)
	assert.Equal(t, 14, result.Record.Number)
	assert.Equal(t, domain.SlotEvening, result.Record.TimeSlot)
	assert.NotEmpty(t, result.Record.DrawID)

	history, err := drawRepo.ListNewestFirst()
	require.NoError(t, err)
	require.Len(t, history, 1)

	counts, err := freqRepo.Map()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[14])
}

func TestRecordRejectsOutOfRangeNumber(t *testing.T) {
	svc, drawRepo, _ := setupService(t)

	_, err := svc.Record(0, domain.SlotMorning, time.Now())
	assert.ErrorIs(t, err, domain.ErrNumberOutOfRange)

	_, err = svc.Record(37, domain.SlotMorning, time.Now())
	assert.ErrorIs(t, err, domain.ErrNumberOutOfRange)

	// Nothing was written.
	count, err := drawRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _, _ := setupService(t)
	base := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)

	for i, n := range []int{5, 12, 29} {
		_, err := svc.Record(n, domain.SlotMorning, base.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	history, err := svc.History()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 29, history[0].Number)
	assert.Equal(t, 5, history[2].Number)
}

func TestRepeatedRecordsAccumulateFrequency(t *testing.T) {
	svc, _, freqRepo := setupService(t)
	base := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.Record(7, domain.SlotMidday, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	counts, err := freqRepo.Map()
	require.NoError(t, err)
	assert.Equal(t, 3, counts[7])
}

func TestCountByNumberMatchesLog(t *testing.T) {
	svc, drawRepo, _ := setupService(t)
	base := time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC)

	for i, n := range []int{3, 3, 8, 3, 8, 21} {
		_, err := svc.Record(n, domain.SlotAfternoon, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	counts, err := drawRepo.CountByNumber()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 3, 8: 2, 21: 1}, counts)
}

func TestFrequencyUpsertOverwritesCount(t *testing.T) {
	_, _, freqRepo := setupService(t)
	now := time.Now().UTC()

	require.NoError(t, freqRepo.Upsert(9, 5, now))
	require.NoError(t, freqRepo.Upsert(9, 2, now))

	counts, err := freqRepo.Map()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[9])
}

func TestFrequencyListLeastFrequentFirst(t *testing.T) {
	_, _, freqRepo := setupService(t)
	now := time.Now().UTC()

	require.NoError(t, freqRepo.Upsert(1, 10, now))
	require.NoError(t, freqRepo.Upsert(2, 3, now))
	require.NoError(t, freqRepo.Upsert(3, 7, now))

	entries, err := freqRepo.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 2, entries[0].Number)
	assert.Equal(t, 1, entries[2].Number)
}

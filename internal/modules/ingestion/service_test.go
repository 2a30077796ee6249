package ingestion

import (
	"database/sql"
	"testing"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/draws"
	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBulkText = `
Monday 4th August 2025
Morning
14
Midday
7
Afternoon
36
Evening
1

Tuesday 5th August 2025
Morning
14
Evening
22
`

func TestParseBulkDraws(t *testing.T) {
	parsed := ParseBulkDraws(sampleBulkText)
	require.Len(t, parsed, 6)

	assert.Equal(t, "Monday 4th August 2025", parsed[0].DateLine)
	assert.Equal(t, domain.SlotMorning, parsed[0].TimeSlot)
	assert.Equal(t, 14, parsed[0].Number)

	assert.Equal(t, domain.SlotEvening, parsed[3].TimeSlot)
	assert.Equal(t, 1, parsed[3].Number)

	assert.Equal(t, "Tuesday 5th August 2025", parsed[4].DateLine)
	assert.Equal(t, domain.SlotEvening, parsed[5].TimeSlot)
	assert.Equal(t, 22, parsed[5].Number)
}

func TestDrawIDDerivedFromDateAndSlot(t *testing.T) {
	occurredAt := time.Date(2025, 8, 4, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "D20250804-Morning", DrawID(occurredAt, domain.SlotMorning))
	assert.Equal(t, "D20250804-Evening", DrawID(occurredAt, domain.SlotEvening))
	// Same date and slot always maps to the same id.
	assert.Equal(t,
		DrawID(occurredAt, domain.SlotMidday),
		DrawID(occurredAt.Add(time.Hour), domain.SlotMidday))
}

func TestParseBulkDrawsSkipsMalformedLines(t *testing.T) {
	raw := `
Monday 4th August 2025
Some site banner text
Morning
14
Midday
not a number
Evening
9
`
	parsed := ParseBulkDraws(raw)
	require.Len(t, parsed, 2)
	assert.Equal(t, 14, parsed[0].Number)
	assert.Equal(t, domain.SlotEvening, parsed[1].TimeSlot)
	assert.Equal(t, 9, parsed[1].Number)
}

func TestParseBulkDrawsEmptyInput(t *testing.T) {
	assert.Empty(t, ParseBulkDraws(""))
	assert.Empty(t, ParseBulkDraws("   \n  \n"))
}

func TestResolveOccurrence(t *testing.T) {
	at, err := ResolveOccurrence("Monday 4th August 2025", domain.SlotMorning)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 4, 10, 30, 0, 0, time.UTC), at)

	at, err = ResolveOccurrence("Tuesday 5th August 2025", domain.SlotEvening)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 5, 19, 0, 0, 0, time.UTC), at)

	_, err = ResolveOccurrence("no date here", domain.SlotMorning)
	assert.Error(t, err)
}

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

func setupService(t *testing.T) (*Service, *draws.DrawRepository, *draws.FrequencyRepository) {
	db := setupTestDB(t)
	drawRepo := draws.NewDrawRepository(db, zerolog.Nop())
	freqRepo := draws.NewFrequencyRepository(db, zerolog.Nop())
	return NewService(drawRepo, freqRepo, zerolog.Nop()), drawRepo, freqRepo
}

func TestImportInsertsDrawsAndRecomputesFrequencies(t *testing.T) {
	svc, drawRepo, freqRepo := setupService(t)

	result, err := svc.Import(sampleBulkText)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Parsed)
	assert.Equal(t, 6, result.Imported)
	assert.Equal(t, 0, result.Skipped)

	history, err := drawRepo.ListNewestFirst()
	require.NoError(t, err)
	require.Len(t, history, 6)
	// Newest first: Tuesday Evening 22 leads.
	assert.Equal(t, 22, history[0].Number)
	assert.Equal(t, domain.SlotEvening, history[0].TimeSlot)

	counts, err := freqRepo.Map()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[14])
	assert.Equal(t, 1, counts[7])
	assert.Equal(t, 1, counts[36])
}

func TestImportIsIdempotentOnReimport(t *testing.T) {
	svc, drawRepo, freqRepo := setupService(t)

	first, err := svc.Import(sampleBulkText)
	require.NoError(t, err)
	assert.Equal(t, 6, first.Imported)
	assert.Equal(t, 0, first.Duplicates)

	second, err := svc.Import(sampleBulkText)
	require.NoError(t, err)
	assert.Equal(t, 6, second.Parsed)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 6, second.Duplicates)
	assert.Equal(t, 0, second.Skipped)

	count, err := drawRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	// Frequencies stay derived from the draw log, not doubled.
	counts, err := freqRepo.Map()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[14])
	assert.Equal(t, 1, counts[7])
}

func TestImportAcceptsNewDrawsAfterEarlierImport(t *testing.T) {
	svc, drawRepo, _ := setupService(t)

	_, err := svc.Import("Monday 4th August 2025\nMorning\n14\n")
	require.NoError(t, err)

	// A later import of a different day must not collide with existing rows.
	result, err := svc.Import("Wednesday 6th August 2025\nMorning\n3\n")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Duplicates)

	count, err := drawRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportSkipsOutOfRangeNumbers(t *testing.T) {
	svc, drawRepo, _ := setupService(t)

	raw := `
Monday 4th August 2025
Morning
14
Midday
99
`
	result, err := svc.Import(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Parsed)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	count, err := drawRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImportSkipsUnresolvableDates(t *testing.T) {
	svc, _, _ := setupService(t)

	// No day header before the slot line, so the date line is empty.
	result, err := svc.Import("Morning\n14\n")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Parsed)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

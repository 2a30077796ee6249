package database

// schemas maps database names to their DDL. Applied by Migrate; statements
// are idempotent so startup can always run them.
var schemas = map[string]string{
	"draws": `
CREATE TABLE IF NOT EXISTS draws (
	draw_id     TEXT PRIMARY KEY,
	occurred_at TIMESTAMP NOT NULL,
	time_slot   TEXT NOT NULL CHECK (time_slot IN ('Morning', 'Midday', 'Afternoon', 'Evening')),
	number      INTEGER NOT NULL CHECK (number BETWEEN 1 AND 36)
);
CREATE INDEX IF NOT EXISTS idx_draws_occurred_at ON draws(occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_draws_number ON draws(number);

CREATE TABLE IF NOT EXISTS frequencies (
	number     INTEGER PRIMARY KEY CHECK (number BETWEEN 1 AND 36),
	count      INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
	updated_at TIMESTAMP NOT NULL
);
`,
	"cache": `
CREATE TABLE IF NOT EXISTS prediction_snapshots (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	generated_at TIMESTAMP NOT NULL,
	payload      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_generated_at ON prediction_snapshots(generated_at DESC);
`,
}

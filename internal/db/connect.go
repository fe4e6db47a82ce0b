package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:populism.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/populism?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; shared-cache memory DBs vanish when the last conn closes
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS leader_terms (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  country TEXT NOT NULL,
  leader TEXT NOT NULL,
  party TEXT,
  lr INTEGER,                      -- -1 left, 0 center, 1 right
  president INTEGER NOT NULL DEFAULT 0,
  term INTEGER NOT NULL DEFAULT 0,
  start_of_term TEXT NOT NULL DEFAULT '',
  year_begin INTEGER NOT NULL,
  end_of_term TEXT NOT NULL DEFAULT '',
  year_end TEXT NOT NULL,          -- raw, may be 'current'
  year_end_numeric INTEGER NOT NULL,
  wb_region TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT '',
  total_average REAL,
  speeches_json TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_leader_terms_country ON leader_terms(country);
CREATE INDEX IF NOT EXISTS idx_leader_terms_years ON leader_terms(year_begin, year_end_numeric);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- e.g., DatasetImported
  key TEXT NOT NULL,                         -- natural key: import batch id
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS leader_terms (
  id BIGSERIAL PRIMARY KEY,
  country TEXT NOT NULL,
  leader TEXT NOT NULL,
  party TEXT,
  lr INTEGER,
  president INTEGER NOT NULL DEFAULT 0,
  term INTEGER NOT NULL DEFAULT 0,
  start_of_term TEXT NOT NULL DEFAULT '',
  year_begin INTEGER NOT NULL,
  end_of_term TEXT NOT NULL DEFAULT '',
  year_end TEXT NOT NULL,
  year_end_numeric INTEGER NOT NULL,
  wb_region TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT '',
  total_average DOUBLE PRECISION,
  speeches_json TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_leader_terms_country ON leader_terms(country);
CREATE INDEX IF NOT EXISTS idx_leader_terms_years ON leader_terms(year_begin, year_end_numeric);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`

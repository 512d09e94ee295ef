package db

import (
	"context"
	"fmt"
)

// migrations are applied in order. Entry i brings the schema to user_version i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS comparisons (
		run_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		baseline_path TEXT NOT NULL,
		candidate_path TEXT NOT NULL,
		function TEXT,
		fps_a REAL,
		fps_b REAL,
		has_fps INTEGER NOT NULL DEFAULT 0,
		winner TEXT,
		matched INTEGER NOT NULL DEFAULT 0,
		only_a INTEGER NOT NULL DEFAULT 0,
		only_b INTEGER NOT NULL DEFAULT 0,
		undefined INTEGER NOT NULL DEFAULT 0,
		regressions INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_comparisons_created ON comparisons(created_at);

	CREATE TABLE IF NOT EXISTS comparison_rows (
		run_id TEXT NOT NULL REFERENCES comparisons(run_id) ON DELETE CASCADE,
		function TEXT NOT NULL,
		duration_a REAL NOT NULL,
		duration_b REAL NOT NULL,
		percent_diff REAL,
		indicator TEXT NOT NULL,
		PRIMARY KEY (run_id, function)
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_comparison_rows_function ON comparison_rows(function);
	CREATE INDEX IF NOT EXISTS idx_comparisons_function ON comparisons(function, created_at);
	`,
}

// SchemaVersion returns the current user_version of the database.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// migrate applies every migration newer than the stored user_version.
func (db *DB) migrate() error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(context.Background(), migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}

	return nil
}

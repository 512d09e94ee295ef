package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/profdiff-tui/internal/logger"
	"github.com/j-veylop/profdiff-tui/internal/models"
)

const comparisonColumns = `
	run_id, created_at, baseline_path, candidate_path, function,
	fps_a, fps_b, has_fps, winner, matched, only_a, only_b, undefined, regressions
`

// InsertComparison stores a comparison report and its rows in one transaction.
func (db *DB) InsertComparison(report *models.ComparisonReport) error {
	if report == nil || report.RunID == "" {
		return errors.New("comparison report has no run id")
	}

	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
		report.CreatedAt = createdAt
	}

	var (
		function     string
		fpsA, fpsB   sql.NullFloat64
		hasFPS       bool
		winner       string
		matched      int
		onlyA, onlyB int
		undefined    int
	)
	if report.FPS != nil {
		function = report.FPS.Function
		fpsA = nullFloat(report.FPS.FpsA)
		fpsB = nullFloat(report.FPS.FpsB)
		hasFPS = true
		winner = string(report.FPS.Winner)
	}
	if c := report.Comparison; c != nil {
		matched = len(c.Rows)
		onlyA = len(c.OnlyInA)
		onlyB = len(c.OnlyInB)
		undefined = len(c.Undefined)
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(context.Background(), `
		INSERT INTO comparisons (`+comparisonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		createdAt.UTC().Format(timeLayout),
		report.BaselinePath,
		report.CandidatePath,
		nullString(function),
		fpsA,
		fpsB,
		hasFPS,
		nullString(winner),
		matched,
		onlyA,
		onlyB,
		undefined,
		report.Regressions,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comparison: %w", err)
	}

	if report.Comparison != nil && len(report.Comparison.Rows) > 0 {
		stmt, err := tx.PrepareContext(context.Background(), `
			INSERT INTO comparison_rows (run_id, function, duration_a, duration_b, percent_diff, indicator)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare row insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, r := range report.Comparison.Rows {
			if _, err := stmt.ExecContext(context.Background(),
				report.RunID, r.Function, r.DurationA, r.DurationB,
				nullFloat(r.PercentDiff), string(r.Indicator),
			); err != nil {
				return fmt.Errorf("failed to insert comparison row %s: %w", r.Function, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comparison: %w", err)
	}
	return nil
}

// GetRecentComparisons returns the newest comparisons first.
func (db *DB) GetRecentComparisons(limit int) ([]models.ComparisonRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.QueryContext(context.Background(), `
		SELECT `+comparisonColumns+`
		FROM comparisons
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent comparisons: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.ComparisonRecord
	for rows.Next() {
		rec, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// GetComparison retrieves one comparison by run id. It returns nil when absent.
func (db *DB) GetComparison(runID string) (*models.ComparisonRecord, error) {
	row := db.QueryRowContext(context.Background(), `
		SELECT `+comparisonColumns+`
		FROM comparisons
		WHERE run_id = ?
	`, runID)

	rec, err := scanComparison(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}
	return rec, nil
}

// GetComparisonRows returns the stored rows of a comparison sorted by function.
func (db *DB) GetComparisonRows(runID string) ([]models.ComparisonRow, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT function, duration_a, duration_b, percent_diff, indicator
		FROM comparison_rows
		WHERE run_id = ?
		ORDER BY function ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ComparisonRow
	for rows.Next() {
		var r models.ComparisonRow
		var pd sql.NullFloat64
		var indicator string
		if err := rows.Scan(&r.Function, &r.DurationA, &r.DurationB, &pd, &indicator); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}
		r.PercentDiff = math.NaN()
		if pd.Valid {
			r.PercentDiff = pd.Float64
		}
		r.Indicator = models.Indicator(indicator)
		out = append(out, r)
	}

	return out, rows.Err()
}

// DeleteComparison removes a comparison and its rows.
func (db *DB) DeleteComparison(runID string) error {
	_, err := db.ExecContext(context.Background(), "DELETE FROM comparisons WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete comparison: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(s rowScanner) (*models.ComparisonRecord, error) {
	var (
		rec        models.ComparisonRecord
		createdAt  string
		function   sql.NullString
		winner     sql.NullString
		fpsA, fpsB sql.NullFloat64
	)
	err := s.Scan(
		&rec.RunID,
		&createdAt,
		&rec.BaselinePath,
		&rec.CandidatePath,
		&function,
		&fpsA,
		&fpsB,
		&rec.HasFPS,
		&winner,
		&rec.Matched,
		&rec.OnlyInA,
		&rec.OnlyInB,
		&rec.Undefined,
		&rec.Regressions,
	)
	if err != nil {
		return nil, err
	}

	if t, ok := parseTimeString(createdAt); ok {
		rec.CreatedAt = t
	}
	rec.Function = function.String
	rec.Winner = models.Winner(winner.String)
	if rec.HasFPS {
		rec.FpsA = fpsFromNull(fpsA)
		rec.FpsB = fpsFromNull(fpsB)
	}
	return &rec, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullFloat stores non-finite values as NULL.
func nullFloat(f float64) sql.NullFloat64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// fpsFromNull reads back an FPS value. NULL is an infinite frame rate.
func fpsFromNull(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.Inf(1)
	}
	return f.Float64
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

var timeFormats = []string{
	timeLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetFPSHistory returns the last limit FPS readings for function, oldest first.
// Comparisons without an FPS estimate are left out.
func (db *DB) GetFPSHistory(function string, limit int) ([]models.FPSPoint, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT run_id, created_at, fps_a, fps_b FROM (
			SELECT rowid AS seq, run_id, created_at, fps_a, fps_b
			FROM comparisons
			WHERE function = ? AND has_fps = 1
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := db.QueryContext(context.Background(), query, function, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fps history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.FPSPoint
	for rows.Next() {
		var p models.FPSPoint
		var createdAt string
		var fpsA, fpsB sql.NullFloat64

		if err := rows.Scan(&p.RunID, &createdAt, &fpsA, &fpsB); err != nil {
			return nil, fmt.Errorf("failed to scan fps point: %w", err)
		}
		if t, ok := parseTimeString(createdAt); ok {
			p.CreatedAt = t
		}
		p.FpsA = fpsFromNull(fpsA)
		p.FpsB = fpsFromNull(fpsB)
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetFunctionTrend returns the last limit comparison rows for one function, oldest first.
func (db *DB) GetFunctionTrend(function string, limit int) ([]models.TrendPoint, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT run_id, created_at, duration_a, duration_b, percent_diff FROM (
			SELECT c.rowid AS seq, r.run_id, c.created_at, r.duration_a, r.duration_b, r.percent_diff
			FROM comparison_rows r
			JOIN comparisons c ON c.run_id = r.run_id
			WHERE r.function = ?
			ORDER BY c.created_at DESC, c.rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := db.QueryContext(context.Background(), query, function, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query function trend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		var createdAt string
		var pd sql.NullFloat64

		if err := rows.Scan(&p.RunID, &createdAt, &p.DurationA, &p.DurationB, &pd); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		if t, ok := parseTimeString(createdAt); ok {
			p.CreatedAt = t
		}
		p.PercentDiff = math.NaN()
		if pd.Valid {
			p.PercentDiff = pd.Float64
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

package db

// Timestamps are stored as UTC text in this layout so ORDER BY created_at
// sorts chronologically.
const timeLayout = "2006-01-02 15:04:05.000"

const (
	// DefaultHistoryLimit bounds history queries when the caller passes a non-positive limit.
	DefaultHistoryLimit = 50
)

package models

import (
	"math"
	"time"
)

// Indicator classifies a percentage difference between two runs.
type Indicator string

const (
	// IndicatorBetter means the candidate run was faster.
	IndicatorBetter Indicator = "BETTER"
	// IndicatorWorse means the candidate run was slower or unchanged.
	IndicatorWorse Indicator = "WORSE"
)

// IndicatorFor classifies a percent difference. Zero counts as WORSE.
func IndicatorFor(percentDiff float64) Indicator {
	if percentDiff > 0 {
		return IndicatorBetter
	}
	return IndicatorWorse
}

// Symbol returns the short marker used in text reports.
func (i Indicator) Symbol() string {
	if i == IndicatorBetter {
		return "<<"
	}
	return ">>"
}

// ComparisonRow is one function matched in both runs.
type ComparisonRow struct {
	Function    string
	DurationA   float64
	DurationB   float64
	PercentDiff float64
	Indicator   Indicator
}

// IsUndefined reports whether the percent difference could not be computed.
func (r ComparisonRow) IsUndefined() bool {
	return math.IsNaN(r.PercentDiff)
}

// Comparison is the full result of joining two summary sets.
type Comparison struct {
	Rows      []ComparisonRow
	OnlyInA   []string
	OnlyInB   []string
	Undefined []string
}

// Empty reports whether the two sets shared no function.
func (c *Comparison) Empty() bool {
	return c == nil || len(c.Rows) == 0
}

// Regressions returns the rows worse than threshold percent.
func (c *Comparison) Regressions(threshold float64) []ComparisonRow {
	if c == nil {
		return nil
	}
	var out []ComparisonRow
	for _, r := range c.Rows {
		if r.PercentDiff < -threshold {
			out = append(out, r)
		}
	}
	return out
}

// Winner names the run with the higher frame rate.
type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "TIE"
)

// FpsResult compares the estimated frame rate of two runs.
type FpsResult struct {
	Function string
	FpsA     float64
	FpsB     float64
	Winner   Winner
}

// ComparisonReport is a persisted comparison between two trace files.
type ComparisonReport struct {
	RunID         string
	CreatedAt     time.Time
	BaselinePath  string
	CandidatePath string
	Baseline      *TraceSummary
	Candidate     *TraceSummary
	Comparison    *Comparison
	FPS           *FpsResult
	FPSError      string
	Regressions   int
}

// HasRegression reports whether the candidate is a regression overall.
func (r *ComparisonReport) HasRegression() bool {
	if r == nil {
		return false
	}
	if r.Regressions > 0 {
		return true
	}
	return r.FPS != nil && r.FPS.Winner == WinnerA
}

// ComparisonRecord is a row of the comparison history.
type ComparisonRecord struct {
	RunID         string
	CreatedAt     time.Time
	BaselinePath  string
	CandidatePath string
	Function      string
	FpsA          float64
	FpsB          float64
	HasFPS        bool
	Winner        Winner
	Matched       int
	OnlyInA       int
	OnlyInB       int
	Undefined     int
	Regressions   int
}

// FPSPoint is one historical FPS reading for the candidate of a comparison.
type FPSPoint struct {
	RunID     string
	CreatedAt time.Time
	FpsA      float64
	FpsB      float64
}

// TrendPoint is one historical reading of a single function's comparison row.
type TrendPoint struct {
	RunID       string
	CreatedAt   time.Time
	DurationA   float64
	DurationB   float64
	PercentDiff float64
}

// Package comparison runs trace comparisons between two capture files and records them.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/profdiff-tui/internal/compare"
	"github.com/j-veylop/profdiff-tui/internal/logger"
	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/trace"
)

// Store persists comparison reports.
type Store interface {
	InsertComparison(report *models.ComparisonReport) error
}

// Config holds configuration for the comparison service.
type Config struct {
	FPSFunction         string
	Division            compare.DivisionPolicy
	RegressionThreshold float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FPSFunction:         compare.DefaultFPSFunction,
		Division:            compare.DivisionSkip,
		RegressionThreshold: 5,
	}
}

// Service compares capture files and remembers the most recent result.
type Service struct {
	store  Store
	config Config
	newID  func() string
	now    func() time.Time

	mu   sync.RWMutex
	last *models.ComparisonReport
}

// New creates a comparison service. A nil store disables persistence.
func New(store Store, config Config) *Service {
	if config.FPSFunction == "" {
		config.FPSFunction = compare.DefaultFPSFunction
	}
	return &Service{
		store:  store,
		config: config,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Config returns the active configuration.
func (s *Service) Config() Config {
	return s.config
}

// Last returns the most recent successful comparison, or nil.
func (s *Service) Last() *models.ComparisonReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// LoadSummary reads and summarizes one capture file.
func LoadSummary(path string) (*models.TraceSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	summary, err := trace.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if summary.Diagnostics.HasSkips() {
		logger.Warn("skipped malformed trace entries",
			"path", path,
			"branches", len(summary.Diagnostics.SkippedBranches),
			"invocations", summary.Diagnostics.SkippedInvocations,
		)
	}
	return summary, nil
}

// CompareFiles loads both captures, compares them and stores the report.
func (s *Service) CompareFiles(ctx context.Context, baselinePath, candidatePath string) (*models.ComparisonReport, error) {
	baseline, err := LoadSummary(baselinePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidate, err := LoadSummary(candidatePath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.CompareSummaries(baselinePath, candidatePath, baseline, candidate)
}

// CompareSummaries compares two already parsed captures and stores the report.
// A missing FPS function is not fatal: the report carries the reason instead.
func (s *Service) CompareSummaries(baselinePath, candidatePath string, baseline, candidate *models.TraceSummary) (*models.ComparisonReport, error) {
	if baseline == nil || candidate == nil {
		return nil, errors.New("both summaries are required")
	}

	result, err := compare.CompareDetailed(baseline.Functions, candidate.Functions, compare.Options{
		Division: s.config.Division,
	})
	if err != nil {
		return nil, err
	}

	report := &models.ComparisonReport{
		RunID:         s.newID(),
		CreatedAt:     s.now(),
		BaselinePath:  baselinePath,
		CandidatePath: candidatePath,
		Baseline:      baseline,
		Candidate:     candidate,
		Comparison:    result,
		Regressions:   len(result.Regressions(s.config.RegressionThreshold)),
	}

	fps, err := compare.CompareFPS(baseline.Functions, candidate.Functions, s.config.FPSFunction)
	switch {
	case err == nil:
		report.FPS = &fps
	case errors.Is(err, compare.ErrFunctionNotFound):
		report.FPSError = err.Error()
		logger.Warn("fps estimate unavailable", "function", s.config.FPSFunction, "error", err)
	default:
		return nil, err
	}

	if s.store != nil {
		if err := s.store.InsertComparison(report); err != nil {
			// History is best effort.
			logger.Error("failed to store comparison", "run_id", report.RunID, "error", err)
		}
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	logger.Info("comparison finished",
		"run_id", report.RunID,
		"matched", len(result.Rows),
		"regressions", report.Regressions,
	)
	return report, nil
}

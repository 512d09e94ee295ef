// Package compare joins two per-function summary tables and derives the
// percentage difference and frame-rate verdict between two runs.
package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

var (
	// ErrDivisionUndefined is returned when a matched function has a zero baseline duration.
	ErrDivisionUndefined = errors.New("percent difference undefined for zero baseline duration")

	// ErrFunctionNotFound is returned when a requested function is absent from a summary set.
	ErrFunctionNotFound = errors.New("function not found")
)

// DivisionPolicy decides what happens to a row whose baseline duration is zero.
type DivisionPolicy int

const (
	// DivisionFail aborts the comparison with ErrDivisionUndefined.
	DivisionFail DivisionPolicy = iota
	// DivisionSkip drops the row and lists the function as undefined.
	DivisionSkip
	// DivisionNaN keeps the row with a NaN percent difference.
	DivisionNaN
)

// String returns the configuration name of the policy.
func (p DivisionPolicy) String() string {
	switch p {
	case DivisionSkip:
		return "skip"
	case DivisionNaN:
		return "nan"
	default:
		return "fail"
	}
}

// ParseDivisionPolicy reads a policy name as used in configuration.
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail", "error":
		return DivisionFail, nil
	case "skip":
		return DivisionSkip, nil
	case "nan":
		return DivisionNaN, nil
	default:
		return DivisionFail, fmt.Errorf("unknown division policy %q (want fail, skip or nan)", s)
	}
}

// Options controls a comparison.
type Options struct {
	Division DivisionPolicy
}

// Compare returns one row per function present in both a and b, sorted by name.
func Compare(a, b models.SummarySet, opts Options) ([]models.ComparisonRow, error) {
	c, err := CompareDetailed(a, b, opts)
	if err != nil {
		return nil, err
	}
	return c.Rows, nil
}

// CompareDetailed is Compare plus the names that did not produce a row.
func CompareDetailed(a, b models.SummarySet, opts Options) (*models.Comparison, error) {
	indexA := a.Index()
	indexB := b.Index()
	result := &models.Comparison{}

	for _, name := range sortedNames(indexA) {
		sa := indexA[name]
		sb, ok := indexB[name]
		if !ok {
			result.OnlyInA = append(result.OnlyInA, name)
			continue
		}

		row, err := compareRow(sa, sb)
		if err != nil {
			switch opts.Division {
			case DivisionSkip:
				result.Undefined = append(result.Undefined, name)
				continue
			case DivisionNaN:
				result.Undefined = append(result.Undefined, name)
			default:
				return nil, err
			}
		}
		result.Rows = append(result.Rows, row)
	}

	for _, name := range sortedNames(indexB) {
		if _, ok := indexA[name]; !ok {
			result.OnlyInB = append(result.OnlyInB, name)
		}
	}

	return result, nil
}

// compareRow computes the row for one matched function. On a zero baseline
// the row is returned with a NaN difference alongside the error.
func compareRow(a, b models.FunctionSummary) (models.ComparisonRow, error) {
	row := models.ComparisonRow{
		Function:  a.Name,
		DurationA: a.MeanDuration,
		DurationB: b.MeanDuration,
	}
	if a.MeanDuration == 0 {
		row.PercentDiff = math.NaN()
		row.Indicator = models.IndicatorWorse
		return row, fmt.Errorf("%w: %s", ErrDivisionUndefined, a.Name)
	}
	row.PercentDiff = PercentDiff(a.MeanDuration, b.MeanDuration)
	row.Indicator = models.IndicatorFor(row.PercentDiff)
	return row, nil
}

// PercentDiff is (a - b) / a * 100. Positive means b is faster.
func PercentDiff(a, b float64) float64 {
	return (a - b) / a * 100
}

func sortedNames(index map[string]models.FunctionSummary) []string {
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

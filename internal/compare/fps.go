package compare

import (
	"fmt"
	"math"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

// DefaultFPSFunction is the per-frame function traced by the renderer.
const DefaultFPSFunction = "DrawFrame"

// EstimateFPS converts the mean duration of a function into frames per second.
// A zero duration yields +Inf.
func EstimateFPS(set models.SummarySet, function string) (float64, error) {
	fs, ok := set.Find(function)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrFunctionNotFound, function)
	}
	return FPSFromDuration(fs.MeanDuration), nil
}

// FPSFromDuration converts a frame duration in microseconds to frames per second.
func FPSFromDuration(micros float64) float64 {
	ms := micros / 1000
	if ms == 0 {
		return math.Inf(1)
	}
	return 1000 / ms
}

// CompareFPS estimates the frame rate of both runs and picks the faster one.
func CompareFPS(a, b models.SummarySet, function string) (models.FpsResult, error) {
	fpsA, err := EstimateFPS(a, function)
	if err != nil {
		return models.FpsResult{}, fmt.Errorf("baseline: %w", err)
	}
	fpsB, err := EstimateFPS(b, function)
	if err != nil {
		return models.FpsResult{}, fmt.Errorf("candidate: %w", err)
	}

	result := models.FpsResult{
		Function: function,
		FpsA:     fpsA,
		FpsB:     fpsB,
		Winner:   models.WinnerTie,
	}
	switch {
	case fpsA > fpsB:
		result.Winner = models.WinnerA
	case fpsB > fpsA:
		result.Winner = models.WinnerB
	}
	return result, nil
}

package components

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Comparing")

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Comparing") {
		t.Error("ViewWithLabel missing label")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	if view := RenderSpinnerCentered(s, 20, 5); view == "" {
		t.Error("RenderSpinnerCentered returned empty")
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Test"); s == "" {
		t.Error("RenderLineChart returned empty")
	}

	s := RenderLineChart([]float64{math.NaN(), math.Inf(1)}, 20, 5, "Test")
	if !strings.Contains(s, "No data") {
		t.Errorf("expected placeholder for non-finite data, got %q", s)
	}
}

func TestRenderFPSTrend(t *testing.T) {
	now := time.Now()
	points := []models.FPSPoint{
		{RunID: "1", CreatedAt: now, FpsA: 60, FpsB: 58},
		{RunID: "2", CreatedAt: now, FpsA: math.Inf(1), FpsB: 61},
		{RunID: "3", CreatedAt: now, FpsA: 59, FpsB: 62},
	}
	s := RenderFPSTrend(points, 40, 5, "fps")
	if s == "" || strings.Contains(s, "No FPS history") {
		t.Errorf("RenderFPSTrend = %q", s)
	}

	single := RenderFPSTrend(points[:1], 40, 5, "fps")
	if strings.Contains(single, "No FPS history") {
		t.Error("a single reading should still plot")
	}

	if s := RenderFPSTrend(nil, 40, 5, ""); !strings.Contains(s, "No FPS history") {
		t.Errorf("empty history = %q", s)
	}
}

func TestRenderDiffBars(t *testing.T) {
	rows := []models.ComparisonRow{
		{Function: "Draw", PercentDiff: 50, Indicator: models.IndicatorBetter},
		{Function: "Update", PercentDiff: -25, Indicator: models.IndicatorWorse},
		{Function: "Zero", PercentDiff: math.NaN(), Indicator: models.IndicatorWorse},
	}
	s := RenderDiffBars(rows, 60, 5)
	lines := strings.Split(s, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "+50.0%") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "-25.0%") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "n/a") {
		t.Errorf("line 2 = %q", lines[2])
	}

	// Bars are scaled so the longer one belongs to the larger magnitude.
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("larger difference should have the longer bar")
	}

	if RenderDiffBars(nil, 60, 5) != "" {
		t.Error("expected empty output for no rows")
	}
}

func TestRenderDiffBars_WideLabelsAligned(t *testing.T) {
	rows := []models.ComparisonRow{
		{Function: "Ζωγραφική", PercentDiff: 40, Indicator: models.IndicatorBetter},
		{Function: "Draw", PercentDiff: -20, Indicator: models.IndicatorWorse},
		{Function: "描画", PercentDiff: 10, Indicator: models.IndicatorBetter},
	}

	lines := strings.Split(RenderDiffBars(rows, 60, 5), "\n")
	if len(lines) != len(rows) {
		t.Fatalf("expected %d lines, got %d", len(rows), len(lines))
	}

	axisColumn := -1
	for i, line := range lines {
		idx := strings.Index(line, "│")
		if idx < 0 {
			t.Fatalf("line %d has no axis: %q", i, line)
		}
		col := lipgloss.Width(line[:idx])
		if axisColumn < 0 {
			axisColumn = col
		} else if col != axisColumn {
			t.Errorf("line %d axis at column %d, want %d", i, col, axisColumn)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	s := RenderSparkline([]float64{-10, 0, 10}, 10)
	if len([]rune(s)) != 3 {
		t.Fatalf("sparkline = %q, want 3 chars", s)
	}
	r := []rune(s)
	if r[0] != '▁' || r[2] != '█' {
		t.Errorf("sparkline = %q, want low to high", s)
	}

	if got := len([]rune(RenderSparkline(make([]float64, 100), 10))); got != 10 {
		t.Errorf("sampled width = %d, want 10", got)
	}
	if RenderSparkline(nil, 10) != "" {
		t.Error("expected empty sparkline")
	}
}

func TestRenderLegend(t *testing.T) {
	items := []LegendItem{
		{Label: "A", Color: lipgloss.Color("#ffffff")},
		{Label: "B", Color: lipgloss.Color("#000000")},
	}
	s := RenderLegend(items)
	if !strings.Contains(s, "A") || !strings.Contains(s, "B") {
		t.Errorf("RenderLegend = %q", s)
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"micros", FormatMicros(1234567.5), "1,234,567.5"},
		{"percent", FormatPercent(66.6666), "+66.67%"},
		{"negative percent", FormatPercent(-5), "-5.00%"},
		{"nan percent", FormatPercent(math.NaN()), "n/a"},
		{"fps", FormatFPS(333.3333), "333.33"},
		{"infinite fps", FormatFPS(math.Inf(1)), "∞"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestRenderComparisonTable(t *testing.T) {
	rows := []models.ComparisonRow{
		{Function: "Draw", DurationA: 3000, DurationB: 1000, PercentDiff: 66.67, Indicator: models.IndicatorBetter},
		{Function: "Update", DurationA: 100, DurationB: 200, PercentDiff: -100, Indicator: models.IndicatorWorse},
	}
	s := RenderComparisonTable(rows, 80, 5, 1)
	for _, want := range []string{"Function", "Draw", "Update", "3,000", "BETTER", "WORSE", "-100.00%"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}

	if s := RenderComparisonTable(nil, 80, 5, -1); !strings.Contains(s, "No functions") {
		t.Errorf("empty table = %q", s)
	}
}

func TestComparisonCells(t *testing.T) {
	cells := ComparisonCells([]models.ComparisonRow{
		{Function: "f", DurationA: 10, DurationB: 5, PercentDiff: 50, Indicator: models.IndicatorBetter},
	})
	if len(cells) != 1 || len(cells[0]) != len(ComparisonHeaders) {
		t.Fatalf("cells = %v", cells)
	}
	if cells[0][4] != "BETTER" {
		t.Errorf("indicator cell = %q", cells[0][4])
	}
}

func TestRelativeFPS(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name      string
		fps, a, b float64
		want      float64
	}{
		{"faster", 60, 60, 30, 1},
		{"slower", 30, 60, 30, 0.5},
		{"infinite self", inf, inf, 30, 1},
		{"infinite other", 30, inf, 30, 0},
		{"zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeFPS(tt.fps, tt.a, tt.b); got != tt.want {
				t.Errorf("RelativeFPS = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFPSBar_View(t *testing.T) {
	bar := NewFPSBar()
	s := bar.View(models.FpsResult{Function: "DrawFrame", FpsA: 60, FpsB: 30, Winner: models.WinnerA}, 60)
	if !strings.Contains(s, "baseline") || !strings.Contains(s, "candidate") {
		t.Errorf("View missing labels:\n%s", s)
	}
	if !strings.Contains(s, "60.00") || !strings.Contains(s, "30.00") {
		t.Errorf("View missing values:\n%s", s)
	}
}

func TestFPSBar_ViewFollowsWidth(t *testing.T) {
	bar := NewFPSBar()
	result := models.FpsResult{FpsA: 60, FpsB: 30, Winner: models.WinnerA}

	lineWidth := func(width int) int {
		first := strings.Split(bar.View(result, width), "\n")[0]
		return lipgloss.Width(first)
	}

	narrow, wide := lineWidth(60), lineWidth(80)
	if wide-narrow != 20 {
		t.Errorf("line widths %d and %d, want the bar to grow by 20", narrow, wide)
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		result models.FpsResult
		want   string
	}{
		{models.FpsResult{FpsA: 60, FpsB: 30, Winner: models.WinnerA}, "A 60.00 fps"},
		{models.FpsResult{FpsA: 30, FpsB: 60, Winner: models.WinnerB}, "B 60.00 fps"},
		{models.FpsResult{FpsA: 45, FpsB: 45, Winner: models.WinnerTie}, "45.00 fps"},
	}

	for _, tt := range tests {
		if got := Verdict(tt.result); !strings.Contains(got, tt.want) {
			t.Errorf("Verdict(%v) = %q, want to contain %q", tt.result.Winner, got, tt.want)
		}
	}
}

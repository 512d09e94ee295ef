package models

import (
	"math"
	"testing"
	"time"
)

func TestIndicatorFor(t *testing.T) {
	tests := []struct {
		name string
		pd   float64
		want Indicator
	}{
		{"Faster", 12.5, IndicatorBetter},
		{"Slower", -3, IndicatorWorse},
		{"Unchanged", 0, IndicatorWorse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndicatorFor(tt.pd); got != tt.want {
				t.Errorf("IndicatorFor(%v) = %v, want %v", tt.pd, got, tt.want)
			}
		})
	}
}

func TestIndicator_Symbol(t *testing.T) {
	if got := IndicatorBetter.Symbol(); got != "<<" {
		t.Errorf("BETTER symbol = %q", got)
	}
	if got := IndicatorWorse.Symbol(); got != ">>" {
		t.Errorf("WORSE symbol = %q", got)
	}
}

func TestComparison_Regressions(t *testing.T) {
	c := &Comparison{Rows: []ComparisonRow{
		{Function: "A", PercentDiff: -10},
		{Function: "B", PercentDiff: -5},
		{Function: "C", PercentDiff: 3},
		{Function: "D", PercentDiff: math.NaN()},
	}}

	got := c.Regressions(5)
	if len(got) != 1 || got[0].Function != "A" {
		t.Errorf("Regressions(5) = %v, want [A]", got)
	}
	if !c.Rows[3].IsUndefined() {
		t.Error("NaN row should be undefined")
	}

	var nilComparison *Comparison
	if !nilComparison.Empty() || nilComparison.Regressions(0) != nil {
		t.Error("nil comparison should be empty")
	}
}

func TestComparisonReport_HasRegression(t *testing.T) {
	tests := []struct {
		name   string
		report *ComparisonReport
		want   bool
	}{
		{"Nil", nil, false},
		{"Clean", &ComparisonReport{}, false},
		{"SlowRows", &ComparisonReport{Regressions: 2}, true},
		{"BaselineWinsFPS", &ComparisonReport{FPS: &FpsResult{Winner: WinnerA}}, true},
		{"CandidateWinsFPS", &ComparisonReport{FPS: &FpsResult{Winner: WinnerB}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.HasRegression(); got != tt.want {
				t.Errorf("HasRegression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarySet_Find(t *testing.T) {
	set := SummarySet{{Name: "Audio"}, {Name: "DrawFrame", MeanDuration: 16000}, {Name: "Update"}}

	fs, ok := set.Find("DrawFrame")
	if !ok || fs.MeanDuration != 16000 {
		t.Errorf("Find(DrawFrame) = %+v, %v", fs, ok)
	}
	if _, ok := set.Find("Missing"); ok {
		t.Error("Find(Missing) should fail")
	}

	unsorted := SummarySet{{Name: "Z"}, {Name: "A"}}
	if _, ok := unsorted.Find("A"); !ok {
		t.Error("Find should work on unsorted sets")
	}

	if names := set.Names(); len(names) != 3 || names[0] != "Audio" {
		t.Errorf("Names() = %v", names)
	}
	if idx := set.Index(); len(idx) != 3 {
		t.Errorf("Index() has %d entries", len(idx))
	}
}

func TestTraceSummary_InvocationCount(t *testing.T) {
	var nilSummary *TraceSummary
	if nilSummary.InvocationCount() != 0 {
		t.Error("nil summary should count zero")
	}

	s := &TraceSummary{Functions: SummarySet{{Invocations: 3}, {Invocations: 4}}}
	if got := s.InvocationCount(); got != 7 {
		t.Errorf("InvocationCount() = %d, want 7", got)
	}
}

func TestDiagnostics_HasSkips(t *testing.T) {
	if (Diagnostics{}).HasSkips() {
		t.Error("empty diagnostics should have no skips")
	}
	if !(Diagnostics{SkippedInvocations: 1}).HasSkips() {
		t.Error("skipped invocation not reported")
	}
	if !(Diagnostics{SkippedBranches: []string{"x"}}).HasSkips() {
		t.Error("skipped branch not reported")
	}
}

func TestProfileIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"profile_Data_0007.json", 7},
		{"profile_Data_1234.json", 1234},
		{"baseline.json", -1},
		{"profile_Data_0007.txt", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProfileIndex(tt.name); got != tt.want {
				t.Errorf("ProfileIndex(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestProfileFile_Less(t *testing.T) {
	now := time.Now()
	a := NewProfileFile("/c/profile_Data_0001.json", 10, now)
	b := NewProfileFile("/c/profile_Data_0002.json", 10, now.Add(-time.Hour))
	if !a.Less(b) {
		t.Error("lower index should sort first")
	}

	x := NewProfileFile("/c/x.json", 10, now.Add(-time.Minute))
	y := NewProfileFile("/c/y.json", 10, now)
	if !x.Less(y) || y.Less(x) {
		t.Error("older capture should sort first when unindexed")
	}
	if a.Name != "profile_Data_0001.json" || a.Index != 1 {
		t.Errorf("NewProfileFile = %+v", a)
	}
}

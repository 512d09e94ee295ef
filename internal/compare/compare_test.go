package compare

import (
	"errors"
	"math"
	"testing"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/trace"
)

func set(pairs ...any) models.SummarySet {
	var s models.SummarySet
	for i := 0; i < len(pairs); i += 2 {
		s = append(s, models.FunctionSummary{
			Name:         pairs[i].(string),
			MeanDuration: pairs[i+1].(float64),
			Invocations:  1,
		})
	}
	return s
}

func TestCompare_DrawSlowdown(t *testing.T) {
	a, err := trace.Parse([]byte(`{"Draw": {"1": {"invocations": [{"duration": 2000}, {"duration": 4000}]}}}`))
	if err != nil {
		t.Fatalf("Parse(A) failed: %v", err)
	}
	b, err := trace.Parse([]byte(`{"Draw": {"1": {"invocations": [{"duration": 1000}]}}}`))
	if err != nil {
		t.Fatalf("Parse(B) failed: %v", err)
	}

	rows, err := Compare(a.Functions, b.Functions, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.DurationA != 3000 || row.DurationB != 1000 {
		t.Errorf("durations = %v/%v, want 3000/1000", row.DurationA, row.DurationB)
	}
	if math.Abs(row.PercentDiff-66.6666666667) > 1e-6 {
		t.Errorf("PercentDiff = %v, want ~66.67", row.PercentDiff)
	}
	if row.Indicator != models.IndicatorBetter {
		t.Errorf("Indicator = %v, want BETTER", row.Indicator)
	}

	fps, err := CompareFPS(a.Functions, b.Functions, "Draw")
	if err != nil {
		t.Fatalf("CompareFPS() failed: %v", err)
	}
	if math.Abs(fps.FpsA-1000.0/3) > 1e-9 {
		t.Errorf("FpsA = %v, want ~333.33", fps.FpsA)
	}
	if fps.FpsB != 1000 {
		t.Errorf("FpsB = %v, want 1000", fps.FpsB)
	}
	if fps.Winner != models.WinnerB {
		t.Errorf("Winner = %v, want B", fps.Winner)
	}
}

func TestCompare_InnerJoin(t *testing.T) {
	a := set("Draw", 10.0, "OnlyA", 5.0, "Update", 4.0)
	b := set("Draw", 20.0, "OnlyB", 1.0, "Update", 2.0)

	c, err := CompareDetailed(a, b, Options{})
	if err != nil {
		t.Fatalf("CompareDetailed() failed: %v", err)
	}

	if len(c.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(c.Rows))
	}
	if len(c.Rows) > min(len(a), len(b)) {
		t.Error("join produced more rows than the smaller input")
	}
	for _, r := range c.Rows {
		if r.Function == "OnlyA" || r.Function == "OnlyB" {
			t.Errorf("unmatched function %s in output", r.Function)
		}
	}
	if len(c.OnlyInA) != 1 || c.OnlyInA[0] != "OnlyA" {
		t.Errorf("OnlyInA = %v", c.OnlyInA)
	}
	if len(c.OnlyInB) != 1 || c.OnlyInB[0] != "OnlyB" {
		t.Errorf("OnlyInB = %v", c.OnlyInB)
	}
}

func TestCompare_SortedByFunction(t *testing.T) {
	a := set("zeta", 1.0, "alpha", 1.0, "mid", 1.0)
	b := set("mid", 1.0, "zeta", 1.0, "alpha", 1.0)

	rows, err := Compare(a, b, Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, r := range rows {
		if r.Function != want[i] {
			t.Errorf("rows[%d] = %s, want %s", i, r.Function, want[i])
		}
	}
}

func TestCompare_PercentDiffFormula(t *testing.T) {
	tests := []struct {
		a, b float64
	}{
		{100, 50},
		{50, 100},
		{3, 3},
		{0.5, 12.25},
		{1e6, 1},
	}

	for _, tt := range tests {
		rows, err := Compare(set("f", tt.a), set("f", tt.b), Options{})
		if err != nil {
			t.Fatalf("Compare() failed: %v", err)
		}
		want := (tt.a - tt.b) / tt.a * 100
		if math.Abs(rows[0].PercentDiff-want) > 1e-9 {
			t.Errorf("PercentDiff(%v, %v) = %v, want %v", tt.a, tt.b, rows[0].PercentDiff, want)
		}
		wantInd := models.IndicatorWorse
		if want > 0 {
			wantInd = models.IndicatorBetter
		}
		if rows[0].Indicator != wantInd {
			t.Errorf("Indicator(%v, %v) = %v, want %v", tt.a, tt.b, rows[0].Indicator, wantInd)
		}
	}
}

func TestCompare_ZeroDiffIsWorse(t *testing.T) {
	rows, err := Compare(set("f", 42.0), set("f", 42.0), Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	if rows[0].PercentDiff != 0 {
		t.Errorf("PercentDiff = %v, want 0", rows[0].PercentDiff)
	}
	if rows[0].Indicator != models.IndicatorWorse {
		t.Errorf("Indicator = %v, want WORSE for an exact tie", rows[0].Indicator)
	}
}

func TestCompare_DivisionUndefined(t *testing.T) {
	a := set("Zero", 0.0, "Draw", 10.0)
	b := set("Zero", 5.0, "Draw", 5.0)

	t.Run("Fail", func(t *testing.T) {
		_, err := Compare(a, b, Options{Division: DivisionFail})
		if !errors.Is(err, ErrDivisionUndefined) {
			t.Fatalf("err = %v, want ErrDivisionUndefined", err)
		}
	})

	t.Run("Skip", func(t *testing.T) {
		c, err := CompareDetailed(a, b, Options{Division: DivisionSkip})
		if err != nil {
			t.Fatalf("CompareDetailed() failed: %v", err)
		}
		if len(c.Rows) != 1 || c.Rows[0].Function != "Draw" {
			t.Errorf("rows = %+v, want only Draw", c.Rows)
		}
		if len(c.Undefined) != 1 || c.Undefined[0] != "Zero" {
			t.Errorf("Undefined = %v, want [Zero]", c.Undefined)
		}
	})

	t.Run("NaN", func(t *testing.T) {
		c, err := CompareDetailed(a, b, Options{Division: DivisionNaN})
		if err != nil {
			t.Fatalf("CompareDetailed() failed: %v", err)
		}
		if len(c.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(c.Rows))
		}
		zero := c.Rows[1]
		if zero.Function != "Zero" || !zero.IsUndefined() {
			t.Errorf("row = %+v, want NaN row for Zero", zero)
		}
		if zero.Indicator != models.IndicatorWorse {
			t.Errorf("Indicator = %v, want WORSE", zero.Indicator)
		}
	})
}

func TestCompare_ZeroCandidateDuration(t *testing.T) {
	// A zero duration on the candidate side is fine.
	rows, err := Compare(set("f", 10.0), set("f", 0.0), Options{})
	if err != nil {
		t.Fatalf("Compare() failed: %v", err)
	}
	if rows[0].PercentDiff != 100 {
		t.Errorf("PercentDiff = %v, want 100", rows[0].PercentDiff)
	}
}

func TestCompare_NoMatchingFunctions(t *testing.T) {
	c, err := CompareDetailed(set("a", 1.0), set("b", 1.0), Options{})
	if err != nil {
		t.Fatalf("an empty join is not an error: %v", err)
	}
	if !c.Empty() {
		t.Error("Empty() = false, want true")
	}

	c, err = CompareDetailed(nil, nil, Options{})
	if err != nil || !c.Empty() {
		t.Errorf("nil sets: err=%v empty=%v", err, c.Empty())
	}
}

func TestComparison_Regressions(t *testing.T) {
	c, err := CompareDetailed(
		set("a", 100.0, "b", 100.0, "c", 100.0),
		set("a", 104.0, "b", 120.0, "c", 50.0),
		Options{},
	)
	if err != nil {
		t.Fatalf("CompareDetailed() failed: %v", err)
	}

	regs := c.Regressions(5)
	if len(regs) != 1 || regs[0].Function != "b" {
		t.Errorf("Regressions(5) = %+v, want only b", regs)
	}
}

func TestParseDivisionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DivisionPolicy
		wantErr bool
	}{
		{"fail", DivisionFail, false},
		{"ERROR", DivisionFail, false},
		{" skip ", DivisionSkip, false},
		{"nan", DivisionNaN, false},
		{"ignore", DivisionFail, true},
	}

	for _, tt := range tests {
		got, err := ParseDivisionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDivisionPolicy(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDivisionPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() == "" {
			t.Errorf("String() empty for %v", got)
		}
	}
}

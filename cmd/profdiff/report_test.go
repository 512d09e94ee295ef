package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

func TestWriteReport(t *testing.T) {
	report := &models.ComparisonReport{
		BaselinePath:  "a.json",
		CandidatePath: "b.json",
		Comparison: &models.Comparison{
			Rows: []models.ComparisonRow{
				{Function: "DrawFrame", DurationA: 100, DurationB: 80, PercentDiff: 20, Indicator: models.IndicatorBetter},
				{Function: "Update", DurationA: 10, DurationB: 12, PercentDiff: -20, Indicator: models.IndicatorWorse},
				{Function: "Idle", PercentDiff: math.NaN(), Indicator: models.IndicatorWorse},
			},
			OnlyInA: []string{"Legacy"},
			OnlyInB: []string{"NewThing"},
		},
		FPS:         &models.FpsResult{Function: "DrawFrame", FpsA: 10000, FpsB: 12500, Winner: models.WinnerB},
		Regressions: 1,
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, report, 5); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"A (baseline):  a.json",
		"<< BETTER",
		">> WORSE",
		"+20.00%",
		"-20.00%",
		"n/a",
		"Only in A: Legacy",
		"Only in B: NewThing",
		"Regressions (> 5.0% slower): 1",
		"FPS (DrawFrame): A 10000.00, B 12500.00, winner B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestWriteReport_Empty(t *testing.T) {
	report := &models.ComparisonReport{
		Comparison: &models.Comparison{OnlyInA: []string{"X"}},
		FPSError:   `function "DrawFrame" not found`,
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, report, 5); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No functions in common.") {
		t.Errorf("empty report should say so:\n%s", out)
	}
	if !strings.Contains(out, "FPS: function") {
		t.Errorf("report should carry the FPS error:\n%s", out)
	}
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("LOG_PATH", filepath.Join(dir, "profdiff.log"))
	t.Setenv("DIVISION_POLICY", "skip")

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `{"DrawFrame": {"1": {"invocations": [{"duration": 100}]}}}`)
	writeFile(t, b, `{"DrawFrame": {"1": {"invocations": [{"duration": 50}]}}}`)

	var buf bytes.Buffer
	if err := runReport(&buf, a, b); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if !strings.Contains(buf.String(), "+50.00%") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}

	if err := runReport(&buf, a, filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing capture should fail")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

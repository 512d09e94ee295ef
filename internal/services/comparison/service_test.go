package comparison

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/profdiff-tui/internal/compare"
	"github.com/j-veylop/profdiff-tui/internal/db"
	"github.com/j-veylop/profdiff-tui/internal/models"
)

type fakeStore struct {
	reports []*models.ComparisonReport
	err     error
}

func (f *fakeStore) InsertComparison(r *models.ComparisonReport) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

func writeTrace(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

const (
	baselineTrace = `{
		"System": {"Build": "debug"},
		"DrawFrame": {"1": {"invocations": [{"duration": 2000}, {"duration": 4000}]}},
		"Update": {"1": {"invocations": [{"duration": 100}]}},
		"Physics": {"World": {"1": {"invocations": [{"duration": 500}]}}}
	}`
	candidateTrace = `{
		"DrawFrame": {"Main": {"1": {"invocations": [{"duration": 1000}]}}},
		"Update": {"1": {"invocations": [{"duration": 150}]}},
		"Audio": {"1": {"invocations": [{"duration": 10}]}}
	}`
)

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTrace(t, dir, "profile_Data_0001.json", baselineTrace)
	b := writeTrace(t, dir, "profile_Data_0002.json", candidateTrace)

	store := &fakeStore{}
	svc := New(store, DefaultConfig())
	svc.newID = func() string { return "run-1" }
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report, err := svc.CompareFiles(context.Background(), a, b)
	if err != nil {
		t.Fatalf("CompareFiles() failed: %v", err)
	}

	if report.RunID != "run-1" || !report.CreatedAt.Equal(fixed) {
		t.Errorf("identity = %s @ %v", report.RunID, report.CreatedAt)
	}
	if len(report.Comparison.Rows) != 2 {
		t.Fatalf("rows = %+v, want DrawFrame and Update", report.Comparison.Rows)
	}
	if report.Comparison.Rows[0].Function != "DrawFrame" || report.Comparison.Rows[0].Indicator != models.IndicatorBetter {
		t.Errorf("DrawFrame row = %+v", report.Comparison.Rows[0])
	}
	if report.Comparison.Rows[1].PercentDiff != -50 {
		t.Errorf("Update diff = %v, want -50", report.Comparison.Rows[1].PercentDiff)
	}
	if report.Regressions != 1 {
		t.Errorf("Regressions = %d, want 1", report.Regressions)
	}
	if report.FPS == nil || report.FPS.Winner != models.WinnerB {
		t.Errorf("FPS = %+v, want B to win", report.FPS)
	}
	if report.Baseline.Metadata["Build"] != "debug" {
		t.Errorf("baseline metadata = %v", report.Baseline.Metadata)
	}
	if len(store.reports) != 1 || store.reports[0] != report {
		t.Error("report was not stored")
	}
	if svc.Last() != report {
		t.Error("Last() does not return the new report")
	}
}

func TestCompareFiles_MissingFPSFunction(t *testing.T) {
	dir := t.TempDir()
	a := writeTrace(t, dir, "a.json", `{"Update": {"1": {"invocations": [{"duration": 100}]}}}`)
	b := writeTrace(t, dir, "b.json", `{"Update": {"1": {"invocations": [{"duration": 80}]}}}`)

	svc := New(nil, DefaultConfig())
	report, err := svc.CompareFiles(context.Background(), a, b)
	if err != nil {
		t.Fatalf("CompareFiles() failed: %v", err)
	}
	if report.FPS != nil {
		t.Errorf("FPS = %+v, want nil", report.FPS)
	}
	if report.FPSError == "" {
		t.Error("FPSError should explain the missing function")
	}
	if len(report.Comparison.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(report.Comparison.Rows))
	}
}

func TestCompareFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeTrace(t, dir, "good.json", baselineTrace)
	bad := writeTrace(t, dir, "bad.json", `{"DrawFrame":`)

	svc := New(nil, DefaultConfig())

	if _, err := svc.CompareFiles(context.Background(), filepath.Join(dir, "missing.json"), good); err == nil {
		t.Error("missing baseline should fail")
	}
	if _, err := svc.CompareFiles(context.Background(), good, bad); err == nil {
		t.Error("malformed candidate should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.CompareFiles(ctx, good, good); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if svc.Last() != nil {
		t.Error("failed comparisons must not replace Last()")
	}
}

func TestCompareFiles_DivisionFail(t *testing.T) {
	dir := t.TempDir()
	a := writeTrace(t, dir, "a.json", `{"Idle": {"1": {"invocations": [{"duration": 0}]}}}`)
	b := writeTrace(t, dir, "b.json", `{"Idle": {"1": {"invocations": [{"duration": 3}]}}}`)

	cfg := DefaultConfig()
	cfg.Division = compare.DivisionFail
	svc := New(nil, cfg)

	if _, err := svc.CompareFiles(context.Background(), a, b); !errors.Is(err, compare.ErrDivisionUndefined) {
		t.Errorf("err = %v, want ErrDivisionUndefined", err)
	}

	svc = New(nil, DefaultConfig())
	report, err := svc.CompareFiles(context.Background(), a, b)
	if err != nil {
		t.Fatalf("skip policy failed: %v", err)
	}
	if len(report.Comparison.Undefined) != 1 {
		t.Errorf("Undefined = %v, want [Idle]", report.Comparison.Undefined)
	}
}

func TestCompareSummaries_StoreFailureIsNotFatal(t *testing.T) {
	svc := New(&fakeStore{err: errors.New("disk full")}, DefaultConfig())

	s := &models.TraceSummary{Functions: models.SummarySet{{Name: "DrawFrame", MeanDuration: 16000, Invocations: 1}}}
	report, err := svc.CompareSummaries("a", "b", s, s)
	if err != nil {
		t.Fatalf("CompareSummaries() failed: %v", err)
	}
	if report.FPS == nil || report.FPS.Winner != models.WinnerTie {
		t.Errorf("FPS = %+v, want tie", report.FPS)
	}
}

func TestCompareSummaries_NilSummary(t *testing.T) {
	svc := New(nil, Config{})
	if _, err := svc.CompareSummaries("a", "b", nil, &models.TraceSummary{}); err == nil {
		t.Error("nil baseline should fail")
	}
	if svc.Config().FPSFunction != compare.DefaultFPSFunction {
		t.Errorf("FPSFunction = %q, want default", svc.Config().FPSFunction)
	}
}

func TestCompareFiles_PersistsToDatabase(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	defer database.Close()

	dir := t.TempDir()
	a := writeTrace(t, dir, "a.json", `{"DrawFrame": {"1": {"invocations": [{"duration": 0}]}}}`)
	b := writeTrace(t, dir, "b.json", `{"DrawFrame": {"1": {"invocations": [{"duration": 20000}]}}}`)

	svc := New(database, DefaultConfig())
	report, err := svc.CompareFiles(context.Background(), a, b)
	if err != nil {
		t.Fatalf("CompareFiles() failed: %v", err)
	}

	rec, err := database.GetComparison(report.RunID)
	if err != nil || rec == nil {
		t.Fatalf("GetComparison() = %v, %v", rec, err)
	}
	if !math.IsInf(rec.FpsA, 1) || rec.FpsB != 50 || rec.Winner != models.WinnerA {
		t.Errorf("record = %+v", rec)
	}
	if rec.Undefined != 1 || rec.Matched != 0 {
		t.Errorf("counts = matched %d undefined %d", rec.Matched, rec.Undefined)
	}
}

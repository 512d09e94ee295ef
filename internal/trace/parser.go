// Package trace turns raw profiler documents into per-function summaries.
//
// A document maps function names to either scope -> instance -> details or
// instance -> details. Every details object holds an "invocations" array whose
// entries carry a "duration" in microseconds. The "System" key is metadata.
// Branches that match neither layout are skipped, never fatal.
package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

const (
	// SystemKey holds non-function metadata and is never summarized.
	SystemKey = "System"

	invocationsKey = "invocations"
	durationKey    = "duration"
	startTimeKey   = "startTime"
)

// Parse decodes a JSON trace document and summarizes it. Numbers are kept as
// json.Number so one unrepresentable duration only drops its own entry.
func Parse(data []byte) (*models.TraceSummary, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode trace document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to decode trace document: trailing data after top-level object")
	}
	return ParseDocument(doc), nil
}

// ParseDocument summarizes an already decoded trace document.
func ParseDocument(doc map[string]any) *models.TraceSummary {
	records, diag := Flatten(doc)
	return &models.TraceSummary{
		Functions:   Summarize(records),
		Metadata:    systemMetadata(doc[SystemKey]),
		Diagnostics: diag,
	}
}

// Flatten walks every recognized branch and returns one record per invocation.
// Records come out ordered by function, scope and instance.
func Flatten(doc map[string]any) ([]models.InvocationRecord, models.Diagnostics) {
	diag := models.Diagnostics{Shapes: make(map[string]string)}
	var records []models.InvocationRecord

	for _, function := range sortedKeys(doc) {
		if function == SystemKey {
			continue
		}
		value := doc[function]
		shape := Classify(value)
		diag.Shapes[function] = shape.String()

		switch shape {
		case ShapeFlat:
			records = appendInstances(records, &diag, function, "", value.(map[string]any))
		case ShapeTwoLevel:
			scopes := value.(map[string]any)
			for _, scope := range sortedKeys(scopes) {
				records = appendInstances(records, &diag, function, scope, scopes[scope].(map[string]any))
			}
		default:
			diag.SkippedBranches = append(diag.SkippedBranches, function)
		}
	}

	return records, diag
}

func appendInstances(
	records []models.InvocationRecord,
	diag *models.Diagnostics,
	function, scope string,
	instances map[string]any,
) []models.InvocationRecord {
	for _, instanceID := range sortedKeys(instances) {
		details := instances[instanceID].(map[string]any)
		invocations, _ := details[invocationsKey].([]any)
		for _, raw := range invocations {
			rec, ok := toRecord(raw)
			if !ok {
				diag.SkippedInvocations++
				continue
			}
			rec.Function = function
			rec.Scope = scope
			rec.InstanceID = instanceID
			records = append(records, rec)
		}
	}
	return records
}

// toRecord reads the duration and optional start time of one invocation entry.
func toRecord(raw any) (models.InvocationRecord, bool) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return models.InvocationRecord{}, false
	}
	duration, ok := toFloat(entry[durationKey])
	if !ok || duration < 0 {
		return models.InvocationRecord{}, false
	}
	rec := models.InvocationRecord{Duration: duration}
	switch start := entry[startTimeKey].(type) {
	case json.Number:
		if n, err := start.Int64(); err == nil {
			rec.StartTime = n
		} else if f, ok := toFloat(start); ok {
			rec.StartTime = int64(f)
		}
	case float64:
		rec.StartTime = int64(start)
	}
	return rec, true
}

// toFloat accepts decoded JSON numbers of either representation. Values that
// do not fit a finite float64 are rejected.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Summarize averages the durations of each function over all of its records.
// The mean is kept as a running average so it stays finite when Total overflows.
func Summarize(records []models.InvocationRecord) models.SummarySet {
	type acc struct {
		summary   models.FunctionSummary
		instances map[string]struct{}
	}
	byName := make(map[string]*acc)

	for _, rec := range records {
		a, ok := byName[rec.Function]
		if !ok {
			a = &acc{
				summary:   models.FunctionSummary{Name: rec.Function, Min: rec.Duration, Max: rec.Duration},
				instances: make(map[string]struct{}),
			}
			byName[rec.Function] = a
		}
		s := &a.summary
		s.Invocations++
		s.Total += rec.Duration
		s.MeanDuration += (rec.Duration - s.MeanDuration) / float64(s.Invocations)
		s.Min = math.Min(s.Min, rec.Duration)
		s.Max = math.Max(s.Max, rec.Duration)
		a.instances[rec.Scope+"\x00"+rec.InstanceID] = struct{}{}
	}

	set := make(models.SummarySet, 0, len(byName))
	for _, a := range byName {
		s := a.summary
		s.Instances = len(a.instances)
		set = append(set, s)
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Name < set[j].Name })
	return set
}

// systemMetadata keeps the scalar values of the System object for display.
func systemMetadata(value any) map[string]string {
	system, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	meta := make(map[string]string, len(system))
	for k, v := range system {
		switch val := v.(type) {
		case string:
			meta[k] = val
		case json.Number:
			meta[k] = val.String()
		case float64:
			meta[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			meta[k] = strconv.FormatBool(val)
		}
	}
	return meta
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

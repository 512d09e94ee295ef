// Package models defines data structures and domain types.
package models

import "sort"

// InvocationRecord is one measured call, flattened out of a trace document.
type InvocationRecord struct {
	Function   string
	Scope      string // empty for flat documents
	InstanceID string
	Duration   float64 // microseconds
	StartTime  int64
}

// FunctionSummary aggregates every invocation of one function in a document.
type FunctionSummary struct {
	Name         string
	MeanDuration float64 // microseconds
	Invocations  int
	Instances    int
	Min          float64
	Max          float64
	Total        float64
}

// SummarySet is a per-function summary table, sorted by function name.
type SummarySet []FunctionSummary

// Find returns the summary for the named function.
func (s SummarySet) Find(name string) (FunctionSummary, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Name >= name })
	if i < len(s) && s[i].Name == name {
		return s[i], true
	}
	// Sets built by hand may not be sorted.
	for _, fs := range s {
		if fs.Name == name {
			return fs, true
		}
	}
	return FunctionSummary{}, false
}

// Names returns the function names in set order.
func (s SummarySet) Names() []string {
	names := make([]string, len(s))
	for i, fs := range s {
		names[i] = fs.Name
	}
	return names
}

// Index returns the set keyed by function name.
func (s SummarySet) Index() map[string]FunctionSummary {
	idx := make(map[string]FunctionSummary, len(s))
	for _, fs := range s {
		idx[fs.Name] = fs
	}
	return idx
}

// Diagnostics records what the parser dropped while reading a document.
type Diagnostics struct {
	SkippedBranches    []string
	SkippedInvocations int
	Shapes             map[string]string
}

// HasSkips reports whether anything in the document was ignored.
func (d Diagnostics) HasSkips() bool {
	return len(d.SkippedBranches) > 0 || d.SkippedInvocations > 0
}

// TraceSummary is the parsed form of one trace document.
type TraceSummary struct {
	Functions   SummarySet
	Metadata    map[string]string
	Diagnostics Diagnostics
}

// InvocationCount returns the number of invocations across all functions.
func (t *TraceSummary) InvocationCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, fs := range t.Functions {
		n += fs.Invocations
	}
	return n
}

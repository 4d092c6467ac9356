package domain

import "strings"

// FilterOptions drives the filter/suppression stage.
type FilterOptions struct {
	MinimumSeverity   Severity
	ExcludeCategories map[Category]bool
	Suppressions      []Suppression
	// Baseline holds fingerprints of already-known findings.
	Baseline map[string]bool
}

// FilterStats records how many findings each step removed.
type FilterStats struct {
	Discovered         int `json:"discovered"`
	BelowSeverity      int `json:"below_severity"`
	ExcludedByCategory int `json:"excluded_by_category"`
	Suppressed         int `json:"suppressed"`
	InBaseline         int `json:"in_baseline"`
}

// FilterOutcome is the filtered result plus its statistics.
type FilterOutcome struct {
	Result AnalysisResult
	Stats  FilterStats
}

// ApplyFilters narrows findings by minimum severity, excluded categories,
// exact (case-insensitive) suppression locations and the baseline, in that
// order. Remaining findings keep their order and content.
func ApplyFilters(findings []Finding, opts FilterOptions) FilterOutcome {
	stats := FilterStats{Discovered: len(findings)}

	current := findings
	if opts.MinimumSeverity != "" {
		current = keep(current, func(f Finding) bool { return f.Severity.AtLeast(opts.MinimumSeverity) })
		stats.BelowSeverity = stats.Discovered - len(current)
	}

	if len(opts.ExcludeCategories) > 0 {
		before := len(current)
		current = keep(current, func(f Finding) bool { return !opts.ExcludeCategories[f.Category] })
		stats.ExcludedByCategory = before - len(current)
	}

	if len(opts.Suppressions) > 0 {
		suppressed := make(map[string]bool, len(opts.Suppressions))
		for _, s := range opts.Suppressions {
			suppressed[strings.ToLower(strings.TrimSpace(s.Location))] = true
		}
		before := len(current)
		current = keep(current, func(f Finding) bool { return !suppressed[strings.ToLower(f.Location)] })
		stats.Suppressed = before - len(current)
	}

	if len(opts.Baseline) > 0 {
		before := len(current)
		current = keep(current, func(f Finding) bool { return !opts.Baseline[f.Fingerprint()] })
		stats.InBaseline = before - len(current)
	}

	return FilterOutcome{Result: NewAnalysisResult(current), Stats: stats}
}

func keep(in []Finding, pred func(Finding) bool) []Finding {
	out := make([]Finding, 0, len(in))
	for _, f := range in {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpscan/mcpscan/internal/domain"
)

func sampleFindings() []domain.Finding {
	return []domain.Finding{
		{Category: domain.CategoryToolPoisoning, Severity: domain.SeverityCritical, Title: "Dangerous operation exposed", Location: "Admin.DeleteAll"},
		{Category: domain.CategoryToolPoisoning, Severity: domain.SeverityHigh, Title: "File system access", Location: "FileTools.ReadFile"},
		{Category: domain.CategoryToxicFlow, Severity: domain.SeverityMedium, Title: "Async operation without timeout", Location: "Jobs.Start"},
		{Category: domain.CategoryGeneralSecurity, Severity: domain.SeverityMedium, Title: "Class without access control", Location: "Admin"},
		{Category: domain.CategoryPromptInjection, Severity: domain.SeverityLow, Title: "Synthetic", Location: "Prompts.Hello"},
	}
}

func TestApplyFilters_NoOptionsKeepsEverything(t *testing.T) {
	out := domain.ApplyFilters(sampleFindings(), domain.FilterOptions{})
	assert.Equal(t, sampleFindings(), out.Result.Findings)
	assert.Equal(t, domain.FilterStats{Discovered: 5}, out.Stats)
	assert.Equal(t, 5, out.Result.Summary.Total)
}

func TestApplyFilters_MinimumSeverity(t *testing.T) {
	out := domain.ApplyFilters(sampleFindings(), domain.FilterOptions{MinimumSeverity: domain.SeverityHigh})
	require.Len(t, out.Result.Findings, 2)
	assert.Equal(t, 3, out.Stats.BelowSeverity)
	assert.Equal(t, domain.Summary{Total: 2, Critical: 1, High: 1}, out.Result.Summary)
}

func TestApplyFilters_ExcludeCategories(t *testing.T) {
	out := domain.ApplyFilters(sampleFindings(), domain.FilterOptions{
		ExcludeCategories: map[domain.Category]bool{domain.CategoryToolPoisoning: true},
	})
	assert.Len(t, out.Result.Findings, 3)
	assert.Equal(t, 2, out.Stats.ExcludedByCategory)
	for _, f := range out.Result.Findings {
		assert.NotEqual(t, domain.CategoryToolPoisoning, f.Category)
	}
}

func TestApplyFilters_SuppressionIsExactAndCaseInsensitive(t *testing.T) {
	out := domain.ApplyFilters(sampleFindings(), domain.FilterOptions{
		Suppressions: []domain.Suppression{{Location: "admin"}},
	})
	require.Len(t, out.Result.Findings, 4)
	assert.Equal(t, 1, out.Stats.Suppressed)
	// "admin" must not suppress "Admin.DeleteAll".
	assert.Equal(t, "Admin.DeleteAll", out.Result.Findings[0].Location)

	out = domain.ApplyFilters(sampleFindings(), domain.FilterOptions{
		Suppressions: []domain.Suppression{{Location: "filetools.readfile"}, {Location: "FileTools"}},
	})
	assert.Equal(t, 1, out.Stats.Suppressed)
	for _, f := range out.Result.Findings {
		assert.NotEqual(t, "FileTools.ReadFile", f.Location)
	}
}

func TestApplyFilters_Baseline(t *testing.T) {
	all := sampleFindings()
	out := domain.ApplyFilters(all, domain.FilterOptions{
		Baseline: map[string]bool{all[0].Fingerprint(): true},
	})
	assert.Len(t, out.Result.Findings, 4)
	assert.Equal(t, 1, out.Stats.InBaseline)
}

func TestApplyFilters_Monotonic(t *testing.T) {
	all := sampleFindings()
	options := []domain.FilterOptions{
		{MinimumSeverity: domain.SeverityMedium},
		{ExcludeCategories: map[domain.Category]bool{domain.CategoryToxicFlow: true}},
		{Suppressions: []domain.Suppression{{Location: "Admin"}}},
		{
			MinimumSeverity:   domain.SeverityCritical,
			ExcludeCategories: map[domain.Category]bool{domain.CategoryGeneralSecurity: true},
			Suppressions:      []domain.Suppression{{Location: "Jobs.Start"}},
		},
	}
	for _, opts := range options {
		out := domain.ApplyFilters(all, opts)
		assert.LessOrEqual(t, len(out.Result.Findings), len(all))
		for _, f := range out.Result.Findings {
			assert.Contains(t, all, f, "filtering must never add or alter findings")
		}
		s := out.Result.Summary
		assert.Equal(t, len(out.Result.Findings), s.Total)
		assert.Equal(t, s.Total, s.Critical+s.High+s.Medium+s.Low)
		removed := out.Stats.BelowSeverity + out.Stats.ExcludedByCategory + out.Stats.Suppressed + out.Stats.InBaseline
		assert.Equal(t, out.Stats.Discovered-removed, s.Total)
	}
}

func TestFingerprint_StableAndSeverityIndependent(t *testing.T) {
	a := domain.Finding{Category: domain.CategoryToolPoisoning, Severity: domain.SeverityHigh, Title: "File system access", Location: "FileTools.ReadFile"}
	b := a
	b.Severity = domain.SeverityMedium
	b.Location = "filetools.readfile"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := a
	c.Title = "Database access"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEmpty(t, a.Fingerprint())
}

func TestEvaluateGate(t *testing.T) {
	s := domain.Summary{Total: 4, Critical: 1, High: 3}

	assert.True(t, domain.EvaluateGate(s, domain.Thresholds{}).Passed, "nil thresholds are unbounded")
	assert.True(t, domain.EvaluateGate(s, domain.Thresholds{Critical: intPtr(1), High: intPtr(3)}).Passed)

	res := domain.EvaluateGate(s, domain.Thresholds{Critical: intPtr(0), High: intPtr(2)})
	assert.False(t, res.Passed)
	require.Len(t, res.Reasons, 2)
	assert.Contains(t, res.Reasons[0], "critical")
	assert.Contains(t, res.Reasons[1], "high")

	err := &domain.GateError{Result: res}
	assert.Contains(t, err.Error(), "threshold gate failed")
}

func TestThresholds_Override(t *testing.T) {
	base := domain.Thresholds{Critical: intPtr(0), High: intPtr(5)}
	got := base.Override(domain.Thresholds{High: intPtr(1)})
	assert.Equal(t, 0, *got.Critical)
	assert.Equal(t, 1, *got.High)
	assert.Equal(t, 5, *base.High)
}

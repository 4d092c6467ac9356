package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpscan/mcpscan/internal/domain"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestDefaultConfig_ChangesNothing(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Empty(t, cfg.MinimumSeverity)
	assert.Empty(t, cfg.ExcludeCategories)
	assert.Empty(t, cfg.Suppressions)
	assert.Nil(t, cfg.CriticalThreshold)
	assert.Nil(t, cfg.HighThreshold)
	assert.Nil(t, cfg.Patterns)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, domain.SeverityLow, cfg.MinSeverity())
	assert.False(t, cfg.IsEnhanced())
	assert.Empty(t, cfg.ExcludedCategories())
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := domain.ScanConfig{
		MinimumSeverity:   "Medium",
		ExcludeCategories: []string{"toxic-flow", "PromptInjection"},
		Suppressions:      []domain.Suppression{{Location: "FileTools.ReadFile", Reason: "reviewed"}},
		CriticalThreshold: intPtr(0),
		HighThreshold:     intPtr(5),
		Enhanced:          boolPtr(true),
		Patterns:          map[string][]string{"validation": {"validate", "sanitize"}},
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, domain.SeverityMedium, cfg.MinSeverity())
	assert.True(t, cfg.IsEnhanced())
	assert.Equal(t, map[domain.Category]bool{
		domain.CategoryToxicFlow:       true,
		domain.CategoryPromptInjection: true,
	}, cfg.ExcludedCategories())

	th := cfg.Thresholds()
	require.NotNil(t, th.Critical)
	assert.Equal(t, 0, *th.Critical)

	v, err := cfg.Vocabulary()
	require.NoError(t, err)
	assert.Equal(t, []string{"validate", "sanitize"}, v[domain.VocabValidation])
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.ScanConfig
		want string
	}{
		{"unknown severity", domain.ScanConfig{MinimumSeverity: "severe"}, "minimum_severity"},
		{"unknown category", domain.ScanConfig{ExcludeCategories: []string{"Spam"}}, "exclude_categories"},
		{"empty suppression", domain.ScanConfig{Suppressions: []domain.Suppression{{Reason: "x"}}}, "suppressions[0]"},
		{"negative critical", domain.ScanConfig{CriticalThreshold: intPtr(-1)}, "critical_threshold"},
		{"negative high", domain.ScanConfig{HighThreshold: intPtr(-2)}, "high_threshold"},
		{"unknown pattern group", domain.ScanConfig{Patterns: map[string][]string{"bogus": {"x"}}}, "bogus"},
		{"empty pattern group", domain.ScanConfig{Patterns: map[string][]string{"secrets": {" "}}}, "secrets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

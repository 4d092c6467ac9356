package domain

import (
	"fmt"
	"strings"
)

// Suppression removes findings at one exact location.
type Suppression struct {
	Location string `yaml:"location" json:"location"`
	Reason   string `yaml:"reason"   json:"reason,omitempty"`
}

// ScanConfig holds scan configuration loaded from .mcpscan.yaml.
// Pointer types distinguish "not specified" from zero values.
type ScanConfig struct {
	MinimumSeverity   string              `yaml:"minimum_severity"   json:"minimum_severity,omitempty"`
	ExcludeCategories []string            `yaml:"exclude_categories" json:"exclude_categories,omitempty"`
	Suppressions      []Suppression       `yaml:"suppressions"       json:"suppressions,omitempty"`
	CriticalThreshold *int                `yaml:"critical_threshold" json:"critical_threshold,omitempty"`
	HighThreshold     *int                `yaml:"high_threshold"     json:"high_threshold,omitempty"`
	Enhanced          *bool               `yaml:"enhanced"           json:"enhanced,omitempty"`
	Patterns          map[string][]string `yaml:"patterns"           json:"patterns,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ScanConfig {
	return ScanConfig{}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ScanConfig) Validate() error {
	if c.MinimumSeverity != "" {
		if _, err := ParseSeverity(c.MinimumSeverity); err != nil {
			return fmt.Errorf("minimum_severity: %w", err)
		}
	}

	for _, name := range c.ExcludeCategories {
		if _, err := ParseCategory(name); err != nil {
			return fmt.Errorf("exclude_categories: %w", err)
		}
	}

	for i, s := range c.Suppressions {
		if strings.TrimSpace(s.Location) == "" {
			return fmt.Errorf("%w: suppressions[%d].location must not be empty", ErrInvalidConfig, i)
		}
	}

	for _, th := range []struct {
		name string
		val  *int
	}{
		{"critical_threshold", c.CriticalThreshold},
		{"high_threshold", c.HighThreshold},
	} {
		if th.val != nil && *th.val < 0 {
			return fmt.Errorf("%w: %s must be >= 0 (got %d)", ErrInvalidConfig, th.name, *th.val)
		}
	}

	if _, err := DefaultVocabulary().WithOverrides(c.Patterns); err != nil {
		return fmt.Errorf("patterns: %w", err)
	}

	return nil
}

// MinSeverity returns the configured minimum severity, defaulting to low.
func (c ScanConfig) MinSeverity() Severity {
	if sev, err := ParseSeverity(c.MinimumSeverity); err == nil {
		return sev
	}
	return SeverityLow
}

// ExcludedCategories returns the parsed excluded category set. Invalid names
// are skipped; Validate reports them.
func (c ScanConfig) ExcludedCategories() map[Category]bool {
	out := make(map[Category]bool, len(c.ExcludeCategories))
	for _, name := range c.ExcludeCategories {
		if cat, err := ParseCategory(name); err == nil {
			out[cat] = true
		}
	}
	return out
}

// Vocabulary returns the default vocabulary with the configured overrides.
func (c ScanConfig) Vocabulary() (Vocabulary, error) {
	return DefaultVocabulary().WithOverrides(c.Patterns)
}

// IsEnhanced reports whether enhanced rules are enabled in the config file.
func (c ScanConfig) IsEnhanced() bool {
	return c.Enhanced != nil && *c.Enhanced
}

// Thresholds returns the configured gate ceilings.
func (c ScanConfig) Thresholds() Thresholds {
	return Thresholds{Critical: c.CriticalThreshold, High: c.HighThreshold}
}

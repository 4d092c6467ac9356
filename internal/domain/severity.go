package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Severity is an ordered risk level: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeveritiesDescending lists severities from most to least severe.
var SeveritiesDescending = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities; unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// Label returns the capitalized severity name used in human output.
func (s Severity) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev.Rank() == 0 {
		return "", fmt.Errorf("%w: unknown severity %q (valid: low, medium, high, critical)", ErrInvalidConfig, s)
	}
	return sev, nil
}

// Category classifies the risk a finding represents.
type Category string

const (
	CategoryPromptInjection Category = "PromptInjection"
	CategoryToolPoisoning   Category = "ToolPoisoning"
	CategoryToxicFlow       Category = "ToxicFlow"
	CategoryGeneralSecurity Category = "GeneralSecurity"
	CategorySecretsExposure Category = "SecretsExposure"
	CategoryAuditLogging    Category = "AuditLogging"
)

// ValidCategories enumerates all finding categories in report order.
var ValidCategories = []Category{
	CategoryPromptInjection,
	CategoryToolPoisoning,
	CategoryToxicFlow,
	CategoryGeneralSecurity,
	CategorySecretsExposure,
	CategoryAuditLogging,
}

// ParseCategory accepts "PromptInjection", "prompt-injection" or
// "prompt_injection", case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := categoryKey(s)
	for _, c := range ValidCategories {
		if categoryKey(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, s)
}

func categoryKey(s string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// Fingerprint is a stable identifier for a finding across runs. It ignores
// severity so a re-graded finding keeps its identity.
func (f Finding) Fingerprint() string {
	sum := xxhash.Sum64String(string(f.Category) + "|" + strings.ToLower(f.Location) + "|" + f.Title)
	return strconv.FormatUint(sum, 16)
}

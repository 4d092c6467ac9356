package rules

import (
	"fmt"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// memberText is the lower-cased display name plus description.
func memberText(c domain.Capability) string {
	return strings.ToLower(c.DisplayName() + " " + c.Description)
}

// discounted lowers high to medium when the group documents validation.
func discounted(validated bool) domain.Severity {
	if validated {
		return domain.SeverityMedium
	}
	return domain.SeverityHigh
}

func finding(c domain.Capability, cat domain.Category, sev domain.Severity, title, desc, evidence string) domain.Finding {
	return domain.Finding{
		Category:    cat,
		Severity:    sev,
		Title:       title,
		Description: desc,
		Evidence:    evidence,
		Location:    c.Location(),
	}
}

func matchedEvidence(term string, c domain.Capability) string {
	if c.Description == "" {
		return fmt.Sprintf("matched %q in name %q", term, c.DisplayName())
	}
	return fmt.Sprintf("matched %q in name %q / description %q", term, c.DisplayName(), c.Description)
}

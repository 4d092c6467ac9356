package rules

import (
	"fmt"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

var sensitiveNameGroups = []string{
	domain.VocabDangerousOperations,
	domain.VocabFileSystem,
	domain.VocabDatabase,
}

// GeneralSecurity flags sensitive tools without an audience and capabilities
// that describe outbound calls.
func GeneralSecurity(c domain.Capability, _ domain.CapabilityGroup, _ bool, v domain.Vocabulary) []domain.Finding {
	var out []domain.Finding

	if c.Kind == domain.KindTool && len(c.Audiences) == 0 {
		name := strings.ToLower(c.DisplayName())
		for _, group := range sensitiveNameGroups {
			if term, ok := v.FirstMatch(group, name); ok {
				out = append(out, finding(c, domain.CategoryGeneralSecurity, domain.SeverityHigh,
					"Missing authorization",
					fmt.Sprintf("Sensitive tool %q declares no audience, so any client may invoke it.", c.DisplayName()),
					fmt.Sprintf("matched %q in name %q; audiences: none", term, c.DisplayName()),
				))
				break
			}
		}
	}

	desc := strings.ToLower(c.Description)
	if term, ok := v.FirstMatch(domain.VocabExternalCalls, desc); ok {
		out = append(out, finding(c, domain.CategoryGeneralSecurity, domain.SeverityMedium,
			"External call",
			fmt.Sprintf("%q appears to call external services (%s); responses and destinations must be validated.", c.DisplayName(), term),
			fmt.Sprintf("matched %q in description %q", term, c.Description),
		))
	}

	return out
}

// GroupAccessControl flags large tool groups that declare no audience.
func GroupAccessControl(g domain.CapabilityGroup, _ domain.Vocabulary) []domain.Finding {
	if g.Kind != domain.GroupTool || len(g.Audiences) > 0 || len(g.Members) <= 3 {
		return nil
	}
	return []domain.Finding{{
		Category:    domain.CategoryGeneralSecurity,
		Severity:    domain.SeverityMedium,
		Title:       "Class without access control",
		Description: fmt.Sprintf("Tool group %q exposes %d tools and declares no audience.", g.TypeName, len(g.Members)),
		Evidence:    fmt.Sprintf("%d members; audiences: none", len(g.Members)),
		Location:    g.TypeName,
	}}
}

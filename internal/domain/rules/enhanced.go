package rules

import (
	"fmt"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// SecretsExposure flags any capability whose name, description or title
// mentions a secret. The first matching term wins.
func SecretsExposure(c domain.Capability, _ domain.CapabilityGroup, _ bool, v domain.Vocabulary) []domain.Finding {
	text := strings.ToLower(c.DisplayName() + " " + c.Description + " " + c.Title)
	term, ok := v.FirstMatch(domain.VocabSecrets, text)
	if !ok {
		return nil
	}
	return []domain.Finding{finding(c, domain.CategorySecretsExposure, domain.SeverityCritical,
		"Potential secret exposure",
		fmt.Sprintf("%q references credential material (%s) in its public metadata.", c.DisplayName(), term),
		matchedEvidence(term, c),
	)}
}

// MissingAuditLogging flags state-changing tools that document no logging.
func MissingAuditLogging(c domain.Capability, g domain.CapabilityGroup, _ bool, v domain.Vocabulary) []domain.Finding {
	if g.Kind != domain.GroupTool {
		return nil
	}
	text := memberText(c)
	term, ok := v.FirstMatch(domain.VocabMutatingOperations, text)
	if !ok || v.Matches(domain.VocabLogging, text) {
		return nil
	}
	return []domain.Finding{finding(c, domain.CategoryAuditLogging, domain.SeverityMedium,
		"Missing audit logging",
		fmt.Sprintf("Tool %q changes state (%s) but documents no audit logging.", c.DisplayName(), term),
		matchedEvidence(term, c),
	)}
}

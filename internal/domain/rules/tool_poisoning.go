package rules

import (
	"fmt"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// ToolPoisoning runs three independent vocabulary checks over a tool's name
// and description. Dangerous operations are always critical; file-system and
// database access are discounted by the group's validation signal.
func ToolPoisoning(c domain.Capability, _ domain.CapabilityGroup, validated bool, v domain.Vocabulary) []domain.Finding {
	if c.Kind != domain.KindTool {
		return nil
	}

	var out []domain.Finding
	text := memberText(c)

	if term, ok := v.FirstMatch(domain.VocabDangerousOperations, text); ok {
		out = append(out, finding(c, domain.CategoryToolPoisoning, domain.SeverityCritical,
			"Dangerous operation exposed",
			fmt.Sprintf("Tool %q exposes a potentially destructive or code-executing operation (%s).", c.DisplayName(), term),
			matchedEvidence(term, c),
		))
	}

	if term, ok := v.FirstMatch(domain.VocabFileSystem, text); ok {
		out = append(out, finding(c, domain.CategoryToolPoisoning, discounted(validated),
			"File system access",
			fmt.Sprintf("Tool %q appears to access the file system (%s); unvalidated paths allow traversal.", c.DisplayName(), term),
			matchedEvidence(term, c),
		))
	}

	if term, ok := v.FirstMatch(domain.VocabDatabase, text); ok {
		out = append(out, finding(c, domain.CategoryToolPoisoning, discounted(validated),
			"Database access",
			fmt.Sprintf("Tool %q appears to access a database (%s); unvalidated input allows injection.", c.DisplayName(), term),
			matchedEvidence(term, c),
		))
	}

	return out
}

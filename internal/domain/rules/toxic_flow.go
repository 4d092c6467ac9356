package rules

import (
	"fmt"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// ToxicFlow flags asynchronous capabilities with no documented timeout and
// expensive tools with no documented rate limit.
func ToxicFlow(c domain.Capability, _ domain.CapabilityGroup, _ bool, v domain.Vocabulary) []domain.Finding {
	var out []domain.Finding
	text := memberText(c)
	desc := strings.ToLower(c.Description)

	if term, ok := v.FirstMatch(domain.VocabAsync, text); ok && !v.Matches(domain.VocabTimeout, desc) {
		out = append(out, finding(c, domain.CategoryToxicFlow, domain.SeverityMedium,
			"Async operation without timeout",
			fmt.Sprintf("%q runs asynchronously but documents no timeout or delay bound.", c.DisplayName()),
			matchedEvidence(term, c),
		))
	}

	if c.Kind == domain.KindTool {
		if term, ok := v.FirstMatch(domain.VocabExpensiveOperations, text); ok && !v.Matches(domain.VocabRateLimit, desc) {
			out = append(out, finding(c, domain.CategoryToxicFlow, domain.SeverityMedium,
				"Expensive operation without rate limiting",
				fmt.Sprintf("Tool %q performs a potentially expensive operation (%s) with no documented rate limit.", c.DisplayName(), term),
				matchedEvidence(term, c),
			))
		}
	}

	return out
}

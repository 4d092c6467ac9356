package rules

import (
	"fmt"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// PromptInjection flags prompt templates whose description suggests user input
// is concatenated into the prompt, and prompts with no description at all.
func PromptInjection(c domain.Capability, _ domain.CapabilityGroup, validated bool, v domain.Vocabulary) []domain.Finding {
	if c.Kind != domain.KindPrompt {
		return nil
	}

	var out []domain.Finding
	desc := strings.ToLower(c.Description)

	inputTerm, hasInput := v.FirstMatch(domain.VocabUserInput, desc)
	concatTerm, hasConcat := v.FirstMatch(domain.VocabConcatenation, desc)
	if hasInput && hasConcat {
		out = append(out, finding(c, domain.CategoryPromptInjection, discounted(validated),
			"Potential prompt injection",
			fmt.Sprintf("Prompt %q appears to build its template from user-controlled input.", c.DisplayName()),
			fmt.Sprintf("matched %q and %q in description %q", inputTerm, concatTerm, c.Description),
		))
	}

	if c.Description == "" {
		out = append(out, finding(c, domain.CategoryPromptInjection, domain.SeverityMedium,
			"Prompt missing documentation",
			fmt.Sprintf("Prompt %q has no description, so reviewers cannot tell how its arguments are used.", c.DisplayName()),
			"description is empty",
		))
	}

	return out
}

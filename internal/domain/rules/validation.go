package rules

import (
	"github.com/mcpscan/mcpscan/internal/domain"
)

// ValidationSignals returns the type names of groups where any member's name
// or description mentions input validation. The signal is group-wide: one
// validating member lowers discountable severities for all its siblings.
func ValidationSignals(groups []domain.CapabilityGroup, v domain.Vocabulary) map[string]bool {
	signals := make(map[string]bool)
	for _, g := range groups {
		for _, c := range g.Members {
			if v.Matches(domain.VocabValidation, memberText(c)) {
				signals[g.TypeName] = true
				break
			}
		}
	}
	return signals
}

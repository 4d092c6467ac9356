package domain

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// HumanizeName turns identifiers like "ReadFileAsync" or "read_file" into
// "Read File Async" / "Read File".
func HumanizeName(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	var words []string
	for _, f := range fields {
		for _, w := range camelcase.Split(f) {
			if w == "" {
				continue
			}
			words = append(words, strings.ToUpper(w[:1])+w[1:])
		}
	}
	return strings.Join(words, " ")
}

// Heading returns the capability title, or a humanized display name.
func (c Capability) Heading() string {
	if c.Title != "" {
		return c.Title
	}
	return HumanizeName(c.DisplayName())
}

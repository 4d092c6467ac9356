package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcpscan/mcpscan/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderRules renders the category catalog and the active vocabulary.
func RenderRules(catalog []domain.CategoryInfo, vocab domain.Vocabulary) string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(headerStyle.Render("mcpscan rules") + "\n" + dimStyle.Render(fmt.Sprintf("%d categories", len(catalog)))))
	b.WriteString("\n")

	for _, c := range catalog {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render(string(c.Category)),
			dimStyle.Render(c.Code+" · "+c.Name),
		)
		fmt.Fprintf(&b, "    %s\n", wrap(c.Remediation, 72, "    "))
		fmt.Fprintf(&b, "    %s\n", fileStyle.Render(c.DocumentationLink))
	}

	if len(vocab) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Vocabulary"), dimStyle.Render(fmt.Sprintf("(%d groups)", len(vocab))))
		for _, group := range domain.VocabularyGroups() {
			fmt.Fprintf(&b, "    %s %s\n", catNameStyle.Render(padRight(group, 22)), faintStyle.Render(strings.Join(vocab[group], ", ")))
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Override vocabulary groups under `patterns:` in .mcpscan.yaml."))
	b.WriteString("\n")

	return b.String()
}

func wrap(text string, width int, indent string) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n"+indent)
}

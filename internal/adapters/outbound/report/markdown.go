package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

var kindSections = []struct {
	kind  domain.GroupKind
	title string
}{
	{domain.GroupTool, "Tools"},
	{domain.GroupResource, "Resources"},
	{domain.GroupPrompt, "Prompts"},
}

// WriteMarkdown renders a human-readable report: the capability inventory per
// kind, then the findings grouped by severity.
func WriteMarkdown(w io.Writer, r *domain.ScanReport) error {
	var b strings.Builder

	b.WriteString("# MCP Security Report\n\n")
	fmt.Fprintf(&b, "- **Source:** `%s`\n", r.Source)
	if r.Commit != "" {
		fmt.Fprintf(&b, "- **Commit:** `%s`\n", r.Commit)
	}
	fmt.Fprintf(&b, "- **Scanner:** %s %s\n", r.Tool.Name, r.Tool.Version)
	if r.Enhanced {
		b.WriteString("- **Enhanced rules:** enabled\n")
	}
	gate := "passed"
	if !r.Gate.Passed {
		gate = "failed (" + strings.Join(r.Gate.Reasons, "; ") + ")"
	}
	fmt.Fprintf(&b, "- **Gate:** %s\n\n", gate)

	b.WriteString("| Severity | Count |\n|---|---|\n")
	s := r.Summary
	fmt.Fprintf(&b, "| Critical | %d |\n| High | %d |\n| Medium | %d |\n| Low | %d |\n| **Total** | **%d** |\n\n",
		s.Critical, s.High, s.Medium, s.Low, s.Total)

	for _, sec := range kindSections {
		writeInventory(&b, r.Units, sec.kind, sec.title)
	}
	writeFindings(&b, r.Findings)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeInventory(b *strings.Builder, units []domain.Unit, kind domain.GroupKind, title string) {
	var groups []domain.CapabilityGroup
	for _, u := range units {
		for _, g := range u.Groups {
			if g.Kind == kind {
				groups = append(groups, g)
			}
		}
	}
	if len(groups) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", title)
	for _, g := range groups {
		fmt.Fprintf(b, "### %s\n\n", g.TypeName)
		if g.Description != "" {
			fmt.Fprintf(b, "%s\n\n", g.Description)
		}
		if len(g.Audiences) > 0 {
			fmt.Fprintf(b, "Audiences: %s\n\n", strings.Join(g.Audiences, ", "))
		}
		b.WriteString("| Capability | Name | Description | Audiences |\n|---|---|---|---|\n")
		for _, c := range g.Members {
			fmt.Fprintf(b, "| %s | `%s` | %s | %s |\n",
				cell(c.Heading()), cell(c.DisplayName()), cell(c.Description), cell(strings.Join(c.Audiences, ", ")))
		}
		b.WriteString("\n")
	}
}

func writeFindings(b *strings.Builder, findings []domain.Finding) {
	b.WriteString("## Security Findings\n\n")
	if len(findings) == 0 {
		b.WriteString("No findings.\n")
		return
	}

	for _, sev := range domain.SeveritiesDescending {
		var bucket []domain.Finding
		for _, f := range findings {
			if f.Severity == sev {
				bucket = append(bucket, f)
			}
		}
		if len(bucket) == 0 {
			continue
		}

		fmt.Fprintf(b, "### %s (%d)\n\n", sev.Label(), len(bucket))
		for _, f := range bucket {
			fmt.Fprintf(b, "#### %s\n\n", f.Title)
			fmt.Fprintf(b, "- **Location:** `%s`\n", f.Location)
			if f.ClassificationCode != "" {
				fmt.Fprintf(b, "- **Category:** %s (%s)\n", f.Category, f.ClassificationCode)
			} else {
				fmt.Fprintf(b, "- **Category:** %s\n", f.Category)
			}
			fmt.Fprintf(b, "- **Description:** %s\n", f.Description)
			if f.Recommendation != "" {
				fmt.Fprintf(b, "- **Recommendation:** %s\n", f.Recommendation)
			}
			if f.Evidence != "" {
				fmt.Fprintf(b, "- **Evidence:** %s\n", f.Evidence)
			}
			if f.DocumentationLink != "" {
				fmt.Fprintf(b, "- **Reference:** %s\n", f.DocumentationLink)
			}
			b.WriteString("\n")
		}
	}
}

// cell makes text safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	orange  = lipgloss.Color("#FB923C")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	severityColors = map[domain.Severity]lipgloss.Color{
		domain.SeverityCritical: danger,
		domain.SeverityHigh:     orange,
		domain.SeverityMedium:   warning,
		domain.SeverityLow:      info,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a scan report for the terminal.
func RenderReport(r *domain.ScanReport) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("mcpscan")
	subtitle := dimStyle.Render("MCP Capability Security Scan")
	verdict := passStyle.Bold(true).Render("PASS")
	if !r.Gate.Passed {
		verdict = failStyle.Render("FAIL")
	}
	counts := fmt.Sprintf("%d findings", r.Summary.Total)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + titleStyle.Render(counts) + "  " + verdict))
	b.WriteString("\n\n")

	// ── Inventory ──
	renderInventory(&b, r)

	// ── Severity distribution ──
	for _, sev := range domain.SeveritiesDescending {
		n := countOf(r.Summary, sev)
		name := catNameStyle.Render(padRight(sev.Label(), 12))
		bar := coloredBar(n, r.Summary.Total, 24, severityColor(sev))
		fmt.Fprintf(&b, "  %s %s  %s\n", name, bar, severityStyle(sev).Render(fmt.Sprintf("%d", n)))
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Findings ──
	if len(r.Findings) == 0 {
		b.WriteString("  " + passStyle.Render("No findings.") + "\n")
	} else {
		b.WriteString("  " + titleStyle.Render("Findings") + "\n\n")
		for _, f := range sortBySeverity(r.Findings) {
			renderFinding(&b, f)
		}
	}

	if filtered := filteredCount(r.Filtering); filtered > 0 {
		b.WriteString("\n")
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf(
			"%d filtered: %d below severity, %d excluded category, %d suppressed, %d in baseline",
			filtered, r.Filtering.BelowSeverity, r.Filtering.ExcludedByCategory, r.Filtering.Suppressed, r.Filtering.InBaseline,
		)) + "\n")
	}

	for _, reason := range r.Gate.Reasons {
		b.WriteString("  " + failStyle.Render("✗ "+reason) + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

func renderInventory(b *strings.Builder, r *domain.ScanReport) {
	var tools, resources, prompts int
	for _, g := range (&domain.Discovery{Units: r.Units}).Groups() {
		switch g.Kind {
		case domain.GroupTool:
			tools += len(g.Members)
		case domain.GroupResource:
			resources += len(g.Members)
		case domain.GroupPrompt:
			prompts += len(g.Members)
		}
	}
	fmt.Fprintf(b, "  %s  %s\n",
		titleStyle.Render("Scanned"),
		dimStyle.Render(fmt.Sprintf("%d units · %d tools · %d resources · %d prompts", len(r.Units), tools, resources, prompts)),
	)
	if r.Commit != "" {
		fmt.Fprintf(b, "  %s  %s\n", titleStyle.Render("Commit "), faintStyle.Render(shortHash(r.Commit)))
	}
	if r.Enhanced {
		fmt.Fprintf(b, "  %s  %s\n", titleStyle.Render("Rules  "), dimStyle.Render("standard + enhanced"))
	}
	b.WriteString("\n")
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	tag := severityStyle(f.Severity).Render(padRight(strings.ToLower(f.Severity.Label()), 8))
	fmt.Fprintf(b, "    %s %s  %s\n", tag, titleStyle.Render(f.Title), fileStyle.Render(f.Location))
	fmt.Fprintf(b, "             %s\n", dimStyle.Render(f.Description))
	if f.ClassificationCode != "" {
		fmt.Fprintf(b, "             %s\n", faintStyle.Render(string(f.Category)+" · "+f.ClassificationCode))
	}
}

func sortBySeverity(in []domain.Finding) []domain.Finding {
	out := append([]domain.Finding(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity.Rank() > out[j].Severity.Rank() })
	return out
}

func countOf(s domain.Summary, sev domain.Severity) int {
	switch sev {
	case domain.SeverityCritical:
		return s.Critical
	case domain.SeverityHigh:
		return s.High
	case domain.SeverityMedium:
		return s.Medium
	default:
		return s.Low
	}
}

func filteredCount(s domain.FilterStats) int {
	return s.BelowSeverity + s.ExcludedByCategory + s.Suppressed + s.InBaseline
}

func coloredBar(n, total, width int, color lipgloss.Color) string {
	filled := 0
	if total > 0 {
		filled = max(0, min(n*width/total, width))
	}
	if n > 0 && filled == 0 {
		filled = 1
	}
	empty := width - filled

	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func severityColor(s domain.Severity) lipgloss.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return fg
}

func severityStyle(s domain.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(severityColor(s)).Bold(s.AtLeast(domain.SeverityHigh))
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory renders recorded scans oldest first with the change in total
// findings between consecutive entries.
func RenderHistory(entries []domain.ScanEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No scan history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Scan History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.Commit)
		if hash == "" {
			hash = "·······"
		}
		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		verdict := passStyle.Render("pass")
		if !e.Passed {
			verdict = failStyle.Render("fail")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(padRight(day, 10)),
			faintStyle.Render(hash),
			titleStyle.Render(fmt.Sprintf("%3d findings", e.Summary.Total)),
			severityStyle(domain.SeverityCritical).Render(fmt.Sprintf("%dC", e.Summary.Critical))+" "+
				severityStyle(domain.SeverityHigh).Render(fmt.Sprintf("%dH", e.Summary.High)),
			verdict,
		)

		if i > 0 {
			diff := e.Summary.Total - entries[i-1].Summary.Total
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

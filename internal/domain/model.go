package domain

import (
	"sort"
	"strings"
)

// CapabilityKind identifies what a capability exposes to a client.
type CapabilityKind string

const (
	KindTool     CapabilityKind = "tool"
	KindResource CapabilityKind = "resource"
	KindPrompt   CapabilityKind = "prompt"
)

// GroupKind identifies the kind of an owning declaration.
type GroupKind string

const (
	GroupTool     GroupKind = "tool_group"
	GroupResource GroupKind = "resource_group"
	GroupPrompt   GroupKind = "prompt_group"
)

// MemberKind returns the capability kind that members of this group carry.
func (k GroupKind) MemberKind() CapabilityKind {
	switch k {
	case GroupResource:
		return KindResource
	case GroupPrompt:
		return KindPrompt
	default:
		return KindTool
	}
}

// Capability is one discovered callable, content or template unit.
type Capability struct {
	OwnerName   string         `json:"owner_name"`
	MemberName  string         `json:"member_name"`
	Kind        CapabilityKind `json:"kind"`
	Name        string         `json:"name,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Audiences   []string       `json:"audiences,omitempty"`
}

// NewCapability builds a normalized capability: text fields are trimmed and
// audiences are de-duplicated case-insensitively.
func NewCapability(owner, member string, kind CapabilityKind, name, title, description string, audiences []string) Capability {
	return Capability{
		OwnerName:   owner,
		MemberName:  member,
		Kind:        kind,
		Name:        strings.TrimSpace(name),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Audiences:   NormalizeAudiences(audiences),
	}
}

// DisplayName is the client-facing name, falling back to the member name.
func (c Capability) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.MemberName
}

// Location is the finding location for this capability.
func (c Capability) Location() string {
	return c.OwnerName + "." + c.MemberName
}

// CapabilityGroup is the declaration that owns a set of capabilities.
type CapabilityGroup struct {
	TypeName    string       `json:"type_name"`
	Kind        GroupKind    `json:"kind"`
	Description string       `json:"description,omitempty"`
	Audiences   []string     `json:"audiences,omitempty"`
	Members     []Capability `json:"members"`
}

// Unit is one scanned artifact: an assembly, a metadata file or an MCP server.
// Server units have no file on disk; their Path is the launch command.
type Unit struct {
	Path   string            `json:"path"`
	Server bool              `json:"server,omitempty"`
	Groups []CapabilityGroup `json:"groups"`
}

// Discovery is everything a metadata provider yielded for one target.
type Discovery struct {
	Units []Unit `json:"units"`
}

// Groups flattens all units into a single ordered group list.
func (d *Discovery) Groups() []CapabilityGroup {
	if d == nil {
		return nil
	}
	var all []CapabilityGroup
	for _, u := range d.Units {
		all = append(all, u.Groups...)
	}
	return all
}

// CapabilityCount returns the number of members across all units.
func (d *Discovery) CapabilityCount() int {
	n := 0
	for _, g := range d.Groups() {
		n += len(g.Members)
	}
	return n
}

// PruneEmptyGroups returns a copy of the discovery without member-less groups.
func PruneEmptyGroups(d *Discovery) *Discovery {
	out := &Discovery{}
	if d == nil {
		return out
	}
	for _, u := range d.Units {
		pruned := Unit{Path: u.Path, Groups: make([]CapabilityGroup, 0, len(u.Groups))}
		for _, g := range u.Groups {
			if len(g.Members) > 0 {
				pruned.Groups = append(pruned.Groups, g)
			}
		}
		out.Units = append(out.Units, pruned)
	}
	return out
}

// NormalizeAudiences trims, drops empties, de-duplicates case-insensitively
// (first spelling wins) and sorts the result.
func NormalizeAudiences(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Finding is one heuristic security observation tied to a location.
type Finding struct {
	Category           Category `json:"category"`
	Severity           Severity `json:"severity"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Recommendation     string   `json:"recommendation,omitempty"`
	Evidence           string   `json:"evidence,omitempty"`
	Location           string   `json:"location"`
	ClassificationCode string   `json:"classification_code,omitempty"`
	CodeExample        string   `json:"code_example,omitempty"`
	DocumentationLink  string   `json:"documentation_link,omitempty"`
}

// Summary holds per-severity counts of a finding list.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Summarize counts findings by severity.
func Summarize(findings []Finding) Summary {
	var s Summary
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	s.Total = s.Critical + s.High + s.Medium + s.Low
	return s
}

// AnalysisResult is an ordered finding list with counts derived from it.
type AnalysisResult struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

// NewAnalysisResult copies findings and recomputes the summary.
func NewAnalysisResult(findings []Finding) AnalysisResult {
	out := make([]Finding, len(findings))
	copy(out, findings)
	return AnalysisResult{Findings: out, Summary: Summarize(out)}
}

// ToolInfo identifies the producer of a report.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ScanReport is the structured output of one scan.
type ScanReport struct {
	Tool      ToolInfo    `json:"tool"`
	Source    string      `json:"source"`
	Commit    string      `json:"commit,omitempty"`
	Enhanced  bool        `json:"enhanced"`
	Units     []Unit      `json:"units"`
	Findings  []Finding   `json:"findings"`
	Summary   Summary     `json:"summary"`
	Filtering FilterStats `json:"filtering"`
	Gate      GateResult  `json:"gate"`
}

// Result returns the report's findings and summary as an AnalysisResult.
func (r *ScanReport) Result() AnalysisResult {
	return AnalysisResult{Findings: r.Findings, Summary: r.Summary}
}

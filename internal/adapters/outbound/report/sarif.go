package report

import (
	"encoding/json"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	// fingerprintKey names the partial fingerprint so a future scheme can
	// coexist with this one.
	fingerprintKey = "mcpscanFingerprint/v1"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ShortDescription sarifMessage   `json:"shortDescription"`
	FullDescription  sarifMessage   `json:"fullDescription"`
	HelpURI          string         `json:"helpUri,omitempty"`
	Properties       map[string]any `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysical `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogical `json:"logicalLocations"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifLogical struct {
	Name               string `json:"name"`
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

func sevToLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical, domain.SeverityHigh:
		return "error"
	case domain.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes the report's findings as a SARIF 2.1.0 log. The driver
// lists one rule per category; a report without findings still yields a
// valid log with an empty results array.
func WriteSARIF(w io.Writer, r *domain.ScanReport) error {
	catalog := domain.Catalog()
	ruleIndex := make(map[domain.Category]int, len(catalog))
	rules := make([]sarifRule, 0, len(catalog))
	for i, info := range catalog {
		ruleIndex[info.Category] = i
		rules = append(rules, sarifRule{
			ID:               string(info.Category),
			Name:             info.Name,
			ShortDescription: sarifMessage{Text: info.Name},
			FullDescription:  sarifMessage{Text: info.Remediation},
			HelpURI:          info.DocumentationLink,
			Properties:       map[string]any{"tags": []string{"security", info.Code}},
		})
	}

	units := newUnitIndex(r)
	results := make([]sarifResult, 0, len(r.Findings))
	for _, f := range r.Findings {
		results = append(results, sarifResult{
			RuleID:    string(f.Category),
			RuleIndex: ruleIndex[f.Category],
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: f.Description},
			Locations: []sarifLocation{{
				PhysicalLocation: units.physical(f.Location),
				LogicalLocations: []sarifLogical{logicalLocation(f.Location, units)},
			}},
			PartialFingerprints: map[string]string{fingerprintKey: f.Fingerprint()},
			Properties:          resultProperties(f),
		})
	}

	doc := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    r.Tool.Name,
				Version: r.Tool.Version,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func resultProperties(f domain.Finding) map[string]any {
	props := map[string]any{
		"title":    f.Title,
		"severity": string(f.Severity),
	}
	optional := map[string]string{
		"classificationCode": f.ClassificationCode,
		"recommendation":     f.Recommendation,
		"evidence":           f.Evidence,
		"codeExample":        f.CodeExample,
		"documentationLink":  f.DocumentationLink,
	}
	for k, v := range optional {
		if v != "" {
			props[k] = v
		}
	}
	return props
}

func logicalLocation(loc string, units unitIndex) sarifLogical {
	if owner, ok := units.owner(loc); ok && owner != loc {
		return sarifLogical{Name: strings.TrimPrefix(loc, owner+"."), FullyQualifiedName: loc, Kind: "member"}
	}
	return sarifLogical{Name: loc, FullyQualifiedName: loc, Kind: "type"}
}

// unitIndex resolves a finding location to its owning group and unit.
type unitIndex struct {
	source string
	owners map[string]domain.Unit // type name -> unit
}

func newUnitIndex(r *domain.ScanReport) unitIndex {
	idx := unitIndex{source: r.Source, owners: map[string]domain.Unit{}}
	for _, u := range r.Units {
		for _, g := range u.Groups {
			if _, seen := idx.owners[g.TypeName]; !seen {
				idx.owners[g.TypeName] = u
			}
		}
	}
	return idx
}

// owner returns the longest type name that equals loc or prefixes it at a
// dot boundary. Type names may contain dots themselves.
func (idx unitIndex) owner(loc string) (string, bool) {
	best := ""
	for name := range idx.owners {
		if (loc == name || strings.HasPrefix(loc, name+".")) && len(name) > len(best) {
			best = name
		}
	}
	return best, best != ""
}

// physical returns the artifact holding loc, or nil when there is no file to
// point at: server units and findings whose unit is unknown outside a
// filesystem scan.
func (idx unitIndex) physical(loc string) *sarifPhysical {
	path := ""
	if owner, ok := idx.owner(loc); ok {
		u := idx.owners[owner]
		if u.Server {
			return nil
		}
		path = u.Path
	}
	if path == "" {
		if !filepath.IsAbs(idx.source) {
			return nil
		}
		path = idx.source
	}
	return &sarifPhysical{ArtifactLocation: sarifArtifact{URI: artifactURI(path)}}
}

// artifactURI encodes absolute paths as file URIs and relative ones as
// relative references.
func artifactURI(path string) string {
	slashed := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if !strings.HasPrefix(slashed, "/") {
			slashed = "/" + slashed
		}
		return (&url.URL{Scheme: "file", Path: slashed}).String()
	}
	return (&url.URL{Path: slashed}).String()
}

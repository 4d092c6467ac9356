// Package metadata reads normalized capability metadata documents from disk.
package metadata

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// DefaultGlob selects metadata files when the target is a directory.
const DefaultGlob = "**/*.capabilities.json"

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

type document struct {
	Assemblies []assembly `json:"assemblies"`
}

type assembly struct {
	Path    string  `json:"path"`
	Classes []class `json:"classes"`
}

type class struct {
	TypeName    string   `json:"type_name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Audiences   []string `json:"audiences"`
	Members     []member `json:"members"`
}

type member struct {
	MemberName  string   `json:"member_name"`
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Audiences   []string `json:"audiences"`
}

// FileProvider implements domain.MetadataProvider over metadata JSON files.
type FileProvider struct {
	glob   string
	logger *zap.Logger
}

// Option configures a FileProvider.
type Option func(*FileProvider)

// WithGlob overrides the pattern used to expand directory targets.
func WithGlob(pattern string) Option {
	return func(p *FileProvider) {
		if pattern != "" {
			p.glob = pattern
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *FileProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a FileProvider.
func New(opts ...Option) *FileProvider {
	p := &FileProvider{glob: DefaultGlob, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Discover reads target, a single metadata file or a directory searched with
// the provider's glob. Files are processed in sorted order; the first file
// that fails to parse or validate aborts discovery.
func (p *FileProvider) Discover(ctx context.Context, target string) (*domain.Discovery, error) {
	files, err := p.files(target)
	if err != nil {
		return nil, err
	}

	d := &domain.Discovery{Units: []domain.Unit{}}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		units, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("loaded metadata file", zap.String("path", f), zap.Int("units", len(units)))
		d.Units = append(d.Units, units...)
	}
	return d, nil
}

func (p *FileProvider) files(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(target), p.glob)
	if err != nil {
		return nil, fmt.Errorf("expanding %q in %s: %w", p.glob, target, err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(target, filepath.FromSlash(m)))
	}
	p.logger.Debug("expanded metadata glob", zap.String("dir", target), zap.String("glob", p.glob), zap.Int("files", len(files)))
	return files, nil
}

// LoadFile reads, validates and normalizes one metadata document.
func LoadFile(path string) ([]domain.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	units, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// Parse validates data against the embedded schema and converts it to units.
// Assemblies without a path are named after source.
func Parse(data []byte, source string) ([]domain.Unit, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling metadata schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("metadata does not match schema: %s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	units := make([]domain.Unit, 0, len(doc.Assemblies))
	for _, a := range doc.Assemblies {
		u := domain.Unit{Path: a.Path, Groups: make([]domain.CapabilityGroup, 0, len(a.Classes))}
		if u.Path == "" {
			u.Path = source
		}
		for _, c := range a.Classes {
			u.Groups = append(u.Groups, toGroup(c))
		}
		units = append(units, u)
	}
	return units, nil
}

func toGroup(c class) domain.CapabilityGroup {
	g := domain.CapabilityGroup{
		TypeName:    strings.TrimSpace(c.TypeName),
		Kind:        domain.GroupKind(c.Kind),
		Description: strings.TrimSpace(c.Description),
		Audiences:   domain.NormalizeAudiences(c.Audiences),
		Members:     make([]domain.Capability, 0, len(c.Members)),
	}
	for _, m := range c.Members {
		kind := domain.CapabilityKind(m.Kind)
		if kind == "" {
			kind = g.Kind.MemberKind()
		}
		g.Members = append(g.Members, domain.NewCapability(
			g.TypeName, strings.TrimSpace(m.MemberName), kind, m.Name, m.Title, m.Description, m.Audiences,
		))
	}
	return g
}

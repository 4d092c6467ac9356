package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// FileName is the config file looked up next to the scan target.
const FileName = ".mcpscan.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .mcpscan.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config at path, which must exist when given. With an empty
// path it reads .mcpscan.yaml from dir and returns DefaultConfig if the file
// does not exist.
func (l *YAMLLoader) Load(dir, path string) (domain.ScanConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ScanConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.ScanConfig{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes and validates a config document. Unknown keys are rejected.
func Parse(data []byte) (domain.ScanConfig, error) {
	var cfg domain.ScanConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return domain.ScanConfig{}, fmt.Errorf("parsing: %w", err)
	}

	// Validate the raw input so typos surface before any analysis runs.
	if err := cfg.Validate(); err != nil {
		return domain.ScanConfig{}, fmt.Errorf("invalid: %w", err)
	}
	return cfg, nil
}

// Template renders a starter config carrying the built-in vocabulary so it
// can be tuned in place.
func Template() ([]byte, error) {
	doc := struct {
		MinimumSeverity   string               `yaml:"minimum_severity"`
		ExcludeCategories []string             `yaml:"exclude_categories"`
		Suppressions      []domain.Suppression `yaml:"suppressions"`
		Enhanced          bool                 `yaml:"enhanced"`
		Patterns          domain.Vocabulary    `yaml:"patterns"`
	}{
		MinimumSeverity:   string(domain.SeverityLow),
		ExcludeCategories: []string{},
		Suppressions:      []domain.Suppression{},
		Patterns:          domain.DefaultVocabulary(),
	}

	var buf bytes.Buffer
	buf.WriteString("# mcpscan configuration\n")
	buf.WriteString("# critical_threshold / high_threshold fail the scan (exit 2) when exceeded.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	return buf.Bytes(), nil
}

package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// File is the on-disk baseline: the fingerprints of accepted findings.
type File struct {
	Items map[string]bool `json:"items"`
}

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a new file-based baseline store.
func New() *Store {
	return &Store{}
}

// Load reads a baseline from disk. A missing file is an empty baseline.
func (s *Store) Load(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil // no baseline is not an error
		}
		return nil, err
	}

	var b File
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b.Items, nil
}

// Save writes the fingerprints of findings to path, creating directories as
// needed.
func (s *Store) Save(path string, findings []domain.Finding) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	b := File{Items: make(map[string]bool, len(findings))}
	for _, f := range findings {
		b.Items[f.Fingerprint()] = true
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

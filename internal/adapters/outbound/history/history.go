package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// FileHistory implements domain.ScanHistory using a JSON array file.
type FileHistory struct{}

// New creates a FileHistory.
func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry to the history file at path, creating it if needed.
func (h *FileHistory) Save(path string, entry domain.ScanEntry) error {
	entries, err := h.Load(path)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Load returns the recorded entries oldest first. A missing file is empty.
func (h *FileHistory) Load(path string) ([]domain.ScanEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ScanEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return entries, nil
}

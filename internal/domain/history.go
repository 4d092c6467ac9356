package domain

import "time"

// ScanEntry is one recorded scan in a history file.
type ScanEntry struct {
	Timestamp string  `json:"timestamp"`
	Commit    string  `json:"commit,omitempty"`
	Source    string  `json:"source"`
	Summary   Summary `json:"summary"`
	Passed    bool    `json:"passed"`
}

// NewScanEntry condenses a report into a history entry stamped at at (UTC).
func NewScanEntry(r *ScanReport, at time.Time) ScanEntry {
	return ScanEntry{
		Timestamp: at.UTC().Format(time.RFC3339),
		Commit:    r.Commit,
		Source:    r.Source,
		Summary:   r.Summary,
		Passed:    r.Gate.Passed,
	}
}

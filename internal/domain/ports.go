package domain

import "context"

// MetadataProvider yields normalized capability metadata for a target
// (a metadata file, a directory of them, or an MCP server command).
type MetadataProvider interface {
	Discover(ctx context.Context, target string) (*Discovery, error)
}

// ConfigLoader loads scan configuration. An empty path means the default
// file in dir, which may be absent.
type ConfigLoader interface {
	Load(dir, path string) (ScanConfig, error)
}

// GitInfo resolves provenance for a scanned path.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// BaselineStore persists fingerprints of accepted findings.
type BaselineStore interface {
	Load(path string) (map[string]bool, error)
	Save(path string, findings []Finding) error
}

// ScanHistory appends and reads scan summaries over time.
type ScanHistory interface {
	Save(path string, entry ScanEntry) error
	Load(path string) ([]ScanEntry, error)
}

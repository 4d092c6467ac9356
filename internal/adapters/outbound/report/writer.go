package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// Format is an output artifact type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// AllFormats lists every format in export order.
var AllFormats = []Format{FormatJSON, FormatSARIF, FormatCSV, FormatMarkdown}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ParseFormats accepts a comma-separated list of formats or "all".
// Duplicates are dropped; order follows AllFormats.
func ParseFormats(specs ...string) ([]Format, error) {
	want := map[Format]bool{}
	for _, spec := range specs {
		for _, name := range strings.Split(spec, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			switch name {
			case "":
				continue
			case "all":
				for _, f := range AllFormats {
					want[f] = true
				}
			case "md":
				want[FormatMarkdown] = true
			default:
				f := Format(name)
				if f.writer() == nil {
					return nil, fmt.Errorf("unknown format %q (valid: json, sarif, csv, markdown, all)", name)
				}
				want[f] = true
			}
		}
	}

	out := make([]Format, 0, len(want))
	for _, f := range AllFormats {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r *domain.ScanReport) error {
	fn := f.writer()
	if fn == nil {
		return fmt.Errorf("unknown format %q", f)
	}
	return fn(w, r)
}

func (f Format) writer() func(io.Writer, *domain.ScanReport) error {
	switch f {
	case FormatJSON:
		return WriteJSON
	case FormatSARIF:
		return WriteSARIF
	case FormatCSV:
		return WriteCSV
	case FormatMarkdown:
		return WriteMarkdown
	default:
		return nil
	}
}

// Artifact is the outcome of writing one format.
type Artifact struct {
	Format Format
	Path   string
	Err    error
}

// Export writes every format to dir/base.<ext>. Each artifact is attempted
// regardless of earlier failures.
func Export(dir, base string, formats []Format, r *domain.ScanReport) []Artifact {
	if dir == "" {
		dir = "."
	}
	artifacts := make([]Artifact, 0, len(formats))
	if err := os.MkdirAll(dir, 0755); err != nil {
		for _, f := range formats {
			artifacts = append(artifacts, Artifact{Format: f, Err: fmt.Errorf("creating %s: %w", dir, err)})
		}
		return artifacts
	}

	for _, f := range formats {
		path := filepath.Join(dir, base+"."+f.Extension())
		artifacts = append(artifacts, Artifact{Format: f, Path: path, Err: writeFile(path, f, r)})
	}
	return artifacts
}

// Errors joins the failures of a set of artifacts, or returns nil.
func Errors(artifacts []Artifact) error {
	var errs []error
	for _, a := range artifacts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%s report: %w", a.Format, a.Err))
		}
	}
	return errors.Join(errs...)
}

func writeFile(path string, f Format, r *domain.ScanReport) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(out, f, r)
}

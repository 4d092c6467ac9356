// Package report renders scan reports as JSON, SARIF, CSV and Markdown.
package report

import (
	"encoding/json"
	"io"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// WriteJSON writes the structured report, indented, with a trailing newline.
func WriteJSON(w io.Writer, r *domain.ScanReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

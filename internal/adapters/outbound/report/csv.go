package report

import (
	"encoding/csv"
	"io"

	"github.com/mcpscan/mcpscan/internal/domain"
)

var csvHeader = []string{"Category", "Severity", "CWE", "Title", "Description", "Location", "Recommendation", "Evidence"}

// WriteCSV writes one RFC 4180 row per finding after a header row.
func WriteCSV(w io.Writer, r *domain.ScanReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range r.Findings {
		row := []string{
			string(f.Category),
			f.Severity.Label(),
			f.ClassificationCode,
			f.Title,
			f.Description,
			f.Location,
			f.Recommendation,
			f.Evidence,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package report

import (
	"encoding/json"
	"io"

	"gokea/domain/run"
)

// JSONWriter writes the manifest and the ranked kinases as one document.
type JSONWriter struct {
	Indent bool
}

func (JSONWriter) Format() string { return FormatJSON }

func (j JSONWriter) Write(w io.Writer, report *run.Report) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

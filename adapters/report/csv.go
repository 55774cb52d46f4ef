// Package report renders ranked enrichment runs as delimited, JSON,
// Markdown and HTML documents.
package report

import (
	"encoding/csv"
	"io"

	"gokea/domain/kinase"
	"gokea/domain/run"
)

// CSVWriter writes the comma-delimited report: the fixed header and one row
// per kinase in ranked order.
type CSVWriter struct{}

func (CSVWriter) Format() string { return FormatCSV }

func (CSVWriter) Write(w io.Writer, report *run.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(kinase.Header); err != nil {
		return err
	}
	for _, k := range report.Kinases {
		if err := cw.Write(k.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gokea/adapters/excel"
	"gokea/internal/errors"
	"gokea/ports"
)

// Supported formats
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatXLSX     = "xlsx"
)

var writers = map[string]func() ports.ReportWriter{
	FormatCSV:      func() ports.ReportWriter { return CSVWriter{} },
	FormatJSON:     func() ports.ReportWriter { return JSONWriter{Indent: true} },
	FormatMarkdown: func() ports.ReportWriter { return MarkdownWriter{} },
	FormatHTML:     func() ports.ReportWriter { return HTMLWriter{} },
	FormatXLSX:     func() ports.ReportWriter { return excel.ReportWriter{} },
}

// NewWriter returns the writer for format; "markdown" is accepted for md.
func NewWriter(format string) (ports.ReportWriter, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "markdown" {
		format = FormatMarkdown
	}
	if format == "" {
		format = FormatCSV
	}
	factory, ok := writers[format]
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported report format %q (supported: %s)",
			format, strings.Join(Formats(), ", ")))
	}
	return factory(), nil
}

// FormatForPath infers a format from the output file extension, falling
// back to fallback when the extension is unknown.
func FormatForPath(path, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "markdown" {
		ext = FormatMarkdown
	}
	if _, ok := writers[ext]; ok {
		return ext
	}
	return fallback
}

// Formats lists the supported format names
func Formats() []string {
	out := make([]string, 0, len(writers))
	for f := range writers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

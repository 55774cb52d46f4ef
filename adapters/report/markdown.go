package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gokea/domain/kinase"
	"gokea/domain/run"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownWriter writes a run summary followed by the ranking as a table.
type MarkdownWriter struct{}

func (MarkdownWriter) Format() string { return FormatMarkdown }

func (MarkdownWriter) Write(w io.Writer, report *run.Report) error {
	_, err := w.Write(renderMarkdown(report))
	return err
}

// HTMLWriter renders the Markdown report into a standalone HTML page.
type HTMLWriter struct {
	Title string
}

func (HTMLWriter) Format() string { return FormatHTML }

func (h HTMLWriter) Write(w io.Writer, report *run.Report) error {
	title := h.Title
	if title == "" {
		title = "Kinase Enrichment Analysis"
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	_, err := w.Write(markdown.ToHTML(renderMarkdown(report), p, renderer))
	return err
}

func renderMarkdown(report *run.Report) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Kinase Enrichment Analysis\n\n")
	if report.Manifest != nil {
		for _, pair := range report.Manifest.Pairs() {
			fmt.Fprintf(&buf, "- **%s**: %s\n", pair[0], escapeCell(pair[1]))
		}
		buf.WriteString("\n")
	}

	if len(report.Kinases) == 0 {
		buf.WriteString("No kinase is enriched for this input.\n")
		return buf.Bytes()
	}

	writeRow(&buf, kinase.Header)
	sep := make([]string, len(kinase.Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&buf, sep)
	for _, k := range report.Kinases {
		writeRow(&buf, k.Row())
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("|")
	for _, c := range cells {
		buf.WriteString(" ")
		buf.WriteString(escapeCell(c))
		buf.WriteString(" |")
	}
	buf.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Package excel reads gene lists from and writes enrichment reports to
// Excel workbooks.
package excel

import (
	"fmt"
	"os"
	"strings"

	"gokea/internal"
	"gokea/internal/errors"

	"github.com/xuri/excelize/v2"
)

// GeneListReader reads a gene list from column A of the first worksheet
type GeneListReader struct {
	filePath string
	logger   *internal.Logger
}

// NewGeneListReader creates a reader for filePath
func NewGeneListReader(filePath string, logger *internal.Logger) *GeneListReader {
	if logger == nil {
		logger = internal.Discard
	}
	return &GeneListReader{filePath: filePath, logger: logger}
}

// ReadLines returns one entry per worksheet row so that row numbers line up
// with the line numbers reported by gene list validation. Empty rows and
// rows with an empty first cell become empty lines.
func (r *GeneListReader) ReadLines() ([]string, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.InvalidInput("XLSX file not found: "+r.filePath, err)
	}

	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.InvalidInput("failed to open Excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("failed to read gene list", fmt.Errorf("workbook %s has no worksheets", r.filePath))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.InvalidInput("failed to read "+sheets[0], err)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			lines[i] = strings.TrimSpace(row[0])
		}
	}
	r.logger.Debug("excel: read %d rows from %s!%s", len(lines), r.filePath, sheets[0])
	return lines, nil
}

package excel

import (
	"io"
	"strconv"

	"gokea/domain/kinase"
	"gokea/domain/run"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook
const (
	KinaseSheet = "Kinases"
	RunSheet    = "Run"
)

// ReportWriter writes the ranking to a "Kinases" sheet using the delimited
// report header, and the run manifest to a "Run" sheet.
type ReportWriter struct{}

func (ReportWriter) Format() string { return "xlsx" }

func (ReportWriter) Write(w io.Writer, report *run.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", KinaseSheet); err != nil {
		return err
	}

	for i, h := range kinase.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(KinaseSheet, cell, h); err != nil {
			return err
		}
	}

	for r, k := range report.Kinases {
		rowIdx := r + 2
		for c, v := range kinaseCells(k) {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(KinaseSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if report.Manifest != nil {
		if _, err := f.NewSheet(RunSheet); err != nil {
			return err
		}
		for i, pair := range report.Manifest.Pairs() {
			row := strconv.Itoa(i + 1)
			if err := f.SetCellValue(RunSheet, "A"+row, pair[0]); err != nil {
				return err
			}
			if err := f.SetCellValue(RunSheet, "B"+row, pair[1]); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// kinaseCells keeps numbers numeric so spreadsheet sorting works.
func kinaseCells(k *kinase.Kinase) []interface{} {
	row := k.Row()
	return []interface{}{
		k.Name(),
		k.EnrichedCount(),
		k.SubstrateCount(),
		k.FractionInput(),
		k.FractionBackground(),
		k.Difference(),
		k.PValue(),
		k.ZScore(),
		k.CombinedScore(),
		row[len(row)-1],
	}
}

// Package xlsx writes extraction results to an Excel workbook.
package xlsx

import (
	"context"
	"fmt"

	"github.com/fwojciec/webtab"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultSheet is written when no result produced a table with rows.
	DefaultSheet = "Default"

	// EmptyNote is the message placed on DefaultSheet.
	EmptyNote = "No valid data was processed."

	// initialSheet is the sheet every new excelize workbook starts with.
	initialSheet = "Sheet1"
)

var _ webtab.Exporter = (*Exporter)(nil)

// Exporter writes one worksheet per successful result to a file.
type Exporter struct {
	path string
}

// NewExporter returns an Exporter that saves the workbook at path. The
// path must carry an .xlsx extension.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Path returns the workbook location.
func (e *Exporter) Path() string {
	return e.path
}

// Export writes the workbook, replacing any existing file. Results that
// failed, came back empty, or hold a header without rows get no sheet.
func (e *Exporter) Export(ctx context.Context, results []*webtab.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	written := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Status() != webtab.StatusOK || len(r.Table.Rows) == 0 {
			continue
		}
		if err := writeTable(f, r.Sheet, r.Table); err != nil {
			return fmt.Errorf("write sheet %s: %w", r.Sheet, err)
		}
		written++
	}

	if written == 0 {
		note := &webtab.Table{Header: []string{"Note"}, Rows: [][]string{{EmptyNote}}}
		if err := writeTable(f, DefaultSheet, note); err != nil {
			return fmt.Errorf("write sheet %s: %w", DefaultSheet, err)
		}
	}

	if err := f.DeleteSheet(initialSheet); err != nil {
		return fmt.Errorf("remove %s: %w", initialSheet, err)
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeTable adds a sheet with the header in row 1 and data below it.
func writeTable(f *excelize.File, name string, table *webtab.Table) error {
	if name == "" {
		return webtab.Errorf(webtab.EINVALID, "sheet name required")
	}
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	rows := append([][]string{table.Header}, table.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	return nil
}

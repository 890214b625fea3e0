// Package pdf renders extraction results as a printable PDF report.
package pdf

import (
	"context"
	"fmt"

	"github.com/fwojciec/webtab"
	"github.com/jung-kurt/gofpdf"
)

// EmptyNote is printed when no result produced a table with rows.
const EmptyNote = "No valid data was processed."

const (
	fontFamily = "Helvetica"
	rowHeight  = 6.0
	ellipsis   = "..."

	// cellPadding covers the default left and right cell margins.
	cellPadding = 2.0
)

var _ webtab.Exporter = (*Exporter)(nil)

// Exporter writes one landscape section per successful result to a PDF.
type Exporter struct {
	path string
}

// NewExporter returns an Exporter that saves the report at path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Export writes the report, replacing any existing file. Results are
// filtered like the workbook exporter: failed, empty and header-only
// results get no section, nor do tables without columns.
func (e *Exporter) Export(ctx context.Context, results []*webtab.Result) error {
	doc, err := render(ctx, results)
	if err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(e.path); err != nil {
		return fmt.Errorf("save report %s: %w", e.path, err)
	}
	return nil
}

func render(ctx context.Context, results []*webtab.Result) (*gofpdf.Fpdf, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetTitle("webtab results", true)
	doc.SetAutoPageBreak(true, 15)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	written := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.Status() != webtab.StatusOK || len(r.Table.Header) == 0 || len(r.Table.Rows) == 0 {
			continue
		}
		writeSection(doc, tr, r.Sheet, r.Request.URL, r.Table)
		written++
	}
	if written == 0 {
		doc.AddPage()
		doc.SetFont(fontFamily, "", 11)
		doc.CellFormat(0, rowHeight, EmptyNote, "", 1, "L", false, 0, "")
	}

	if doc.Err() {
		return nil, fmt.Errorf("render report: %w", doc.Error())
	}
	return doc, nil
}

func writeSection(doc *gofpdf.Fpdf, tr func(string) string, title, source string, t *webtab.Table) {
	doc.AddPage()
	doc.SetFont(fontFamily, "B", 14)
	doc.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	doc.SetFont(fontFamily, "", 9)
	doc.CellFormat(0, 5, tr(source), "", 1, "L", false, 0, "")
	doc.Ln(2)

	pageWidth, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	width := (pageWidth - left - right) / float64(len(t.Header))

	doc.SetFont(fontFamily, "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, cell := range t.Header {
		doc.CellFormat(width, rowHeight, fit(doc, tr(cell), width), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont(fontFamily, "", 10)
	for _, row := range t.Rows {
		for i := range t.Header {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			doc.CellFormat(width, rowHeight, fit(doc, tr(cell), width), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
}

// fit shortens s with an ellipsis until it fits a cell of width w. s is
// already translated to a single-byte code page.
func fit(doc *gofpdf.Fpdf, s string, w float64) string {
	limit := w - cellPadding
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	for n := len(s) - 1; n > 0; n-- {
		if doc.GetStringWidth(s[:n]+ellipsis) <= limit {
			return s[:n] + ellipsis
		}
	}
	return ""
}

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

const (
	pdfRowHeight = 7.0
	pdfTitle     = "Transactions"
)

// Column widths in mm for an A4 landscape page with 10mm margins.
var pdfWidths = []float64{62, 22, 28, 40, 26, 99}

// PDFExporter writes a paginated landscape table with a title and the export
// metadata on the first page. The header row repeats on every page.
type PDFExporter struct {
	Now func() time.Time
}

func (PDFExporter) Format() Format { return FormatPDF }

func (e PDFExporter) Export(_ context.Context, records []core.Record, target string) error {
	if err := checkRecords(records); err != nil {
		return err
	}
	meta := newMetadata(clock(e.Now), len(records))

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.SetTitle(pdfTitle, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range sheets.RecordHeader {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, pdfTitle, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Exported %s  |  %s  |  %d records",
		meta.ExportDate, meta.DataType, meta.TotalRecords), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, r := range records {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom-5 {
			pdf.AddPage()
			header()
		}
		cells := []string{r.ID, r.Type, string(r.Amount), r.Category, r.Date, description(r)}
		for i, c := range cells {
			align := "L"
			if i == 2 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, fit(pdf, tr(c), pdfWidths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := pdf.OutputFileAndClose(target); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit truncates s with an ellipsis so it stays inside width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

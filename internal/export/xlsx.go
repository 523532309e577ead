package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

// XLSXSheet is the worksheet written by XLSXExporter.
const XLSXSheet = "Transactions"

type XLSXExporter struct{}

func (XLSXExporter) Format() Format { return FormatXLSX }

// Export writes one worksheet with a bold header row. Amounts are numeric cells.
func (XLSXExporter) Export(_ context.Context, records []core.Record, target string) error {
	if err := checkRecords(records); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(sheets.RecordHeader))
	for i, h := range sheets.RecordHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(XLSXSheet, "A1", "F1", style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range records {
		amount, err := decimal.NewFromString(string(r.Amount))
		if err != nil {
			return fmt.Errorf("record %s amount %q: %w", r.ID, r.Amount, core.ErrInvalidAmount)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.ID, r.Type, amount.InexactFloat64(), r.Category, r.Date, description(r)}
		if err := f.SetSheetRow(XLSXSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	if err := f.SetColWidth(XLSXSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(XLSXSheet, "D", "F", 16); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := f.SaveAs(target); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

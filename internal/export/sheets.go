package export

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/sheets"
)

// SheetsExporter replaces a spreadsheet tab with the records. The target is
// the tab name.
type SheetsExporter struct {
	writer sheets.RecordWriter
}

func NewSheetsExporter(w sheets.RecordWriter) *SheetsExporter {
	return &SheetsExporter{writer: w}
}

func (*SheetsExporter) Format() Format { return FormatSheets }

func (e *SheetsExporter) Export(ctx context.Context, records []core.Record, target string) error {
	if err := checkRecords(records); err != nil {
		return err
	}
	ref, err := e.writer.WriteRecords(ctx, target, records)
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", target, err)
	}
	slog.DebugContext(ctx, "Sheet updated",
		applog.FieldComponent, applog.ComponentExport,
		"range", ref)
	return nil
}

package export

import (
	"context"
	"encoding/csv"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

type CSVExporter struct{}

func (CSVExporter) Format() Format { return FormatCSV }

// Export writes a header row and one row per record. A missing description is
// an empty cell.
func (CSVExporter) Export(_ context.Context, records []core.Record, target string) (err error) {
	if err := checkRecords(records); err != nil {
		return err
	}
	f, err := createFile(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(sheets.RecordHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{r.ID, r.Type, string(r.Amount), r.Category, r.Date, description(r)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

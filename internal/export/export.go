// Package export renders transaction records to files and spreadsheets.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/sheets"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatYAML   Format = "yaml"
	FormatPDF    Format = "pdf"
	FormatSheets Format = "sheets"
)

var (
	ErrNoRecords     = errors.New("no transactions to export")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatXLSX, FormatYAML, FormatPDF, FormatSheets}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatYAML, FormatPDF, FormatSheets:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w %q: must be one of %v", ErrUnknownFormat, s, Formats())
}

// Extension is the file extension of f; empty for formats that do not write files.
func (f Format) Extension() string {
	if f == FormatSheets {
		return ""
	}
	return string(f)
}

// IsFile reports whether f writes a local file.
func (f Format) IsFile() bool {
	return f.Extension() != ""
}

// Exporter renders records to target, a file path or a sheet name.
type Exporter interface {
	Format() Format
	Export(ctx context.Context, records []core.Record, target string) error
}

// New returns the exporter for f. writer is required only for FormatSheets.
func New(f Format, writer sheets.RecordWriter) (Exporter, error) {
	switch f {
	case FormatCSV:
		return CSVExporter{}, nil
	case FormatJSON:
		return JSONExporter{}, nil
	case FormatXLSX:
		return XLSXExporter{}, nil
	case FormatYAML:
		return YAMLExporter{}, nil
	case FormatPDF:
		return PDFExporter{}, nil
	case FormatSheets:
		if writer == nil {
			return nil, errors.New("sheets export requires a configured spreadsheet (set GOOGLE_SPREADSHEET_ID)")
		}
		return NewSheetsExporter(writer), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// FileName builds dir/export_<dataType>_<filterType>_<filterValue>_<timestamp>.<ext>.
func FileName(dir, dataType, filterType, filterValue string, f Format, now time.Time) string {
	name := fmt.Sprintf("export_%s_%s_%s_%s.%s",
		dataType, filterType, sanitize(filterValue), now.Format("2006-01-02_15-04-05"), f.Extension())
	return filepath.Join(dir, name)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, s)
}

// Result reports the outcome of one exporter in a Run.
type Result struct {
	Format Format
	Target string
	Count  int
	Err    error
}

// Run renders records with every exporter, at most workers at a time. One
// exporter failing does not stop the others; results keep the exporters' order.
func Run(ctx context.Context, exporters []Exporter, records []core.Record, target func(Format) string, workers int) []Result {
	results := make([]Result, len(exporters))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, e := range exporters {
		results[i] = Result{Format: e.Format(), Target: target(e.Format()), Count: len(records)}
		g.Go(func() error {
			start := time.Now()
			err := e.Export(ctx, records, results[i].Target)
			results[i].Err = err
			if err != nil {
				slog.WarnContext(ctx, "Export failed",
					applog.FieldComponent, applog.ComponentExport,
					applog.FieldOperation, applog.OpExport,
					applog.FieldFormat, string(e.Format()),
					applog.FieldPath, results[i].Target,
					applog.FieldError, err.Error())
				return nil
			}
			slog.InfoContext(ctx, "Export complete",
				applog.FieldComponent, applog.ComponentExport,
				applog.FieldOperation, applog.OpExport,
				applog.FieldFormat, string(e.Format()),
				applog.FieldPath, results[i].Target,
				applog.FieldCount, len(records),
				applog.FieldDuration, time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkRecords(records []core.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	return nil
}

// createFile opens target for writing, creating its directory.
func createFile(target string) (*os.File, error) {
	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	return f, nil
}

func description(r core.Record) string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

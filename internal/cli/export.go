package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/filter"
	applog "ledger/internal/log"
	"ledger/internal/sheets"
	"ledger/internal/sheets/google"
)

func (a *app) exportCommand() *cobra.Command {
	var (
		ff      filterFlags
		formats []string
		dir     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected transactions to files or a spreadsheet",
		Long: `Write the selected transactions in one or more formats: csv, json, xlsx,
yaml, pdf and sheets (Google Sheets, needs GOOGLE_SPREADSHEET_ID and service
account credentials). Files are named
export_<type>_<filter>_<value>_<timestamp>.<ext>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := ff.criteria()
			if err != nil {
				return err
			}
			var parsed []export.Format
			for _, f := range formats {
				format, err := export.ParseFormat(f)
				if err != nil {
					return err
				}
				parsed = append(parsed, format)
			}

			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			matched, err := filter.Apply(l.Transactions(), c)
			if err != nil {
				return err
			}
			records := core.Records(filter.Sort(matched, filter.SortDate, false))
			if len(records) == 0 {
				return export.ErrNoRecords
			}

			exporters, err := a.exporters(ctx, parsed)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = a.cfg.Export.Dir
			}
			dataType := "both"
			if c.Type != "" {
				dataType = string(c.Type)
			}
			filterType, filterValue := dimensionValue(c)
			now := a.now()
			target := func(f export.Format) string {
				if !f.IsFile() {
					return a.cfg.Google.SheetName
				}
				return export.FileName(dir, dataType, filterType, filterValue, f, now)
			}

			var failed []error
			for _, r := range export.Run(ctx, exporters, records, target, a.cfg.Export.Workers) {
				if r.Err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", r.Format, r.Err))
					continue
				}
				fmt.Fprintf(a.out, "Exported %d records to %s (%s)\n", r.Count, r.Target, r.Format)
			}
			return errors.Join(failed...)
		},
	}
	ff.bind(cmd, true)
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{string(export.FormatCSV)}, "Output formats, repeatable")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from configuration)")
	return cmd
}

func (a *app) exporters(ctx context.Context, formats []export.Format) ([]export.Exporter, error) {
	var writer sheets.RecordWriter
	out := make([]export.Exporter, 0, len(formats))
	for _, f := range formats {
		if f == export.FormatSheets && writer == nil && a.cfg.Google.Configured() {
			client, err := google.New(ctx, google.Config{
				SpreadsheetID:          a.cfg.Google.SpreadsheetID,
				ServiceAccountJSON:     a.cfg.Google.ServiceAccountJSON,
				ServiceAccountFile:     a.cfg.Google.ServiceAccountFile,
				ApplicationCredentials: a.cfg.Google.ApplicationCredentials,
			})
			if err != nil {
				return nil, err
			}
			writer = client
			applog.FromContext(ctx).WithComponent(applog.ComponentSheets).
				DebugContext(ctx, "Google Sheets client ready")
		}
		e, err := export.New(f, writer)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

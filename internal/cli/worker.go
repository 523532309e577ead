package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/amqp"
	applog "ledger/internal/log"
	"ledger/internal/sheets/google"
	"ledger/internal/worker"
)

func (a *app) workerCommand() *cobra.Command {
	var skipStartup bool
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Mirror ledgers to Google Sheets as change notifications arrive",
		Long: `Consume ledger change notifications from AMQP and rewrite the changed
user's tab ("<sheet name> <user id>") in the configured spreadsheet. Needs
AMQP_URL, GOOGLE_SPREADSHEET_ID and service account credentials. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := applog.FromContext(ctx).WithComponent(applog.ComponentSheets)
			if !a.cfg.AMQP.Enabled() {
				return errors.New("worker requires AMQP_URL")
			}
			if !a.cfg.Google.Configured() {
				return errors.New("worker requires GOOGLE_SPREADSHEET_ID")
			}

			res, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			client, err := google.New(ctx, google.Config{
				SpreadsheetID:          a.cfg.Google.SpreadsheetID,
				ServiceAccountJSON:     a.cfg.Google.ServiceAccountJSON,
				ServiceAccountFile:     a.cfg.Google.ServiceAccountFile,
				ApplicationCredentials: a.cfg.Google.ApplicationCredentials,
			})
			if err != nil {
				return fmt.Errorf("initialize Google Sheets client: %w", err)
			}
			consumer, err := amqp.NewClient(a.cfg.AMQP.URL, a.cfg.AMQP.Exchange, a.cfg.AMQP.Queue)
			if err != nil {
				return fmt.Errorf("initialize AMQP client: %w", err)
			}
			defer consumer.Close()

			w := worker.NewSyncWorker(res.Stores, client, a.cfg.Google.SheetName)
			if !skipStartup {
				ids, err := a.accounts.IDs()
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "Performing startup sync", applog.FieldCount, len(ids))
				if err := w.SyncUsers(ctx, ids); err != nil {
					logger.ErrorContext(ctx, "Startup sync incomplete", applog.FieldError, err.Error())
				}
			}

			logger.InfoContext(ctx, "Waiting for ledger changes", "queue", a.cfg.AMQP.Queue)
			err = consumer.ConsumeLedgerChanges(ctx, func(msg *amqp.LedgerChangeMessage) error {
				return w.HandleLedgerChange(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				logger.InfoContext(ctx, "Worker stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&skipStartup, "skip-startup-sync", false, "Do not mirror every user before consuming")
	return cmd
}

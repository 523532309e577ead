// Package worker mirrors user ledgers into spreadsheet tabs as change
// notifications arrive.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/filter"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/sheets"
)

// ErrMirrorMismatch is returned when a tab read back after a write does not
// hold the records that were written.
var ErrMirrorMismatch = errors.New("sheet does not match the ledger")

// Stores hands out the transaction store of each user.
type Stores interface {
	ForUser(userID string) ledger.Store
}

// SyncWorker rewrites the tab of a user whenever that user's ledger changes.
// Each tab holds the full ledger, so a lost message is repaired by the next one
// or by SyncUsers.
type SyncWorker struct {
	stores Stores
	writer sheets.RecordWriter
	prefix string
}

func NewSyncWorker(stores Stores, writer sheets.RecordWriter, sheetPrefix string) *SyncWorker {
	return &SyncWorker{stores: stores, writer: writer, prefix: sheetPrefix}
}

// SheetFor names the tab mirroring userID.
func (w *SyncWorker) SheetFor(userID string) string {
	if w.prefix == "" {
		return userID
	}
	return w.prefix + " " + userID
}

// HandleLedgerChange processes a single change message from AMQP.
func (w *SyncWorker) HandleLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldUserID, msg.UserID,
		applog.FieldTransactionID, msg.TransactionID,
		applog.FieldOperation, msg.Operation)

	if msg.UserID == "" {
		return fmt.Errorf("ledger change %s has no user id", msg.TransactionID)
	}
	return w.syncUser(ctx, msg.UserID)
}

// SyncUsers mirrors every listed user. It is the startup check for messages
// lost while the worker was down; failures are logged and the rest continue.
func (w *SyncWorker) SyncUsers(ctx context.Context, userIDs []string) error {
	var failed int
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.syncUser(ctx, id); err != nil {
			failed++
			slog.ErrorContext(ctx, "Failed to sync user",
				applog.FieldComponent, applog.ComponentSheets,
				applog.FieldUserID, id,
				applog.FieldError, err.Error())
		}
	}
	if failed > 0 {
		return fmt.Errorf("sync failed for %d of %d users", failed, len(userIDs))
	}
	return nil
}

func (w *SyncWorker) syncUser(ctx context.Context, userID string) error {
	start := time.Now()
	txns, err := w.stores.ForUser(userID).Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger of %s: %w", userID, err)
	}
	records := core.Records(filter.Sort(txns, filter.SortDate, false))

	sheet := w.SheetFor(userID)
	ref, err := w.writer.WriteRecords(ctx, sheet, records)
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", sheet, err)
	}
	if reader, ok := w.writer.(sheets.RecordReader); ok {
		if err := verify(ctx, reader, sheet, records); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Ledger mirrored to sheet",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldUserID, userID,
		applog.FieldCount, len(records),
		"range", ref,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// verify reads sheet back and compares ids and amounts row by row.
func verify(ctx context.Context, reader sheets.RecordReader, sheet string, want []core.Record) error {
	got, err := reader.ReadRecords(ctx, sheet)
	if err != nil {
		return fmt.Errorf("read back sheet %s: %w", sheet, err)
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrMirrorMismatch, sheet, len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Amount != want[i].Amount {
			return fmt.Errorf("%w: %s row %d is %s %s, want %s %s", ErrMirrorMismatch,
				sheet, i+2, got[i].ID, got[i].Amount, want[i].ID, want[i].Amount)
		}
	}
	return nil
}

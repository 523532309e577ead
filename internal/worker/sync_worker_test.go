package worker

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/sheets/memory"
	"ledger/internal/storage"
)

func seed(t *testing.T, stores *storage.MemoryStore, userID string, txns ...core.Transaction) {
	t.Helper()
	m := map[string]core.Transaction{}
	for _, txn := range txns {
		m[txn.ID] = txn
	}
	if err := stores.ForUser(userID).Save(context.Background(), m); err != nil {
		t.Fatal(err)
	}
}

func TestHandleLedgerChange(t *testing.T) {
	ctx := context.Background()
	stores := storage.NewMemoryStore()
	seed(t, stores, "u001",
		core.NewTransaction(core.Expense, core.Money{Cents: 30050}, "Food", "2024-01-10", core.WithID("B")),
		core.NewTransaction(core.Income, core.Money{Cents: 100000}, "Salary", "2024-01-05", core.WithID("A")),
	)
	sheet := memory.New()
	w := NewSyncWorker(stores, sheet, "Ledger")

	msg := &amqp.LedgerChangeMessage{UserID: "u001", TransactionID: "B", Operation: string(ledger.OpAdd)}
	if err := w.HandleLedgerChange(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerChange: %v", err)
	}

	got, err := sheet.ReadRecords(ctx, "Ledger u001")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "A" || got[1].Amount != "300.50" {
		t.Errorf("tab = %+v, want A then B", got)
	}

	if err := w.HandleLedgerChange(ctx, &amqp.LedgerChangeMessage{TransactionID: "B"}); err == nil {
		t.Error("message without user should fail")
	}
}

func TestSyncUsers(t *testing.T) {
	ctx := context.Background()
	stores := storage.NewMemoryStore()
	seed(t, stores, "u001", core.NewTransaction(core.Income, core.Money{Cents: 100}, "Salary", "2024-01-05", core.WithID("A")))
	sheet := memory.New()
	w := NewSyncWorker(stores, sheet, "")

	if err := w.SyncUsers(ctx, []string{"u001", "u002"}); err != nil {
		t.Fatalf("SyncUsers: %v", err)
	}
	if got, _ := sheet.ReadRecords(ctx, "u002"); len(got) != 0 {
		t.Errorf("empty ledger should produce an empty tab, got %v", got)
	}
	if got, _ := sheet.ReadRecords(ctx, "u001"); len(got) != 1 {
		t.Errorf("u001 tab = %v", got)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := w.SyncUsers(cancelled, []string{"u001"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// lossyWriter drops the last record of every write.
type lossyWriter struct{ *memory.Store }

func (l lossyWriter) WriteRecords(ctx context.Context, sheet string, records []core.Record) (string, error) {
	if len(records) > 0 {
		records = records[:len(records)-1]
	}
	return l.Store.WriteRecords(ctx, sheet, records)
}

func TestSyncVerifiesWrittenTab(t *testing.T) {
	ctx := context.Background()
	stores := storage.NewMemoryStore()
	seed(t, stores, "u001",
		core.NewTransaction(core.Income, core.Money{Cents: 100}, "Salary", "2024-01-05", core.WithID("A")),
		core.NewTransaction(core.Expense, core.Money{Cents: 250}, "Food", "2024-01-06", core.WithID("B")),
	)

	w := NewSyncWorker(stores, lossyWriter{memory.New()}, "Ledger")
	err := w.HandleLedgerChange(ctx, &amqp.LedgerChangeMessage{UserID: "u001", TransactionID: "B"})
	if !errors.Is(err, ErrMirrorMismatch) {
		t.Fatalf("expected ErrMirrorMismatch, got %v", err)
	}
	if err := w.SyncUsers(ctx, []string{"u001"}); err == nil {
		t.Error("SyncUsers should report the mismatched user")
	}
}

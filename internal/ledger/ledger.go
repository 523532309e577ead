// Package ledger owns the transaction set of one user and persists it after
// every mutation.
//
// Each mutation rewrites the whole store, so its cost grows with the ledger
// size. That is fine for single-user ledgers and keeps every change durable;
// the Store port is where an incremental backend would plug in. The backing
// store is not locked: two processes writing the same user's ledger will
// overwrite each other (last writer wins).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// ErrDuplicateID rejects an Add whose id is already present.
var ErrDuplicateID = fmt.Errorf("%w: transaction id already exists", core.ErrValidation)

// Ledger is not safe for concurrent use.
type Ledger struct {
	userID   string
	store    Store
	notifier Notifier
	now      func() time.Time
	txns     map[string]core.Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithUser tags log lines and change notifications with the owning user id.
func WithUser(id string) Option {
	return func(l *Ledger) { l.userID = id }
}

// WithNotifier publishes committed changes. A nil notifier is ignored.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// New builds a ledger over store and loads it.
func New(ctx context.Context, store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
		txns:  map[string]core.Transaction{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Load(ctx)
	return l
}

// Load replaces the in-memory set with the persisted one. Any read failure
// leaves an empty ledger and is only logged.
func (l *Ledger) Load(ctx context.Context) map[string]core.Transaction {
	txns, err := l.store.Load(ctx)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrCorruptStore) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "Transaction store unreadable, starting with an empty ledger",
			applog.NewFields().WithUser(l.userID).WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		txns = nil
	}
	if txns == nil {
		txns = map[string]core.Transaction{}
	}
	l.txns = txns
	slog.DebugContext(ctx, "Ledger loaded", applog.FieldUserID, l.userID, applog.FieldCount, len(txns))
	return l.Transactions()
}

// Save writes the full set unconditionally.
func (l *Ledger) Save(ctx context.Context) error {
	if err := l.store.Save(ctx, l.txns); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Add inserts t and persists. A duplicate id returns false and ErrDuplicateID
// without touching the ledger.
func (l *Ledger) Add(ctx context.Context, t core.Transaction) (bool, error) {
	if _, exists := l.txns[t.ID]; exists {
		return false, ErrDuplicateID
	}
	next := maps.Clone(l.txns)
	next[t.ID] = t
	if err := l.commit(ctx, next, OpAdd, t); err != nil {
		return false, err
	}
	return true, nil
}

// Update applies p to the transaction with id and persists. It returns false
// when the id is unknown. An empty patch still counts as a successful update.
func (l *Ledger) Update(ctx context.Context, id string, p core.Patch) (bool, error) {
	cur, ok := l.txns[id]
	if !ok {
		return false, nil
	}
	updated := p.Apply(cur)
	next := maps.Clone(l.txns)
	next[id] = updated
	if err := l.commit(ctx, next, OpUpdate, updated); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes id and persists. It returns false when the id is unknown.
func (l *Ledger) Delete(ctx context.Context, id string) (bool, error) {
	cur, ok := l.txns[id]
	if !ok {
		return false, nil
	}
	next := maps.Clone(l.txns)
	delete(next, id)
	if err := l.commit(ctx, next, OpDelete, cur); err != nil {
		return false, err
	}
	return true, nil
}

// commit persists next and only then makes it the live set, so a failed write
// leaves memory matching what was last stored.
func (l *Ledger) commit(ctx context.Context, next map[string]core.Transaction, op Operation, t core.Transaction) error {
	fields := applog.NewFields().
		WithUser(l.userID).
		WithOperation(string(op)).
		WithTransaction(t.ID, string(t.Type), t.Amount.Cents, t.Category)

	if err := l.store.Save(ctx, next); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger, change discarded", fields.WithError(err).ToSlice()...)
		return fmt.Errorf("%s transaction %s: %w", op, t.ID, err)
	}
	l.txns = next
	slog.InfoContext(ctx, "Ledger updated", fields.ToSlice()...)

	if l.notifier != nil {
		change := Change{UserID: l.userID, TransactionID: t.ID, Operation: op, At: l.now()}
		if err := l.notifier.Notify(ctx, change); err != nil {
			// The change is already durable.
			slog.WarnContext(ctx, "Failed to publish ledger change", fields.WithError(err).ToSlice()...)
		}
	}
	return nil
}

// Get returns the transaction with id.
func (l *Ledger) Get(id string) (core.Transaction, bool) {
	t, ok := l.txns[id]
	return t, ok
}

// Transactions returns a copy of the current set.
func (l *Ledger) Transactions() map[string]core.Transaction {
	return maps.Clone(l.txns)
}

func (l *Ledger) Len() int {
	return len(l.txns)
}

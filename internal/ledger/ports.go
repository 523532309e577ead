package ledger

import (
	"context"
	"errors"
	"time"

	"ledger/internal/core"
)

// ErrCorruptStore is returned by a Store whose persisted data cannot be decoded.
var ErrCorruptStore = errors.New("corrupt transaction store")

// Ports for outbound adapters.
type (
	// Store persists the full transaction set of one user.
	Store interface {
		// Load returns the persisted set. A store that was never written returns
		// an empty map and no error.
		Load(ctx context.Context) (map[string]core.Transaction, error)
		// Save replaces everything previously persisted with txns.
		Save(ctx context.Context, txns map[string]core.Transaction) error
	}

	// Notifier is told about each committed mutation.
	Notifier interface {
		Notify(ctx context.Context, c Change) error
	}
)

// Operation names a ledger mutation.
type Operation string

const (
	OpAdd    Operation = "add"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Change describes one committed mutation.
type Change struct {
	UserID        string
	TransactionID string
	Operation     Operation
	At            time.Time
}

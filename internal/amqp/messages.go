package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/ledger"
)

// LedgerChangeMessage announces one committed ledger mutation. Consumers
// reload the user's ledger to see the new state.
type LedgerChangeMessage struct {
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Operation     string    `json:"operation"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage builds the message for c. A zero c.At is replaced by
// the current time.
func NewLedgerChangeMessage(c ledger.Change) *LedgerChangeMessage {
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}
	return &LedgerChangeMessage{
		UserID:        c.UserID,
		TransactionID: c.TransactionID,
		Operation:     string(c.Operation),
		Timestamp:     at.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON creates a message from JSON bytes
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Record is the plain key-value form of a Transaction used on disk and by exporters.
type Record struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Description *string     `json:"description"`
}

// ToRecord converts t to its record form. The amount is written with two decimals.
func (t Transaction) ToRecord() Record {
	return Record{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      json.Number(t.Amount.String()),
		Category:    t.Category,
		Date:        string(t.Date),
		Description: t.Description,
	}
}

// FromRecord rebuilds a Transaction. The date goes through DateFromText and is not
// validated; the type and amount must be well-formed numbers/names, and an empty id
// gets a fresh one.
func FromRecord(r Record) (Transaction, error) {
	amt, err := decimal.NewFromString(string(r.Amount))
	if err != nil {
		return Transaction{}, fmt.Errorf("amount %q: %w", r.Amount, ErrInvalidAmount)
	}
	money, err := MoneyFromDecimal(amt)
	if err != nil {
		return Transaction{}, fmt.Errorf("amount %q: %w", r.Amount, err)
	}
	typ := Type(r.Type)
	if !typ.Valid() {
		return Transaction{}, fmt.Errorf("type %q: %w", r.Type, ErrInvalidType)
	}
	t := NewTransaction(typ, money, r.Category, DateFromText(r.Date), WithID(r.ID))
	if r.Description != nil {
		desc := *r.Description
		t.Description = &desc
	}
	return t, nil
}

// Records converts a collection for export.
func Records(txns []Transaction) []Record {
	out := make([]Record, len(txns))
	for i, t := range txns {
		out[i] = t.ToRecord()
	}
	return out
}

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type (
	// Type is the direction of a transaction.
	Type string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Type        Type
		Amount      Money
		Category    string
		Date        Date
		Description *string // nil when absent
	}

	// Option customises a Transaction built by NewTransaction.
	Option func(*Transaction)
)

// ErrValidation is the root of every input validation failure.
var ErrValidation = errors.New("validation error")

var (
	ErrInvalidType   = fmt.Errorf("%w: type must be 'income' or 'expense'", ErrValidation)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrValidation)
	ErrInvalidMonth  = fmt.Errorf("%w: month must be in YYYY-MM format", ErrValidation)
	ErrEmptyCategory = fmt.Errorf("%w: empty category", ErrValidation)
)

// Types lists the valid transaction types in display order.
func Types() []Type {
	return []Type{Income, Expense}
}

func (t Type) String() string {
	return string(t)
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// ParseType accepts a case-insensitive type name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// WithID keeps a caller-supplied id. An empty id is ignored.
func WithID(id string) Option {
	return func(t *Transaction) {
		if id = strings.TrimSpace(id); id != "" {
			t.ID = id
		}
	}
}

// WithDescription attaches free text. An empty string leaves the description absent.
func WithDescription(desc string) Option {
	return func(t *Transaction) {
		if desc = strings.TrimSpace(desc); desc != "" {
			t.Description = &desc
		}
	}
}

// NewTransaction builds a transaction and assigns a random id unless WithID supplies one.
// It does not validate; callers run Validate on user input first.
func NewTransaction(typ Type, amount Money, category string, date Date, opts ...Option) Transaction {
	t := Transaction{
		Type:     typ,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	for _, opt := range opts {
		opt(&t)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return t
}

// Desc returns the description or "" when absent.
func (t Transaction) Desc() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Signed returns the amount with the sign it contributes to a balance.
func (t Transaction) Signed() Money {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return Money{Cents: -t.Amount.Cents}
	}
	return Money{}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := t.Date.Time(); err != nil {
		return err
	}
	if t.Description != nil && len(*t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	return nil
}

// Package filter narrows a transaction set by type, category and one date dimension.
package filter

import (
	"fmt"

	"ledger/internal/core"
)

// Criteria selects transactions. Zero-valued fields impose no constraint.
//
// Only one date dimension is applied: Date wins over the From/To range, which
// wins over Month. The range is used only when both bounds are set.
type Criteria struct {
	Type     core.Type
	Category string
	Date     core.Date
	From     core.Date
	To       core.Date
	Month    string
}

// IsZero reports whether c imposes no constraint at all.
func (c Criteria) IsZero() bool {
	return c.Type == "" && c.Category == "" && c.DateDimension() == DimensionNone
}

// Dimension names the date filter a Criteria resolves to.
type Dimension string

const (
	DimensionNone  Dimension = "all"
	DimensionExact Dimension = "date"
	DimensionRange Dimension = "range"
	DimensionMonth Dimension = "month"
)

// DateDimension resolves the precedence between the date fields.
func (c Criteria) DateDimension() Dimension {
	switch {
	case c.Date != "":
		return DimensionExact
	case c.From != "" && c.To != "":
		return DimensionRange
	case c.Month != "":
		return DimensionMonth
	}
	return DimensionNone
}

// Apply returns the transactions matching every supplied criterion. With no
// criteria the input map itself is returned.
func Apply(txns map[string]core.Transaction, c Criteria) (map[string]core.Transaction, error) {
	if c.IsZero() {
		return txns, nil
	}
	out := txns
	if c.Type != "" {
		out = ByType(out, c.Type)
	}
	if c.Category != "" {
		out = ByCategory(out, c.Category)
	}
	switch c.DateDimension() {
	case DimensionExact:
		out = ByDate(out, c.Date)
	case DimensionRange:
		var err error
		if out, err = ByDateRange(out, c.From, c.To); err != nil {
			return nil, err
		}
	case DimensionMonth:
		out = ByMonth(out, c.Month)
	}
	return out, nil
}

func ByType(txns map[string]core.Transaction, t core.Type) map[string]core.Transaction {
	return where(txns, func(txn core.Transaction) bool { return txn.Type == t })
}

func ByCategory(txns map[string]core.Transaction, category string) map[string]core.Transaction {
	return where(txns, func(txn core.Transaction) bool { return txn.Category == category })
}

// ByDate matches the stored date text exactly.
func ByDate(txns map[string]core.Transaction, d core.Date) map[string]core.Transaction {
	return where(txns, func(txn core.Transaction) bool { return txn.Date == d })
}

// ByMonth matches dates sharing the YYYY-MM prefix.
func ByMonth(txns map[string]core.Transaction, month string) map[string]core.Transaction {
	return where(txns, func(txn core.Transaction) bool { return txn.Date.InMonth(month) })
}

// ByDateRange keeps transactions dated within [from, to]. A malformed bound or a
// stored transaction date that does not parse is an error.
func ByDateRange(txns map[string]core.Transaction, from, to core.Date) (map[string]core.Transaction, error) {
	start, err := from.Time()
	if err != nil {
		return nil, fmt.Errorf("range start %q: %w", from, err)
	}
	end, err := to.Time()
	if err != nil {
		return nil, fmt.Errorf("range end %q: %w", to, err)
	}
	out := make(map[string]core.Transaction)
	for id, txn := range txns {
		day, err := txn.Date.Time()
		if err != nil {
			return nil, fmt.Errorf("transaction %s has date %q: %w", id, txn.Date, err)
		}
		if !day.Before(start) && !day.After(end) {
			out[id] = txn
		}
	}
	return out, nil
}

func where(txns map[string]core.Transaction, keep func(core.Transaction) bool) map[string]core.Transaction {
	out := make(map[string]core.Transaction)
	for id, txn := range txns {
		if keep(txn) {
			out[id] = txn
		}
	}
	return out
}

package filter

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"ledger/internal/core"
)

// SortKey selects the ordering of a listing.
type SortKey string

const (
	SortNone   SortKey = "none"
	SortDate   SortKey = "date"
	SortAmount SortKey = "amount"
)

// ParseSortKey accepts "", none, date or amount.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SortNone:
		return SortNone, nil
	case SortDate, SortAmount:
		return k, nil
	}
	return "", fmt.Errorf("%w: sort must be one of none, date, amount", core.ErrValidation)
}

// Sort flattens txns into a slice. SortNone orders by date then id so listings
// are reproducible; descending reverses the chosen key only, ids still break ties
// ascending.
func Sort(txns map[string]core.Transaction, key SortKey, descending bool) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, txn := range txns {
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var c int
		switch key {
		case SortAmount:
			c = cmp.Compare(a.Amount.Cents, b.Amount.Cents)
		default:
			c = strings.Compare(string(a.Date), string(b.Date))
		}
		if descending && key != SortNone {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}


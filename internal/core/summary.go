package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary aggregates the transactions of one period.
type Summary struct {
	Period       string // the date or month the summary covers
	Income       Money
	Expense      Money
	NumIncome    int
	NumExpense   int
	Balance      Money            // Income - Expense
	CarryForward Money            // net balance strictly before the period
	Breakdown    map[string]Money // expense totals by category
}

// ClosingBalance is the carry-forward plus the period balance.
func (s Summary) ClosingBalance() Money {
	return s.CarryForward.Add(s.Balance)
}

// SortedBreakdown returns the breakdown by descending amount, ties by name.
func (s Summary) SortedBreakdown() []CategoryAmount {
	return RankCategories(s.Breakdown)
}

// RankCategories orders totals by descending amount, breaking ties by
// ascending category name so output is stable across runs.
func RankCategories(totals map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for name, amt := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Categories holds the allowed category names per transaction type.
type Categories struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

// DefaultCategories is the list every new account starts with.
func DefaultCategories() Categories {
	return Categories{
		Income:  []string{"Salary", "Freelance", "Bonus", "Interest", "Other"},
		Expense: []string{"Food", "Rent", "Utilities", "Transport", "Entertainment", "Health", "Shopping", "Other"},
	}
}

// For returns the list for a type, or nil for an unknown type.
func (c Categories) For(t Type) []string {
	switch t {
	case Income:
		return c.Income
	case Expense:
		return c.Expense
	}
	return nil
}

// Clone returns a deep copy.
func (c Categories) Clone() Categories {
	return Categories{
		Income:  append([]string(nil), c.Income...),
		Expense: append([]string(nil), c.Expense...),
	}
}

// Package summary aggregates a ledger into daily, monthly and per-category
// totals with carry-forward balances. It never mutates its source.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/core"
	"ledger/internal/filter"
	applog "ledger/internal/log"
)

// DashboardTop is how many categories Dashboard ranks.
const DashboardTop = 5

// Source supplies the transaction set to aggregate. *ledger.Ledger satisfies it.
type Source interface {
	Transactions() map[string]core.Transaction
}

// Engine computes summaries over a Source.
type Engine struct {
	src Source
}

func New(src Source) *Engine {
	return &Engine{src: src}
}

// Daily summarises the transactions dated exactly date. CarryForward covers
// the whole ledger strictly before date.
func (e *Engine) Daily(ctx context.Context, date core.Date) (core.Summary, error) {
	carry, err := e.CarryForward(ctx, date)
	if err != nil {
		return core.Summary{}, err
	}
	day := filter.ByDate(e.src.Transactions(), date)
	s := aggregate(date.String(), day)
	s.CarryForward = carry
	return s, nil
}

// Monthly summarises the transactions whose date falls in month (YYYY-MM).
// CarryForward is relative to the first day of the month.
func (e *Engine) Monthly(ctx context.Context, month string) (core.Summary, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return core.Summary{}, err
	}
	carry, err := e.CarryForward(ctx, core.FirstOfMonth(month))
	if err != nil {
		return core.Summary{}, err
	}
	s := aggregate(month, filter.ByMonth(e.src.Transactions(), month))
	s.CarryForward = carry
	return s, nil
}

// CarryForward is the net balance of every transaction dated strictly before
// date. Stored transactions whose date does not parse are skipped; a malformed
// date argument is an error.
func (e *Engine) CarryForward(ctx context.Context, date core.Date) (core.Money, error) {
	target, err := date.Time()
	if err != nil {
		return core.Money{}, fmt.Errorf("carry-forward target %q: %w", date, err)
	}
	var total core.Money
	skipped := 0
	for _, t := range e.src.Transactions() {
		d, err := t.Date.Time()
		if err != nil {
			skipped++
			continue
		}
		if d.Before(target) {
			total = total.Add(t.Signed())
		}
	}
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped transactions with unreadable dates",
			applog.FieldComponent, applog.ComponentSummary,
			applog.FieldCount, skipped)
	}
	return total, nil
}

// CategoryBreakdown sums amounts by category for every transaction of typ.
func (e *Engine) CategoryBreakdown(typ core.Type) map[string]core.Money {
	return BreakdownOf(e.src.Transactions(), typ)
}

// TopCategories ranks the expense categories of month by total, keeping at
// most n. Equal totals are ordered by category name.
func (e *Engine) TopCategories(month string, n int) ([]core.CategoryAmount, error) {
	month, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []core.CategoryAmount{}, nil
	}
	ranked := core.RankCategories(BreakdownOf(filter.ByMonth(e.src.Transactions(), month), core.Expense))
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// Dashboard is the at-a-glance view: today, the current month and its top
// expense categories.
type Dashboard struct {
	Today         core.Summary
	Month         core.Summary
	TopCategories []core.CategoryAmount
}

// Dashboard builds the view for the calendar day of now.
func (e *Engine) Dashboard(ctx context.Context, now time.Time) (Dashboard, error) {
	today := core.DateFromTime(now)
	daily, err := e.Daily(ctx, today)
	if err != nil {
		return Dashboard{}, err
	}
	monthly, err := e.Monthly(ctx, today.Month())
	if err != nil {
		return Dashboard{}, err
	}
	top, err := e.TopCategories(today.Month(), DashboardTop)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Today: daily, Month: monthly, TopCategories: top}, nil
}

// BreakdownOf sums amounts by category for the transactions of typ in txns.
// The result is empty, never nil, when nothing matches.
func BreakdownOf(txns map[string]core.Transaction, typ core.Type) map[string]core.Money {
	out := map[string]core.Money{}
	for _, t := range txns {
		if t.Type == typ {
			out[t.Category] = out[t.Category].Add(t.Amount)
		}
	}
	return out
}

func aggregate(period string, txns map[string]core.Transaction) core.Summary {
	s := core.Summary{Period: period, Breakdown: map[string]core.Money{}}
	for _, t := range txns {
		switch t.Type {
		case core.Income:
			s.Income = s.Income.Add(t.Amount)
			s.NumIncome++
		case core.Expense:
			s.Expense = s.Expense.Add(t.Amount)
			s.NumExpense++
			s.Breakdown[t.Category] = s.Breakdown[t.Category].Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

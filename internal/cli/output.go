package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/summary"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printTransactions(w io.Writer, txns []core.Transaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "No transactions found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	var total core.Money
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Type, t.Category, t.Amount, t.Desc())
		total = total.Add(t.Signed())
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\n%d transactions\t\t\tnet\t%s\t\n", len(txns), total)
	return tw.Flush()
}

func printSummary(w io.Writer, title string, s core.Summary) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s %s\n", title, s.Period)
	fmt.Fprintf(tw, "  Carry forward\t%s\n", s.CarryForward)
	fmt.Fprintf(tw, "  Income (%d)\t%s\n", s.NumIncome, s.Income)
	fmt.Fprintf(tw, "  Expense (%d)\t%s\n", s.NumExpense, s.Expense)
	fmt.Fprintf(tw, "  Balance\t%s\n", s.Balance)
	fmt.Fprintf(tw, "  Closing balance\t%s\n", s.ClosingBalance())
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(s.Breakdown) == 0 {
		return nil
	}
	fmt.Fprintln(w, "  Expenses by category:")
	return printRanking(w, s.SortedBreakdown(), "    ")
}

func printRanking(w io.Writer, items []core.CategoryAmount, indent string) error {
	if len(items) == 0 {
		_, err := fmt.Fprintf(w, "%sNo data.\n", indent)
		return err
	}
	tw := newTable(w)
	for i, c := range items {
		fmt.Fprintf(tw, "%s%d.\t%s\t%s\n", indent, i+1, c.Name, c.Amount)
	}
	return tw.Flush()
}

func printDashboard(w io.Writer, d summary.Dashboard) error {
	if err := printSummary(w, "Today", d.Today); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := printSummary(w, "Month", d.Month); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Top %d expense categories this month:\n", summary.DashboardTop)
	return printRanking(w, d.TopCategories, "  ")
}

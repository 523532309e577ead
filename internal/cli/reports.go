package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/filter"
	"ledger/internal/summary"
)

func (a *app) engine(cmd *cobra.Command) (*summary.Engine, error) {
	l, err := a.openLedger(cmd.Context())
	if err != nil {
		return nil, err
	}
	return summary.New(l), nil
}

func (a *app) summaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals for a day or a month, with the carried-forward balance",
	}

	daily := &cobra.Command{
		Use:   "daily [YYYY-MM-DD]",
		Short: "Summary of one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := core.DateFromTime(a.now())
			if len(args) == 1 {
				var err error
				if day, err = core.ParseDate(args[0]); err != nil {
					return err
				}
			}
			e, err := a.engine(cmd)
			if err != nil {
				return err
			}
			s, err := e.Daily(cmd.Context(), day)
			if err != nil {
				return err
			}
			return printSummary(a.out, "Day", s)
		},
	}

	monthly := &cobra.Command{
		Use:   "monthly [YYYY-MM]",
		Short: "Summary of one month (default current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := core.DateFromTime(a.now()).Month()
			if len(args) == 1 {
				month = args[0]
			}
			e, err := a.engine(cmd)
			if err != nil {
				return err
			}
			s, err := e.Monthly(cmd.Context(), month)
			if err != nil {
				return err
			}
			return printSummary(a.out, "Month", s)
		},
	}

	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Today, this month and the top expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.engine(cmd)
			if err != nil {
				return err
			}
			d, err := e.Dashboard(cmd.Context(), a.now())
			if err != nil {
				return err
			}
			return printDashboard(a.out, d)
		},
	}

	cmd.AddCommand(daily, monthly, dashboard)
	return cmd
}

func (a *app) breakdownCommand() *cobra.Command {
	var (
		ff  filterFlags
		typ string
	)
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Totals by category, optionally over a filtered selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := core.ParseType(typ)
			if err != nil {
				return err
			}
			c, err := ff.criteria()
			if err != nil {
				return err
			}
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}

			var totals map[string]core.Money
			if c.IsZero() {
				totals = summary.New(l).CategoryBreakdown(t)
			} else {
				matched, err := filter.Apply(l.Transactions(), c)
				if err != nil {
					return err
				}
				totals = summary.BreakdownOf(matched, t)
			}
			fmt.Fprintf(a.out, "%s by category:\n", t)
			return printRanking(a.out, core.RankCategories(totals), "  ")
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", string(core.Expense), "income or expense")
	ff.bind(cmd, false)
	return cmd
}

func (a *app) topCommand() *cobra.Command {
	var (
		month string
		n     int
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Largest expense categories of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month == "" {
				month = core.DateFromTime(a.now()).Month()
			}
			e, err := a.engine(cmd)
			if err != nil {
				return err
			}
			top, err := e.TopCategories(month, n)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Top expense categories for %s:\n", month)
			return printRanking(a.out, top, "  ")
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month YYYY-MM (default current month)")
	cmd.Flags().IntVarP(&n, "limit", "n", summary.DashboardTop, "Number of categories")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/filter"
	applog "ledger/internal/log"
)

func (a *app) addCommand() *cobra.Command {
	var (
		date        string
		description string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "add [type amount category]",
		Short: "Record an income or expense",
		Long: `Record an income or expense. Without arguments, or with --interactive, the
values are asked for one by one; answer "new" at the category question to
register a new category.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("accepts 0 or 3 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := a.registry(ctx)
			if err != nil {
				return err
			}
			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}

			var txn core.Transaction
			if interactive || len(args) == 0 {
				if txn, err = a.prompter().Transaction(ctx, reg, a.now()); err != nil {
					return err
				}
			} else {
				typ, err := core.ParseType(args[0])
				if err != nil {
					return err
				}
				amount, err := core.ParseAmount(args[1])
				if err != nil {
					return err
				}
				category, err := reg.Validate(typ, args[2])
				if err != nil {
					return err
				}
				day := core.DateFromTime(a.now())
				if date != "" {
					if day, err = core.ParseDate(date); err != nil {
						return err
					}
				}
				var opts []core.Option
				if description != "" {
					opts = append(opts, core.WithDescription(description))
				}
				txn = core.NewTransaction(typ, amount, category, day, opts...)
			}

			if err := txn.Validate(); err != nil {
				return err
			}
			if _, err := l.Add(ctx, txn); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s %s %s on %s (id %s)\n", txn.Type, txn.Amount, txn.Category, txn.Date, txn.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for each value")
	return cmd
}

func (a *app) updateCommand() *cobra.Command {
	fields := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			values := map[string]string{}
			for name, v := range fields {
				if cmd.Flags().Changed(name) {
					values[name] = *v
				}
			}
			patch, err := core.PatchFromFields(values)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return fmt.Errorf("%w: nothing to update", core.ErrValidation)
			}

			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			cur, ok := l.Get(args[0])
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			next := patch.Apply(cur)
			if patch.Category != nil || patch.Type != nil {
				reg, err := a.registry(ctx)
				if err != nil {
					return err
				}
				name, err := reg.Validate(next.Type, next.Category)
				if err != nil {
					return err
				}
				patch.Category = &name
				next = patch.Apply(cur)
			}
			if err := next.Validate(); err != nil {
				return err
			}

			if _, err := l.Update(ctx, args[0], patch); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", args[0])
			return nil
		},
	}
	for _, name := range []string{"amount", "category", "description", "date", "type"} {
		fields[name] = cmd.Flags().String(name, "", "New "+name)
	}
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := l.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) listCommand() *cobra.Command {
	var (
		ff         filterFlags
		sortBy     string
		descending bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions matching the filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := ff.criteria()
			if err != nil {
				return err
			}
			key, err := filter.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			l, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			matched, err := filter.Apply(l.Transactions(), c)
			if err != nil {
				return err
			}
			applog.FromContext(ctx).DebugContext(ctx, "Transactions filtered",
				applog.FieldOperation, applog.OpList,
				applog.FieldCount, len(matched),
				"dimension", string(c.DateDimension()))
			return printTransactions(a.out, filter.Sort(matched, key, descending))
		},
	}
	ff.bind(cmd, true)
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "date", "Sort by none, date or amount")
	cmd.Flags().BoolVar(&descending, "desc", false, "Reverse the sort order")
	return cmd
}

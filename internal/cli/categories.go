package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

func (a *app) categoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Show or extend the allowed category names",
	}

	var typ string
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			types := core.Types()
			if typ != "" {
				t, err := core.ParseType(typ)
				if err != nil {
					return err
				}
				types = []core.Type{t}
			}
			for _, t := range types {
				fmt.Fprintf(a.out, "%s: %s\n", t, strings.Join(reg.List(t), ", "))
			}
			return nil
		},
	}
	list.Flags().StringVarP(&typ, "type", "t", "", "Only income or expense")

	add := &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Register a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseType(args[0])
			if err != nil {
				return err
			}
			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			added, err := reg.Add(cmd.Context(), t, args[1])
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(a.out, "%s category %q already exists\n", t, strings.TrimSpace(args[1]))
				return nil
			}
			fmt.Fprintf(a.out, "Added %s category %q\n", t, strings.TrimSpace(args[1]))
			return nil
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}

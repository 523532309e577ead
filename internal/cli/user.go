package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	applog "ledger/internal/log"
)

func (a *app) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create an account or look up its id",
	}

	var password string
	askPassword := func(ctx context.Context) (string, error) {
		if password != "" {
			return password, nil
		}
		return a.prompter().Password(ctx, "Password")
	}

	signup := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a user with the default categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := askPassword(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.accounts.Signup(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			applog.FromContext(cmd.Context()).InfoContext(cmd.Context(), "User signed up",
				applog.FieldOperation, applog.OpSignup,
				applog.FieldUserID, id)
			fmt.Fprintf(a.out, "Created user %s with id %s\n", args[0], id)
			return nil
		},
	}

	login := &cobra.Command{
		Use:   "login <username>",
		Short: "Check credentials and print the user id to pass as --user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := askPassword(cmd.Context())
			if err != nil {
				return err
			}
			id, err := a.accounts.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}

	for _, c := range []*cobra.Command{signup, login} {
		c.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	}
	cmd.AddCommand(signup, login)
	return cmd
}

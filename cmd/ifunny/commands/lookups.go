package commands

import (
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAccountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			user, err := api.Account(cmd.Context())
			if err != nil {
				return err
			}
			return printUser(a.printer(cmd), user)
		},
	}
}

func newUserCommand(a *app) *cobra.Command {
	var byNick bool

	cmd := &cobra.Command{
		Use:   "user USER_ID",
		Short: "Show a user profile",
		Long:  "Show a user profile by id, or by nick with --nick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}

			var user *ifunny.User
			if byNick {
				user, err = api.UserByNick(cmd.Context(), args[0])
			} else {
				user, err = api.User(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return printUser(a.printer(cmd), user)
		},
	}

	cmd.Flags().BoolVar(&byNick, "nick", false, "treat the argument as a nick")

	return cmd
}

func newPostCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "post POST_ID",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			post, err := api.Post(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd).print(post, func(table *tablewriter.Table) error {
				return propertyTable(table, postRows(post))
			})
		},
	}
}

func printUser(p printer, user *ifunny.User) error {
	return p.print(user, func(table *tablewriter.Table) error {
		return propertyTable(table, userRows(user))
	})
}

package commands

import (
	"fmt"

	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// defaultListLimit is the item count of list and /lists when none is given.
const defaultListLimit = 25

func newListCommand(a *app) *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list NAME [ARGS...]",
		Short: "Collect a paged listing",
		Long: `Collect items of a paged listing such as user_posts or post_comments.

Run 'ifunny lists' for the available names and their arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := ifunny.LookupList(args[0]); !ok {
				return fmt.Errorf("%w %q (see 'ifunny lists')", ifunny.ErrUnknownList, args[0])
			}

			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}

			lim := pagination.LimitTo(limit)
			if all {
				lim = pagination.Unbounded()
			}

			items, err := api.List(cmd.Context(), args[0], args[1:], lim)
			if err != nil {
				return err
			}
			a.logger.Info().
				Str("list", args[0]).
				Stringer("limit", lim).
				Int("items", len(items)).
				Msg("Listing collected")

			return a.printer(cmd).print(items, func(table *tablewriter.Table) error {
				return itemsTable(table, items)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultListLimit, "maximum number of items")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newListsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show the paged listings known to 'list'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs := ifunny.Lists()

			type listInfo struct {
				Name        string   `json:"name"`
				Args        []string `json:"args"`
				Key         string   `json:"key"`
				Description string   `json:"description"`
			}
			infos := make([]listInfo, 0, len(specs))
			for _, entry := range specs {
				args := entry.Args
				if args == nil {
					args = []string{}
				}
				infos = append(infos, listInfo{Name: entry.Name, Args: args, Key: entry.Key, Description: entry.Description})
			}

			return a.printer(cmd).print(infos, func(table *tablewriter.Table) error {
				table.Header("Usage", "Description")
				for _, entry := range specs {
					if err := table.Append(entry.Usage(), entry.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

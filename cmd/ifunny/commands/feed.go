package commands

import (
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFeedCommand(a *app) *cobra.Command {
	var (
		limit  int
		noRead bool
	)

	cmd := &cobra.Command{
		Use:       "feed featured|collective|subscriptions|popular",
		Short:     "Read posts from a feed",
		Long:      "Read posts from a feed, one request per post. Featured and subscriptions posts are marked read unless --no-read is set.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(ifunny.FeedFeatured), string(ifunny.FeedCollective), string(ifunny.FeedSubscriptions), string(ifunny.FeedPopular)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ifunny.ParseFeedKind(args[0])
			if err != nil {
				return err
			}

			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}

			feed, err := api.Feed(kind, ifunny.FeedOptions{Limit: pagination.LimitTo(limit), NoRead: noRead})
			if err != nil {
				return err
			}
			posts, err := feed.Take(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return a.printer(cmd).print(posts, func(table *tablewriter.Table) error {
				return postsTable(table, posts)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of posts")
	cmd.Flags().BoolVar(&noRead, "no-read", false, "do not mark posts read")

	return cmd
}

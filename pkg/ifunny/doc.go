// Package ifunny is a client for iFunny's private mobile API.
//
// Paged listings go through pagination.Collect and accept a
// pagination.Limit:
//
//	api, err := ifunny.NewFromConfig(client.DefaultConfig(token))
//	if err != nil {
//		return err
//	}
//	me, err := api.Account(ctx)
//	if err != nil {
//		return err
//	}
//	posts, err := api.UserPosts(ctx, me.ID, pagination.LimitTo(250))
//
// Feeds return one post per request:
//
//	feed := api.Featured(ifunny.FeedOptions{Limit: pagination.LimitTo(5)})
//	for {
//		post, err := feed.Next(ctx)
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		...
//	}
package ifunny

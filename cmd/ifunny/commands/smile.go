package commands

import (
	"context"
	"fmt"

	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/spf13/cobra"
)

type postAction func(*ifunny.API, context.Context, string) error

// newPostActionCommand builds a command that applies do, or undo with
// --remove, to one post.
func newPostActionCommand(a *app, use, short, done, undone string, do, undo postAction) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   use + " POST_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}

			action, msg := do, done
			if remove {
				action, msg = undo, undone
			}
			if err := action(api, cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", msg, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "take the reaction back")

	return cmd
}

func newSmileCommand(a *app) *cobra.Command {
	return newPostActionCommand(a, "smile", "Smile a post", "Smiled", "Removed smile from",
		(*ifunny.API).SmilePost, (*ifunny.API).RemoveSmilePost)
}

func newUnsmileCommand(a *app) *cobra.Command {
	return newPostActionCommand(a, "unsmile", "Unsmile a post", "Unsmiled", "Removed unsmile from",
		(*ifunny.API).UnsmilePost, (*ifunny.API).RemoveUnsmilePost)
}

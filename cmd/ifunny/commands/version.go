package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newVersionCommand(a *app, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printer(cmd).print(info, func(table *tablewriter.Table) error {
				return propertyTable(table, [][2]string{
					{"Version", info.Version},
					{"Commit", info.Commit},
					{"Built", info.Date},
				})
			})
		},
	}
}

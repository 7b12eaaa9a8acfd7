package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *Commands) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected := c.Avatar.Snapshot().SelectedTheme

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range c.Avatar.Themes() {
				marker := " "
				if t.ID == selected {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s\n", marker, t.ID, t.Label)
			}
			return w.Flush()
		},
	}
}

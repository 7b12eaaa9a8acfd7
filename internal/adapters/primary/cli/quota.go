package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *Commands) quotaCommand() *cobra.Command {
	var handle string

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show how many generations are left in the current 24h window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.Avatar.SetHandle(handle)
			usage := c.Avatar.Usage(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "@%s: %d of %d generations left\n", usage.Key, usage.Remaining, usage.Limit)
			if usage.NextResetAt != nil {
				fmt.Fprintf(out, "next slot frees at %s\n", usage.NextResetAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&handle, "handle", "", "social handle, empty means anonymous")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show rate limiter and audit status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().Status()
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), raw)
		},
	}
}

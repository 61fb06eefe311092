package cli

import (
	"github.com/spf13/cobra"
)

func newAuditCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show aggregate audit log counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().AuditSummary()
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), raw)
		},
	}
}

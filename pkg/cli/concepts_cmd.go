package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newConceptsCmd(client func() *Client) *cobra.Command {
	var domainFilter string
	var limit int

	cmd := &cobra.Command{
		Use:   "concepts <search-term|concept-id>",
		Short: "Search the OMOP concept dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
				raw, err := client().LookupConcept(id)
				if err != nil {
					return err
				}
				return renderJSON(cmd.OutOrStdout(), raw)
			}

			raw, err := client().SearchConcepts(args[0], domainFilter, limit)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), raw)
		},
	}

	cmd.Flags().StringVar(&domainFilter, "domain", "", "restrict to an OMOP domain (e.g. Condition, Drug)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}

package cli

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSchemaCmd(client func() *Client, outFmt func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [table]",
		Short: "List queryable tables, or describe one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				raw, err := client().TableInfo(args[0])
				if err != nil {
					return err
				}
				return renderJSON(cmd.OutOrStdout(), raw)
			}

			raw, err := client().Schema()
			if err != nil {
				return err
			}
			if outFmt() == "json" {
				return renderJSON(cmd.OutOrStdout(), raw)
			}
			return renderSchemaTable(cmd, raw)
		},
	}
}

func renderSchemaTable(cmd *cobra.Command, raw json.RawMessage) error {
	var payload struct {
		Tables []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Description"})
	for _, tbl := range payload.Tables {
		t.AppendRow(table.Row{tbl.Name, tbl.Description})
	}
	t.Render()
	return nil
}

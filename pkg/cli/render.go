package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// renderResult prints a query result as a table or as JSON.
func renderResult(w io.Writer, result *QueryResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range result.Rows {
		out := make(table.Row, len(row))
		for i, cell := range row {
			if cell == nil {
				out[i] = "NULL"
			} else {
				out[i] = cell
			}
		}
		t.AppendRow(out)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", result.RowCount)
	if result.Note != "" {
		fmt.Fprintln(w, result.Note)
	}
	return nil
}

// renderJSON pretty-prints a raw JSON document.
func renderJSON(w io.Writer, raw json.RawMessage) error {
	var buf interface{}
	if err := json.Unmarshal(raw, &buf); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buf)
}

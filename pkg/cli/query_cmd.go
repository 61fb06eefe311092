package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCmd(client func() *Client, outFmt func() string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "query [sql]",
		Short: "Submit a SELECT query through the gateway",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readQuery(args, file)
			if err != nil {
				return err
			}

			result, err := client().Query(sql)
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), result, outFmt())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read SQL from a file (\"-\" for stdin)")
	return cmd
}

func readQuery(args []string, file string) (string, error) {
	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("no SQL given: pass it as an argument or via --file")
}

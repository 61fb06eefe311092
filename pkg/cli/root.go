// Package cli implements the omopgate command-line client for the gateway
// HTTP API.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var host string
	var output string

	rootCmd := &cobra.Command{
		Use:           "omopgate",
		Short:         "Query gateway CLI for de-identified clinical data",
		Long:          "Command-line client for the omopgate query security gateway API.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Accept snake_case flag spellings from shell scripts.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&host, "host", envOr("OMOPGATE_HOST", "http://localhost:8080"), "gateway base URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table or json")

	client := func() *Client { return NewClient(host) }
	outFmt := func() string { return output }

	rootCmd.AddCommand(
		newQueryCmd(client, outFmt),
		newStatusCmd(client),
		newSchemaCmd(client, outFmt),
		newConceptsCmd(client),
		newAuditCmd(client),
	)

	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

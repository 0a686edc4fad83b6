package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restchain/internal/output"
)

var version = "0.1.0"

// NewRootCmd builds the restchain command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "restchain",
		Short:   "Call REST APIs by chaining path segments",
		Version: version,
		Long: `restchain builds a request from a host, an optional API version and a chain
of path segments, then sends it with the chosen verb:

  restchain post mail send --host https://api.example.com --api-version v3 \
      -H "Authorization: Bearer $TOKEN" -j '{"personalizations":[]}'

Segments may also be written as a single slash-separated argument (mail/send).
Hosts, versions and headers can be kept in a profile file and selected with
--config and --env.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("host", "", "Base origin, e.g. https://api.example.com")
	flags.StringP("config", "c", "", "Profile file (JSON or YAML)")
	flags.StringP("env", "e", "", "Environment to use from the profile file")
	flags.String("api-version", "", "API version prepended to the path")
	flags.StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	flags.StringArrayP("query", "q", []string{}, "Query parameter key=value (can be used multiple times, order is kept)")
	flags.StringP("json", "j", "", "JSON request body, or @file to read it from a file")
	flags.Bool("insecure", false, "Skip TLS certificate verification for https hosts")
	flags.Bool("encode-url", false, "Escape path segments and query parameters")
	flags.DurationP("timeout", "t", 30*time.Second, "Request timeout")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.String("extract", "", "Print only the value at this JSONPath of the response body")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("debug", false, "Log request tracing to stderr")

	for _, verb := range []string{"get", "post", "put", "patch", "delete"} {
		rootCmd.AddCommand(newVerbCmd(verb))
	}

	return rootCmd
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", output.ErrorIcon(!output.IsTerminal(os.Stderr)), err)
		return err
	}
	return nil
}

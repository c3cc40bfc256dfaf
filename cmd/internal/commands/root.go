package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the retrier CLI
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "retrier",
		Short: "HTTP fetcher with retry and exponential backoff",
		Long: `retrier issues HTTP requests and retries transient failures with a bounded,
deterministic exponential backoff.

Configuration is read from defaults, an optional YAML file (--config),
RETRIER_* environment variables and flags, in increasing priority.`,
		Version:       version,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		NewFetchCommand(),
		NewConfigCommand(),
		NewVersionCommand(version),
	)

	return rootCmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/retrier/cmd/internal/flags"
)

// NewConfigCommand creates the config command, which prints the effective
// configuration after defaults, file, environment and flags were merged.
func NewConfigCommand() *cobra.Command {
	flagsApp := flags.NewApp()
	flagsRetry := flags.NewRetry()
	flagsRequest := flags.NewRequest()
	flagsBatch := flags.NewBatch()

	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Print the effective configuration as YAML",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flagsApp.ConfigFile, cmd.Flags(), flagsApp, flagsRetry, flagsRequest, flagsBatch)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().AddFlagSet(flagsApp.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsRequest.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsRetry.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsBatch.NewFlagSet())

	return cmd
}

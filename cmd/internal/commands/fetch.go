package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/retrier/cmd/internal/app"
	"github.com/gaborage/retrier/cmd/internal/flags"
	"github.com/gaborage/retrier/httpclient"
)

// NewFetchCommand creates the fetch command
func NewFetchCommand() *cobra.Command {
	flagsApp := flags.NewApp()
	flagsRetry := flags.NewRetry()
	flagsRequest := flags.NewRequest()
	flagsBatch := flags.NewBatch()

	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Fetch URLs, retrying transient failures with exponential backoff",
		Long: `Fetch one or more URLs. Every URL is retried independently when it fails
with a timeout or a retryable status (408, 500, 502, 503, 504, 522, 524 by
default), waiting --initial-delay before the first retry and multiplying the
wait by --multiplier after each one.

The command exits non-zero when any URL fails.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flagsRequest.ValidateOutput(); err != nil {
				return err
			}
			cfg, err := loadConfig(flagsApp.ConfigFile, cmd.Flags(), flagsApp, flagsRetry, flagsRequest, flagsBatch)
			if err != nil {
				return err
			}
			req, err := buildRequest(flagsRequest)
			if err != nil {
				return err
			}

			log := newLogger(cmd.ErrOrStderr(), cfg)
			client := app.NewClient(cfg, log, app.ClientOptions{})
			results, runErr := app.NewFetcher(client, log, cfg.Batch, req).Run(cmd.Context(), args)

			write := app.WriteBodies
			if flagsRequest.Output == flags.OutputSummary {
				write = app.WriteSummary
			}
			if err := write(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().AddFlagSet(flagsApp.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsRequest.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsRetry.NewFlagSet())
	cmd.Flags().AddFlagSet(flagsBatch.NewFlagSet())

	return cmd
}

func buildRequest(f *flags.Request) (app.Request, error) {
	headers, err := f.ParseHeaders()
	if err != nil {
		return app.Request{}, err
	}
	body, err := f.Body()
	if err != nil {
		return app.Request{}, err
	}

	req := app.Request{
		Method:  f.Method,
		Headers: headers,
		Body:    body,
	}
	if user, pass, ok := f.Credentials(); ok {
		req.Auth = &httpclient.BasicAuth{Username: user, Password: pass}
	}
	return req, nil
}

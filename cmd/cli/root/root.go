package root

import (
	"github.com/fintrack/fintrack/cmd/cli/config"
	"github.com/spf13/cobra"
)

// New returns the fintrack root command with the persistent --api-url flag.
// Subcommands are attached by their packages' Init functions.
func New() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance tracker CLI",
		Long:          "Command line interface for recording incomes and expenses with the fintrack API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if apiURL != "" {
				config.SetAPIURL(apiURL)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $FINTRACK_API_URL or http://localhost:5000)")
	return cmd
}

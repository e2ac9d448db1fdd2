package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/csvledger/internal/buildinfo"
	"github.com/cleared-dev/csvledger/internal/logging"
)

type rootOptions struct {
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "csvledger",
		Short:   "Convert CSV bank exports to beancount transactions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level: debug, info, warn, error (default $"+logging.LevelEnv+" or "+logging.DefaultLevel+")")

	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// logger builds the stderr logger for cmd.
func (o *rootOptions) logger(cmd *cobra.Command) (*zap.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), o.logLevel)
}

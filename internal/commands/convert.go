package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/csvledger/internal/beancount"
	"github.com/cleared-dev/csvledger/internal/config"
	"github.com/cleared-dev/csvledger/internal/convert"
	"github.com/cleared-dev/csvledger/internal/output"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var csvPath, configPath, appendPath string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a CSV file to beancount transactions",
		Long: `Convert reads a CSV file and writes one beancount transaction per row,
built from the templates in the config file. Output goes to stdout unless
--append names an existing ledger file. The first failing row aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return runConvert(cmd.OutOrStdout(), log, csvPath, configPath, appendPath)
		},
	}

	cmd.Flags().StringVarP(&csvPath, "ledger", "l", "", "CSV file to convert (required)")
	_ = cmd.MarkFlagRequired("ledger")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config describing the CSV layout (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&appendPath, "append", "", "append transactions to this existing file instead of stdout")

	return cmd
}

func runConvert(stdout io.Writer, log *zap.Logger, csvPath, configPath, appendPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Debug("loaded config",
		zap.String("path", configPath),
		zap.Int("inputs", len(cfg.Input)),
		zap.Int("postings", len(cfg.Output.Postings)))

	builder, err := convert.NewBuilder(cfg, log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	sink, err := output.Open(appendPath, stdout)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}

	// Rows converted before a failure are still flushed.
	n, err := builder.Run(f, sink, beancount.BasicRenderer{})
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", cerr)
	}
	if err != nil {
		return fmt.Errorf("converting %s: %w", csvPath, err)
	}

	log.Info("conversion finished", zap.String("csv", csvPath), zap.Int("transactions", n))
	return nil
}

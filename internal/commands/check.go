package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/csvledger/internal/config"
	"github.com/cleared-dev/csvledger/internal/convert"
	"github.com/cleared-dev/csvledger/internal/render"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a config file without reading any CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return runCheck(cmd.OutOrStdout(), log, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config to validate (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCheck(stdout io.Writer, log *zap.Logger, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := convert.NewBuilder(cfg, log); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Every placeholder must name an input, otherwise each row would fail.
	var unknown []string
	seen := make(map[string]bool)
	for _, tmpl := range cfg.Templates() {
		names, err := render.Fields(tmpl)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		for _, name := range names {
			if _, ok := cfg.Input[name]; !ok && !seen[name] {
				seen[name] = true
				unknown = append(unknown, name)
			}
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("templates reference fields missing from input: %s", strings.Join(unknown, ", "))
	}

	fmt.Fprintf(stdout, "%s: ok (%d inputs, %d postings)\n", configPath, len(cfg.Input), len(cfg.Output.Postings))
	return nil
}

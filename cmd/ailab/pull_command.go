package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qualuo/ai-lab/internal/config"
	"github.com/qualuo/ai-lab/internal/provision"
)

func newPullCommand(ctx *commandContext) *cobra.Command {
	var flags overrides

	cmd := &cobra.Command{
		Use:   "pull [MODEL...]",
		Short: "Pull the configured models through the model runner",
		Long: "Pull models through the model runner. Positional arguments name\n" +
			"the models to pull; without them the --model flags or the\n" +
			"configured list are used.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}
			applyModelArgs(cfg, args)

			logger, _, err := ctx.newRunLogger(cfg)
			if err != nil {
				return err
			}

			pipeline := provision.NewPipeline(cfg, logger, provision.WithProgress(stdoutIsTerminal()))
			if err := pipeline.RunModels(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All models pulled")
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// applyModelArgs lets positional arguments shadow both the --model flags and
// the configured model list.
func applyModelArgs(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Models.Names = args
	}
}

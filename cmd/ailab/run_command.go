package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qualuo/ai-lab/internal/logging"
	"github.com/qualuo/ai-lab/internal/provision"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags overrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full provisioning pipeline",
		Long: "Run every provisioning stage in order: host checks, component\n" +
			"installation, model pulls, and desktop shortcuts. The first stage\n" +
			"failure aborts the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			logger, logPath, err := ctx.newRunLogger(cfg)
			if err != nil {
				return err
			}
			logger.Info("log file ready", logging.String("path", logPath))

			pipeline := provision.NewPipeline(cfg, logger, provision.WithProgress(stdoutIsTerminal()))
			manager := provision.NewManager(logger, pipeline.Stages(),
				provision.WithLockFile(filepath.Join(cfg.Paths.LogDir, "ailab.lock")))
			if err := manager.Run(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Provisioning complete. Open %s to get started.\n", cfg.WebUIAddress())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

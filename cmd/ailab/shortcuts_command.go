package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qualuo/ai-lab/internal/shortcut"
)

func newShortcutsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shortcuts",
		Short: "Write the desktop launch artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, _, err := ctx.newRunLogger(cfg)
			if err != nil {
				return err
			}

			artifacts, err := shortcut.NewProvisioner(cfg, logger).Provision()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, artifact := range artifacts {
				fmt.Fprintf(out, "Wrote %s\n", artifact.Path)
			}
			return nil
		},
	}
}

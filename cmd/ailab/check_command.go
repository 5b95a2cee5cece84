package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qualuo/ai-lab/internal/preflight"
	"github.com/qualuo/ai-lab/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the host environment checks and report results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderCheckTable(results))

			if !preflight.Go(results) {
				return services.Wrap(services.ErrValidation, "preflight", "check",
					"host environment checks failed", nil)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func renderCheckTable(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "ok"
		if !result.Passed {
			status = "warn"
			if result.Fatal {
				status = "fail"
			}
		}
		rows = append(rows, []string{
			result.Name,
			status,
			yesNo(result.Fatal),
			strings.TrimSpace(result.Detail),
		})
	}
	return renderTable([]string{"Check", "Status", "Blocking", "Detail"}, rows)
}

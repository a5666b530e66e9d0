package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subpick/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify ffprobe and the cache and log locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			configDetail := ctx.configPath
			if !ctx.configSeen {
				configDetail += " (defaults)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail, colorize))

			failed := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d readiness check(s) failed", failed)
			}
			return nil
		},
	}
}

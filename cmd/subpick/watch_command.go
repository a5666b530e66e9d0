package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subpick/internal/selector"
	"subpick/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <media>",
		Short: "Re-run subtitle selection whenever the media or its sidecars change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, closeSelector, err := ctx.newSelector(runCtx)
			if err != nil {
				return err
			}
			defer closeSelector()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			mediaPath := args[0]
			pass := func(passCtx context.Context) error {
				result, err := svc.Run(passCtx, flags.request(cmd, mediaPath))
				if err != nil {
					return err
				}
				return printWatchResult(cmd, result, flags.json)
			}
			if err := pass(runCtx); err != nil {
				return err
			}
			return watch.Run(runCtx, mediaPath, watch.Options{Debounce: debounce, Logger: logger}, pass)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running selection")
	return cmd
}

func printWatchResult(cmd *cobra.Command, result selector.Result, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, newResultJSON(result))
	}
	out := cmd.OutOrStdout()
	stamp := time.Now().Format("15:04:05")
	if !result.Selection.HasChoice() {
		fmt.Fprintf(out, "%s No subtitle selected (%d candidates)\n", stamp, len(result.Candidates))
		return nil
	}
	fmt.Fprintf(out, "%s Chosen: #%d %s (%d of %d relevant)\n",
		stamp, result.Selection.ChosenIndex, result.Selection.ChosenLabel(),
		len(result.Selection.Ranked), len(result.Candidates))
	return nil
}

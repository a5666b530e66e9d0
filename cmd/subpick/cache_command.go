package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the ffprobe result cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show probe cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, warn, err := ctx.openProbeCache(cmd.Context())
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || cache == nil {
				return err
			}
			defer cache.Close()

			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			const stampLayout = "2006-01-02 15:04"
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:    %s\n", cache.Path())
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.Bytes))
			if !stats.Newest.IsZero() {
				fmt.Fprintf(out, "Oldest:  %s\n", stats.Oldest.Local().Format(stampLayout))
				fmt.Fprintf(out, "Newest:  %s\n", stats.Newest.Local().Format(stampLayout))
			}
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop cached probes for files that changed or vanished",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, warn, err := ctx.openProbeCache(cmd.Context())
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || cache == nil {
				return err
			}
			defer cache.Close()

			removed, ok, err := cache.Prune(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case !ok:
				fmt.Fprintln(out, "Another prune is already running")
			case removed == 0:
				fmt.Fprintln(out, "No cache entries pruned")
			default:
				fmt.Fprintf(out, "Pruned %d cache entries\n", removed)
			}
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, warn, err := ctx.openProbeCache(cmd.Context())
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || cache == nil {
				return err
			}
			defer cache.Close()

			cleared, err := cache.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries\n", cleared)
			return nil
		},
	}
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}

package preflight

import (
	"context"
	"path/filepath"

	"subpick/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckFFprobe(ctx, cfg.Media.FFprobeBinary)}

	if cfg.Media.ProbeCache != "" {
		results = append(results, CheckCacheLocation("Probe cache", filepath.Dir(cfg.Media.ProbeCache), minCacheFreeBytes))
	}

	if cfg.Logging.Dir != "" {
		results = append(results, CheckCacheLocation("Log directory", cfg.Logging.Dir, minLogFreeBytes))
	}

	return results
}

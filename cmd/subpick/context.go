package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subpick/internal/config"
	"subpick/internal/logging"
	"subpick/internal/media/ffprobe"
	"subpick/internal/probecache"
	"subpick/internal/selector"
	"subpick/internal/services"
)

var inspectMedia = ffprobe.Inspect

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// newSelector builds a selector service. The returned closer releases the
// probe cache and must be called when the command finishes.
func (c *commandContext) newSelector(ctx context.Context) (*selector.Service, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	opts := []selector.Option{selector.WithInspector(inspectMedia)}
	closer := func() {}
	if cfg.Media.ProbeCache != "" {
		cache, err := probecache.Open(ctx, cfg.Media.ProbeCache, logger)
		if err != nil {
			logging.WarnWithContext(logger, "probe cache unavailable; probing without cache", "probe_cache_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check media.probe_cache in config.toml"),
			)
		} else {
			opts = append(opts, selector.WithProbeCache(cache))
			closer = func() { _ = cache.Close() }
		}
	}
	return selector.NewService(cfg, nil, logger, opts...), closer, nil
}

func (c *commandContext) openProbeCache(ctx context.Context) (*probecache.Cache, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Media.ProbeCache == "" {
		return nil, "Probe cache is disabled (set media.probe_cache in config.toml)", nil
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, "", err
	}
	cache, err := probecache.Open(ctx, cfg.Media.ProbeCache, logger)
	if err != nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "probecache", "open", cfg.Media.ProbeCache, err)
	}
	return cache, "", nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

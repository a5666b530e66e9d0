package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizePreferences()
	if err := c.normalizeMedia(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePreferences() {
	c.Preferences.AudioLanguage = strings.ToLower(strings.TrimSpace(c.Preferences.AudioLanguage))
	if c.Preferences.AudioLanguage == "" {
		if value, ok := os.LookupEnv("SUBPICK_AUDIO_LANGUAGE"); ok {
			c.Preferences.AudioLanguage = strings.ToLower(strings.TrimSpace(value))
		}
	}
	c.Preferences.SubtitleLanguage = strings.ToLower(strings.TrimSpace(c.Preferences.SubtitleLanguage))
	if c.Preferences.SubtitleLanguage == "" {
		if value, ok := os.LookupEnv("SUBPICK_SUBTITLE_LANGUAGE"); ok {
			c.Preferences.SubtitleLanguage = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Preferences.SubtitleLanguage == "" {
		c.Preferences.SubtitleLanguage = defaultSubtitleLanguage
	}
}

func (c *Config) normalizeMedia() error {
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Media.ProbeTimeout == 0 {
		c.Media.ProbeTimeout = defaultProbeTimeout
	}
	c.Media.ProbeCache = strings.TrimSpace(c.Media.ProbeCache)
	if c.Media.ProbeCache == "" {
		return nil
	}
	cachePath, err := expandPath(c.Media.ProbeCache)
	if err != nil {
		return fmt.Errorf("media.probe_cache: %w", err)
	}
	c.Media.ProbeCache = cachePath
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	dir, err := expandPath(strings.TrimSpace(c.Logging.Dir))
	if err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Dir = dir
	return nil
}

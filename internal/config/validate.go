package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePreferences(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePreferences() error {
	if strings.IndexFunc(c.Preferences.AudioLanguage, unicode.IsSpace) >= 0 {
		return fmt.Errorf("preferences.audio_language %q must be a single language code", c.Preferences.AudioLanguage)
	}
	if strings.IndexFunc(c.Preferences.SubtitleLanguage, unicode.IsSpace) >= 0 {
		return fmt.Errorf("preferences.subtitle_language %q must be none, original, forced_only, or a language code", c.Preferences.SubtitleLanguage)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.FFprobeBinary == "" {
		return errors.New("media.ffprobe_binary must be set")
	}
	if c.Media.ProbeTimeout < 0 {
		return errors.New("media.probe_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}

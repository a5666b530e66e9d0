package config

const (
	defaultConfigPath       = "~/.config/subpick/config.toml"
	defaultSubtitleLanguage = "original"
	defaultFFprobeBinary    = "ffprobe"
	defaultProbeTimeout     = 30
	defaultProbeCache       = "~/.cache/subpick/probe.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Media: Media{
			FFprobeBinary: defaultFFprobeBinary,
			ProbeTimeout:  defaultProbeTimeout,
			ScanSidecars:  true,
			ProbeCache:    defaultProbeCache,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

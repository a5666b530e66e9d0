package settings

import (
	"subpick/internal/config"
	"subpick/internal/language"
	"subpick/internal/media/subtitle"
)

// Store holds the preferences loaded for this process. It is never mutated
// after construction, so snapshots are safe from any goroutine.
type Store struct {
	prefs subtitle.Preferences
}

// NewStore returns a store seeded with prefs.
func NewStore(prefs subtitle.Preferences) *Store {
	return &Store{prefs: prefs}
}

// FromConfig builds a store from the preferences section of cfg.
func FromConfig(cfg *config.Config) *Store {
	return NewStore(PreferencesFromConfig(cfg))
}

// PreferencesFromConfig converts configuration strings into a preference snapshot.
func PreferencesFromConfig(cfg *config.Config) subtitle.Preferences {
	if cfg == nil {
		return subtitle.Preferences{}
	}
	return subtitle.Preferences{
		AudioLanguage:   language.Parse(cfg.Preferences.AudioLanguage),
		Subtitle:        subtitle.ParsePreference(cfg.Preferences.SubtitleLanguage),
		HearingImpaired: cfg.Preferences.HearingImpaired,
	}
}

// Snapshot returns a copy of the preferences with per-pass overlays applied.
// The stored value is never changed by an overlay.
func (s *Store) Snapshot(overlays ...func(subtitle.Preferences) subtitle.Preferences) subtitle.Preferences {
	prefs := s.prefs
	for _, overlay := range overlays {
		if overlay != nil {
			prefs = overlay(prefs)
		}
	}
	return prefs
}

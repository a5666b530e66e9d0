package subtitle

import (
	"strings"

	"subpick/internal/language"
)

// Mode identifies which kind of subtitle preference the user configured.
type Mode int

const (
	// ModeOriginal prefers subtitles in the original audio language.
	ModeOriginal Mode = iota
	// ModeNone disables automatic subtitle selection.
	ModeNone
	// ModeForcedOnly only shows forced subtitles.
	ModeForcedOnly
	// ModeExplicit prefers subtitles in a specific language.
	ModeExplicit
)

// Settings keywords understood by ParsePreference.
const (
	KeywordNone       = "none"
	KeywordOriginal   = "original"
	KeywordForcedOnly = "forced_only"
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return KeywordNone
	case ModeForcedOnly:
		return KeywordForcedOnly
	case ModeExplicit:
		return "explicit"
	default:
		return KeywordOriginal
	}
}

// SubtitlePreference is the user's subtitle selection mode. Exactly one mode is
// set; the language is only meaningful for ModeExplicit. The zero value is the
// "original" preference.
type SubtitlePreference struct {
	mode Mode
	lang language.Tag
}

// Explicit returns a preference for subtitles in the given language.
func Explicit(tag language.Tag) SubtitlePreference {
	return SubtitlePreference{mode: ModeExplicit, lang: tag}
}

// None returns the preference that disables subtitles.
func None() SubtitlePreference {
	return SubtitlePreference{mode: ModeNone}
}

// Original returns the preference for original-language subtitles.
func Original() SubtitlePreference {
	return SubtitlePreference{mode: ModeOriginal}
}

// ForcedOnly returns the preference for forced subtitles only.
func ForcedOnly() SubtitlePreference {
	return SubtitlePreference{mode: ModeForcedOnly}
}

// ParsePreference maps a settings value to a preference. The keywords are
// matched case-insensitively; any other value is an explicit language. Empty
// input yields the "original" preference.
func ParsePreference(raw string) SubtitlePreference {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", KeywordOriginal:
		return Original()
	case KeywordNone:
		return None()
	case KeywordForcedOnly:
		return ForcedOnly()
	default:
		return Explicit(language.Parse(value))
	}
}

// Mode reports the preference kind.
func (p SubtitlePreference) Mode() Mode {
	return p.mode
}

// Language returns the explicit language and true for ModeExplicit.
func (p SubtitlePreference) Language() (language.Tag, bool) {
	if p.mode != ModeExplicit {
		return language.Unknown, false
	}
	return p.lang, true
}

// String returns the settings representation of the preference.
func (p SubtitlePreference) String() string {
	if p.mode == ModeExplicit {
		return p.lang.String()
	}
	return p.mode.String()
}

// Preferences is an immutable snapshot of the user settings that drive
// subtitle selection. Take one snapshot per selection pass.
type Preferences struct {
	AudioLanguage   language.Tag
	Subtitle        SubtitlePreference
	HearingImpaired bool
}

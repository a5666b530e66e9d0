package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Tag is a normalized stream language token.
type Tag string

// Unknown marks a stream without a usable language declaration.
const Unknown Tag = ""

const undetermined = "und"

// Parse normalizes a raw language token. Empty input and "und" map to Unknown.
func Parse(raw string) Tag {
	value := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "\u0000", "")))
	if value == "" || value == undetermined {
		return Unknown
	}
	return Tag(value)
}

// bibliographic holds ISO 639-2/B codes that differ from their terminology
// form and still show up in release file names.
var bibliographic = map[string]struct{}{
	"alb": {}, "arm": {}, "baq": {}, "bur": {}, "chi": {}, "cze": {}, "dut": {},
	"fre": {}, "geo": {}, "ger": {}, "gre": {}, "ice": {}, "mac": {}, "mao": {},
	"may": {}, "per": {}, "rum": {}, "slo": {}, "tib": {}, "wel": {},
}

// IsCode reports whether token is an ISO 639 language code, optionally
// followed by BCP 47 subtags ("pt-br"). Ordinary words such as "extended"
// are rejected.
func IsCode(token string) bool {
	value := strings.ToLower(strings.TrimSpace(token))
	primary, _, _ := strings.Cut(value, "-")
	if len(primary) < 2 || len(primary) > 3 {
		return false
	}
	if _, ok := bibliographic[primary]; ok {
		return true
	}
	_, err := xlanguage.ParseBase(primary)
	return err == nil
}

// IsUnknown reports whether the tag carries no language information.
func (t Tag) IsUnknown() bool {
	return t == Unknown
}

// String returns the tag token, or "und" for Unknown.
func (t Tag) String() string {
	if t.IsUnknown() {
		return undetermined
	}
	return string(t)
}

// ExtractFromTags extracts and normalizes the language from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) Tag {
	if len(tags) == 0 {
		return Unknown
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			if tag := Parse(value); !tag.IsUnknown() {
				return tag
			}
		}
	}
	return Unknown
}

// DisplayName returns a human-readable language name for the tag.
// Returns "Unknown" for Unknown, or the uppercased token when the tag cannot be
// resolved to a known language.
func DisplayName(t Tag) string {
	if t.IsUnknown() {
		return "Unknown"
	}
	parsed, err := xlanguage.Parse(string(t))
	if err != nil {
		return strings.ToUpper(string(t))
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return strings.ToUpper(string(t))
}

package subtitle

import (
	"cmp"

	"subpick/internal/language"
)

// Reason names the rule that decided a candidate's relevance.
type Reason int

const (
	ReasonNoMatch Reason = iota
	ReasonActiveStream
	ReasonSubtitlesOff
	ReasonExternalUnknown
	ReasonClosedCaptions
	ReasonAccessibleOriginal
	ReasonOriginalAudio
	ReasonForcedOriginal
	ReasonLanguageOnly
)

// Relevant reports whether the rule admits the candidate.
func (r Reason) Relevant() bool {
	switch r {
	case ReasonActiveStream, ReasonExternalUnknown, ReasonClosedCaptions,
		ReasonAccessibleOriginal, ReasonOriginalAudio, ReasonForcedOriginal:
		return true
	default:
		return false
	}
}

func (r Reason) String() string {
	switch r {
	case ReasonActiveStream:
		return "active_stream"
	case ReasonSubtitlesOff:
		return "subtitles_off"
	case ReasonExternalUnknown:
		return "external_unknown_language"
	case ReasonClosedCaptions:
		return "closed_captions"
	case ReasonAccessibleOriginal:
		return "hearing_impaired_original"
	case ReasonOriginalAudio:
		return "original_audio"
	case ReasonForcedOriginal:
		return "forced_original"
	case ReasonLanguageOnly:
		return "language_only"
	default:
		return "no_match"
	}
}

// Policy ranks subtitle candidates for one selection pass. It is a value type
// with no mutable state.
type Policy struct {
	prefs    Preferences
	playback Playback
}

// NewPolicy builds a policy from a preferences snapshot and the playback context.
func NewPolicy(prefs Preferences, playback Playback) Policy {
	return Policy{prefs: prefs, playback: playback}
}

// Preferences returns the snapshot the policy was built from.
func (p Policy) Preferences() Preferences {
	return p.prefs
}

// Playback returns the playback context the policy was built from.
func (p Policy) Playback() Playback {
	return p.playback
}

// AudioLanguage returns the played audio language, falling back to the
// preferred one when the player has not reported it.
func (p Policy) AudioLanguage() language.Tag {
	if !p.playback.AudioLanguage.IsUnknown() {
		return p.playback.AudioLanguage
	}
	return p.prefs.AudioLanguage
}

// Relevant reports whether the candidate may ever be offered or auto-selected.
func (p Policy) Relevant(c Candidate) bool {
	return p.Explain(c).Relevant()
}

// Explain returns the rule that decides the candidate's relevance.
func (p Policy) Explain(c Candidate) Reason {
	if p.isActive(c) {
		return ReasonActiveStream
	}
	mode := p.prefs.Subtitle.Mode()
	if mode == ModeNone {
		return ReasonSubtitlesOff
	}

	if c.Language.IsUnknown() {
		if c.Source.External() {
			return ReasonExternalUnknown
		}
		if c.Source == SourceVideoCC && c.Flags.Has(FlagHearingImpaired) && p.prefs.HearingImpaired {
			return ReasonClosedCaptions
		}
	}

	// Matches the long-standing player behaviour: an SDH track in the original
	// language is admitted for hearing-impaired users whatever the mode.
	if p.prefs.HearingImpaired && c.Flags.Has(FlagHearingImpaired|FlagOriginal) {
		return ReasonAccessibleOriginal
	}

	switch mode {
	case ModeOriginal:
		if c.Flags.Has(FlagOriginal) {
			return ReasonOriginalAudio
		}
	case ModeForcedOnly:
		if c.Flags.Has(FlagForced | FlagOriginal) {
			return ReasonForcedOriginal
		}
	case ModeExplicit:
		// A bare language match is not enough to offer the track.
		if p.matchesMode(c) {
			return ReasonLanguageOnly
		}
	}
	return ReasonNoMatch
}

// Compare orders two relevant candidates. A negative result means a ranks
// ahead of b. The ordering is a strict weak order and only ties on equal
// stream indices.
func (p Policy) Compare(a, b Candidate) int {
	if c := preferTrue(p.isActive(a), p.isActive(b)); c != 0 {
		return c
	}
	if c := preferTrue(p.matchesMode(a), p.matchesMode(b)); c != 0 {
		return c
	}
	if c := preferTrue(p.impairedAffinity(a), p.impairedAffinity(b)); c != 0 {
		return c
	}
	if c := preferTrue(a.Source.External(), b.Source.External()); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// Less reports whether a ranks strictly ahead of b.
func (p Policy) Less(a, b Candidate) bool {
	return p.Compare(a, b) < 0
}

func (p Policy) isActive(c Candidate) bool {
	return p.playback.ActiveStream != NoActiveStream && c.Index == p.playback.ActiveStream
}

func (p Policy) matchesMode(c Candidate) bool {
	switch p.prefs.Subtitle.Mode() {
	case ModeExplicit:
		tag, _ := p.prefs.Subtitle.Language()
		return !tag.IsUnknown() && c.Language == tag
	case ModeOriginal:
		return c.Flags.Has(FlagOriginal)
	case ModeForcedOnly:
		return c.Flags.Has(FlagForced | FlagOriginal)
	default:
		return false
	}
}

// impairedAffinity is true when the track's hearing-impaired flag agrees with
// the user's accessibility setting.
func (p Policy) impairedAffinity(c Candidate) bool {
	return c.Flags.Has(FlagHearingImpaired) == p.prefs.HearingImpaired
}

func preferTrue(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

package subtitle

import (
	"strings"

	"subpick/internal/language"
)

// Flags is a set of per-stream markers. Order carries no meaning.
type Flags uint8

const (
	// FlagForced marks tracks that only cover foreign dialogue.
	FlagForced Flags = 1 << iota
	// FlagOriginal marks tracks in the original production language.
	FlagOriginal
	// FlagHearingImpaired marks SDH / closed-caption style tracks.
	FlagHearingImpaired
)

// FlagNone is the empty set.
const FlagNone Flags = 0

// Has reports whether every flag in want is present.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	parts := make([]string, 0, 3)
	if f.Has(FlagForced) {
		parts = append(parts, "forced")
	}
	if f.Has(FlagOriginal) {
		parts = append(parts, "original")
	}
	if f.Has(FlagHearingImpaired) {
		parts = append(parts, "hearing_impaired")
	}
	return strings.Join(parts, "|")
}

// Source describes where a subtitle stream comes from.
type Source int

const (
	// SourceOther covers subtitles embedded in the media container.
	SourceOther Source = iota
	// SourceExternalText is an external text subtitle file (srt, ass, vtt).
	SourceExternalText
	// SourceExternalSub is an external demuxed subtitle file (sup, idx/sub).
	SourceExternalSub
	// SourceVideoCC is a closed-caption track carried inside the video stream.
	SourceVideoCC
)

// External reports whether the stream was supplied as a separate file.
func (s Source) External() bool {
	return s == SourceExternalText || s == SourceExternalSub
}

func (s Source) String() string {
	switch s {
	case SourceExternalText:
		return "external_text"
	case SourceExternalSub:
		return "external_sub"
	case SourceVideoCC:
		return "video_cc"
	default:
		return "embedded"
	}
}

// Candidate describes one subtitle stream offered by the media source.
type Candidate struct {
	Index    int
	Language language.Tag
	Flags    Flags
	Source   Source

	// Display metadata; never consulted by the policy.
	Codec string
	Title string
	Path  string
}

// NoActiveStream is the Playback.ActiveStream value when no subtitle is selected.
const NoActiveStream = -1

// Playback captures what is currently playing.
type Playback struct {
	AudioLanguage language.Tag
	ActiveStream  int
}

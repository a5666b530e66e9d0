package subtitle

import (
	"path/filepath"

	"subpick/internal/language"
	"subpick/internal/media/ffprobe"
	"subpick/internal/media/sidecar"
)

// FromProbe builds candidates for the subtitle streams of a probed container.
// Indices are assigned in container order. Video streams that carry closed
// captions contribute one hearing-impaired candidate each, appended after the
// regular subtitle streams.
func FromProbe(result ffprobe.Result) []Candidate {
	var out []Candidate
	for _, stream := range result.SubtitleStreams() {
		out = append(out, Candidate{
			Index:    len(out),
			Language: language.ExtractFromTags(stream.Tags),
			Flags:    dispositionFlags(stream),
			Source:   SourceOther,
			Codec:    stream.CodecName,
			Title:    stream.Tag("title", "TITLE"),
		})
	}
	for _, stream := range result.VideoStreams() {
		if stream.ClosedCaptions != 1 {
			continue
		}
		out = append(out, Candidate{
			Index:    len(out),
			Language: language.Unknown,
			Flags:    FlagHearingImpaired,
			Source:   SourceVideoCC,
			Codec:    "eia_608",
			Title:    "Closed Captions",
		})
	}
	return out
}

// FromSidecars builds candidates for external subtitle files, numbering them
// from firstIndex.
func FromSidecars(files []sidecar.File, firstIndex int) []Candidate {
	out := make([]Candidate, 0, len(files))
	for i, file := range files {
		var flags Flags
		if file.Forced {
			flags |= FlagForced
		}
		if file.Original {
			flags |= FlagOriginal
		}
		if file.HearingImpaired {
			flags |= FlagHearingImpaired
		}
		source := SourceExternalText
		if file.Kind == sidecar.KindBitmap {
			source = SourceExternalSub
		}
		cand := Candidate{
			Index:    firstIndex + i,
			Language: file.Language,
			Flags:    flags,
			Source:   source,
			Codec:    file.Format,
			Path:     file.Path,
		}
		if file.Path != "" {
			cand.Title = filepath.Base(file.Path)
		}
		out = append(out, cand)
	}
	return out
}

func dispositionFlags(stream ffprobe.Stream) Flags {
	var flags Flags
	if stream.HasDisposition("forced") {
		flags |= FlagForced
	}
	if stream.HasDisposition("original") {
		flags |= FlagOriginal
	}
	if stream.HasDisposition("hearing_impaired") || stream.HasDisposition("captions") {
		flags |= FlagHearingImpaired
	}
	return flags
}

package audio

import (
	"strconv"
	"strings"

	"subpick/internal/language"
	"subpick/internal/media/ffprobe"
)

// Selection describes the audio stream expected to play.
type Selection struct {
	Primary      ffprobe.Stream
	PrimaryIndex int
	Language     language.Tag
}

// PrimaryLabel returns a human-readable summary of the selected primary stream.
func (s Selection) PrimaryLabel() string {
	if s.PrimaryIndex < 0 {
		return ""
	}
	return formatStreamSummary(s.Primary)
}

// Select returns the audio stream a player would start with for the preferred
// language. An Unknown preference considers every track.
func Select(streams []ffprobe.Stream, preferred language.Tag) Selection {
	candidates := buildCandidates(streams)
	if len(candidates) == 0 {
		return Selection{PrimaryIndex: -1}
	}

	pool := candidates.inLanguage(preferred)
	if len(pool) == 0 {
		pool = candidates
	}

	primary := choosePrimary(pool)
	return Selection{
		Primary:      primary.stream,
		PrimaryIndex: primary.stream.Index,
		Language:     primary.language,
	}
}

// candidate captures the derived metadata used for audio ranking.
type candidate struct {
	stream          ffprobe.Stream
	order           int
	language        language.Tag
	isLossless      bool
	channels        int
	defaultFlagged  bool
	originalFlagged bool
}

type candidateList []candidate

func (c candidateList) inLanguage(tag language.Tag) candidateList {
	if tag.IsUnknown() {
		return nil
	}
	result := make(candidateList, 0, len(c))
	for _, cand := range c {
		if cand.language == tag {
			result = append(result, cand)
		}
	}
	return result
}

func choosePrimary(candidates candidateList) candidate {
	if len(candidates) == 0 {
		return candidate{}
	}
	best := candidates[0]
	bestScore := scorePrimary(best)
	for i := 1; i < len(candidates); i++ {
		score := scorePrimary(candidates[i])
		if score > bestScore {
			best = candidates[i]
			bestScore = score
		}
	}
	return best
}

func scorePrimary(cand candidate) float64 {
	score := 0.0

	// Players honour the container default before anything else.
	if cand.defaultFlagged {
		score += 5000
	}
	if cand.originalFlagged {
		score += 2000
	}

	switch {
	case cand.channels >= 8:
		score += 1000
	case cand.channels >= 6:
		score += 800
	case cand.channels >= 4:
		score += 600
	case cand.channels >= 2:
		score += 400
	default:
		score += 200
	}

	if cand.isLossless {
		score += 100
	} else {
		score += 50
	}

	// Prefer earlier tracks when scores tie.
	score -= float64(cand.order) * 0.1

	return score
}

func buildCandidates(streams []ffprobe.Stream) candidateList {
	result := make(candidateList, 0)
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		result = append(result, candidate{
			stream:          stream,
			order:           order,
			language:        language.ExtractFromTags(stream.Tags),
			channels:        channelCount(stream),
			isLossless:      detectLossless(stream),
			defaultFlagged:  stream.HasDisposition("default"),
			originalFlagged: stream.HasDisposition("original"),
		})
		order++
	}
	return result
}

func channelCount(stream ffprobe.Stream) int {
	if stream.Channels > 0 {
		return stream.Channels
	}
	layout := strings.ToLower(strings.TrimSpace(stream.ChannelLayout))
	switch {
	case layout == "":
		return 0
	case strings.HasPrefix(layout, "7.1"):
		return 8
	case strings.HasPrefix(layout, "6.1"):
		return 7
	case strings.HasPrefix(layout, "5.1"):
		return 6
	case strings.HasPrefix(layout, "4.0"):
		return 4
	case strings.HasPrefix(layout, "stereo"), strings.HasPrefix(layout, "2.0"):
		return 2
	case strings.HasPrefix(layout, "mono"), strings.HasPrefix(layout, "1.0"):
		return 1
	}
	return 0
}

func detectLossless(stream ffprobe.Stream) bool {
	name := strings.ToLower(stream.CodecName)
	long := strings.ToLower(stream.CodecLong)
	switch name {
	case "truehd", "flac", "mlp", "alac", "pcm_s16le", "pcm_s24le", "pcm_s32le", "pcm_bluray", "pcm_s24be", "pcm_s16be":
		return true
	}
	return strings.Contains(long, "lossless") || strings.Contains(long, "master audio") || strings.Contains(long, "dts-hd")
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := language.ExtractFromTags(stream.Tags); !lang.IsUnknown() {
		parts = append(parts, lang.String())
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.CodecName
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if title := stream.Tag("title"); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}

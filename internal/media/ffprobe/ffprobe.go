package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index          int               `json:"index"`
	CodecName      string            `json:"codec_name"`
	CodecLong      string            `json:"codec_long_name"`
	CodecType      string            `json:"codec_type"`
	Profile        string            `json:"profile"`
	Channels       int               `json:"channels"`
	ChannelLayout  string            `json:"channel_layout"`
	ClosedCaptions int               `json:"closed_captions"`
	Tags           map[string]string `json:"tags"`
	Disposition    map[string]int    `json:"disposition"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), payload...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// StreamsOfType returns the streams whose codec type matches kind, in container order.
func (r Result) StreamsOfType(kind string) []Stream {
	var out []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			out = append(out, stream)
		}
	}
	return out
}

// AudioStreams returns the audio streams.
func (r Result) AudioStreams() []Stream {
	return r.StreamsOfType("audio")
}

// SubtitleStreams returns the subtitle streams.
func (r Result) SubtitleStreams() []Stream {
	return r.StreamsOfType("subtitle")
}

// VideoStreams returns the video streams.
func (r Result) VideoStreams() []Stream {
	return r.StreamsOfType("video")
}

// HasDisposition reports whether the named disposition flag is set.
func (s Stream) HasDisposition(name string) bool {
	return s.Disposition != nil && s.Disposition[name] == 1
}

// Tag returns the first non-empty tag value among the provided keys.
func (s Stream) Tag(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(s.Tags[key]); value != "" {
			return value
		}
	}
	return ""
}

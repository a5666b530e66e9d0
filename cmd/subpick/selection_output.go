package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subpick/internal/language"
	"subpick/internal/media/subtitle"
	"subpick/internal/selector"
)

var candidateHeaders = []string{"Index", "Language", "Flags", "Source", "Codec", "Title"}

func candidateColumns(c subtitle.Candidate) []string {
	flags := ""
	if c.Flags != subtitle.FlagNone {
		flags = c.Flags.String()
	}
	return []string{
		strconv.Itoa(c.Index),
		language.DisplayName(c.Language),
		flags,
		c.Source.String(),
		c.Codec,
		strings.TrimSpace(c.Title),
	}
}

func printSummary(cmd *cobra.Command, result selector.Result, title string, colorize bool) {
	out := cmd.OutOrStdout()
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	prefs := result.Policy.Preferences()
	playback := result.Policy.Playback()
	fmt.Fprintln(out, renderSummaryLine("Media", result.MediaPath))
	fmt.Fprintln(out, renderSummaryLine("Subtitle mode", prefs.Subtitle.String()))
	fmt.Fprintln(out, renderSummaryLine("Hearing impaired", yesNo(prefs.HearingImpaired)))
	fmt.Fprintln(out, renderSummaryLine("Preferred audio", language.DisplayName(prefs.AudioLanguage)))
	played := language.DisplayName(result.Policy.AudioLanguage())
	if label := result.Audio.PrimaryLabel(); label != "" {
		played = fmt.Sprintf("%s (%s)", played, label)
	}
	fmt.Fprintln(out, renderSummaryLine("Played audio", played))
	if playback.ActiveStream != subtitle.NoActiveStream {
		fmt.Fprintln(out, renderSummaryLine("Active stream", strconv.Itoa(playback.ActiveStream)))
	}
	fmt.Fprintln(out, renderSummaryLine("Candidates", fmt.Sprintf("%d (%d sidecar)", len(result.Candidates), result.Sidecars)))
	fmt.Fprintln(out)
}

type preferencesJSON struct {
	AudioLanguage   string `json:"audio_language"`
	Subtitle        string `json:"subtitle"`
	HearingImpaired bool   `json:"hearing_impaired"`
}

type playbackJSON struct {
	AudioLanguage string `json:"audio_language"`
	ActiveStream  int    `json:"active_stream"`
	AudioStream   *int   `json:"audio_stream,omitempty"`
}

type candidateJSON struct {
	Index    int      `json:"index"`
	Language string   `json:"language"`
	Flags    []string `json:"flags"`
	Source   string   `json:"source"`
	Codec    string   `json:"codec,omitempty"`
	Title    string   `json:"title,omitempty"`
	Path     string   `json:"path,omitempty"`
	Relevant bool     `json:"relevant"`
	Reason   string   `json:"reason"`
	Rank     int      `json:"rank,omitempty"`
}

type resultJSON struct {
	PassID      string          `json:"pass_id"`
	Media       string          `json:"media"`
	Preferences preferencesJSON `json:"preferences"`
	Playback    playbackJSON    `json:"playback"`
	Chosen      *int            `json:"chosen"`
	Ranked      []int           `json:"ranked"`
	Rejected    []int           `json:"rejected"`
	Candidates  []candidateJSON `json:"candidates"`
}

func newResultJSON(result selector.Result) resultJSON {
	prefs := result.Policy.Preferences()
	playback := result.Policy.Playback()
	payload := resultJSON{
		PassID: result.PassID,
		Media:  result.MediaPath,
		Preferences: preferencesJSON{
			AudioLanguage:   prefs.AudioLanguage.String(),
			Subtitle:        prefs.Subtitle.String(),
			HearingImpaired: prefs.HearingImpaired,
		},
		Playback: playbackJSON{
			AudioLanguage: playback.AudioLanguage.String(),
			ActiveStream:  playback.ActiveStream,
		},
		Ranked:     make([]int, 0, len(result.Selection.Ranked)),
		Rejected:   append([]int{}, result.Selection.Rejected...),
		Candidates: make([]candidateJSON, 0, len(result.Decisions)),
	}
	if result.Audio.PrimaryIndex >= 0 {
		idx := result.Audio.PrimaryIndex
		payload.Playback.AudioStream = &idx
	}
	if result.Selection.HasChoice() {
		chosen := result.Selection.ChosenIndex
		payload.Chosen = &chosen
	}
	for _, cand := range result.Selection.Ranked {
		payload.Ranked = append(payload.Ranked, cand.Index)
	}
	for _, decision := range result.Decisions {
		cand := decision.Candidate
		flags := []string{}
		if cand.Flags != subtitle.FlagNone {
			flags = strings.Split(cand.Flags.String(), "|")
		}
		payload.Candidates = append(payload.Candidates, candidateJSON{
			Index:    cand.Index,
			Language: cand.Language.String(),
			Flags:    flags,
			Source:   cand.Source.String(),
			Codec:    cand.Codec,
			Title:    cand.Title,
			Path:     cand.Path,
			Relevant: decision.Relevant,
			Reason:   decision.Reason.String(),
			Rank:     decision.Rank,
		})
	}
	return payload
}

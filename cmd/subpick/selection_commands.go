package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subpick/internal/media/subtitle"
	"subpick/internal/selector"
)

type selectionFlags struct {
	subtitleLanguage string
	audioLanguage    string
	hearingImpaired  bool
	activeStream     int
	playedAudio      string
	json             bool
	refresh          bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.subtitleLanguage, "sub-lang", "", "Subtitle preference override: language code, none, original, or forced_only")
	flags.StringVar(&f.audioLanguage, "audio-lang", "", "Preferred audio language override")
	flags.BoolVar(&f.hearingImpaired, "hearing-impaired", false, "Override the hearing-impaired preference")
	flags.IntVar(&f.activeStream, "active", subtitle.NoActiveStream, "Index of the subtitle stream currently shown")
	flags.StringVar(&f.playedAudio, "played-audio", "", "Language of the audio actually playing")
	flags.BoolVar(&f.json, "json", false, "Output as JSON")
	flags.BoolVar(&f.refresh, "refresh", false, "Re-probe the media even when a cached probe is available")
}

func (f *selectionFlags) request(cmd *cobra.Command, mediaPath string) selector.Request {
	overrides := selector.Overrides{
		AudioLanguage:    f.audioLanguage,
		SubtitleLanguage: f.subtitleLanguage,
	}
	if cmd.Flags().Changed("hearing-impaired") {
		value := f.hearingImpaired
		overrides.HearingImpaired = &value
	}
	req := selector.NewRequest(mediaPath)
	req.Overrides = overrides
	req.PlayedAudio = f.playedAudio
	req.RefreshProbe = f.refresh
	if cmd.Flags().Changed("active") {
		req.ActiveStream = f.activeStream
	}
	return req
}

func runSelection(ctx *commandContext, cmd *cobra.Command, flags *selectionFlags, mediaPath string) (selector.Result, error) {
	svc, closeSelector, err := ctx.newSelector(cmd.Context())
	if err != nil {
		return selector.Result{}, err
	}
	defer closeSelector()
	return svc.Run(cmd.Context(), flags.request(cmd, mediaPath))
}

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   "select <media>",
		Short: "Rank subtitle streams and show the one that would be chosen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runSelection(ctx, cmd, &flags, args[0])
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd, newResultJSON(result))
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printSummary(cmd, result, "Subtitle selection", colorize)

			if !result.Selection.HasChoice() {
				fmt.Fprintln(out, "No subtitle selected")
				return nil
			}
			rows := make([][]string, 0, len(result.Selection.Ranked))
			for i, cand := range result.Selection.Ranked {
				rows = append(rows, append([]string{strconv.Itoa(i + 1)}, candidateColumns(cand)...))
			}
			headers := append([]string{"Rank"}, candidateHeaders...)
			aligns := []columnAlignment{alignRight, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, tableOptions{Highlight: 0, Colorize: colorize}))
			fmt.Fprintf(out, "Chosen: #%d %s\n", result.Selection.ChosenIndex, result.Selection.ChosenLabel())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   "explain <media>",
		Short: "Show which relevance rule decided each subtitle stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runSelection(ctx, cmd, &flags, args[0])
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd, newResultJSON(result))
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printSummary(cmd, result, "Subtitle relevance", colorize)

			if len(result.Decisions) == 0 {
				fmt.Fprintln(out, "No subtitle streams found")
				return nil
			}
			highlight := -1
			rows := make([][]string, 0, len(result.Decisions))
			for i, decision := range result.Decisions {
				if decision.Candidate.Index == result.Selection.ChosenIndex {
					highlight = i
				}
				rank := "-"
				if decision.Rank > 0 {
					rank = strconv.Itoa(decision.Rank)
				}
				row := candidateColumns(decision.Candidate)
				row = append(row, yesNo(decision.Relevant), decision.Reason.String(), rank)
				rows = append(rows, row)
			}
			headers := append(append([]string{}, candidateHeaders...), "Relevant", "Rule", "Rank")
			aligns := []columnAlignment{alignRight}
			for range len(candidateHeaders) - 1 {
				aligns = append(aligns, alignLeft)
			}
			aligns = append(aligns, alignLeft, alignLeft, alignRight)
			fmt.Fprintln(out, renderTable(headers, rows, aligns, tableOptions{Highlight: highlight, Colorize: colorize}))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

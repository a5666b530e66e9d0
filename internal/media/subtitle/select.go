package subtitle

import (
	"slices"
	"sort"
	"strings"

	"subpick/internal/language"
)

// Selection describes the outcome of one subtitle selection pass.
type Selection struct {
	Chosen      Candidate
	ChosenIndex int
	Ranked      []Candidate
	Rejected    []int
}

// HasChoice reports whether any candidate was relevant.
func (s Selection) HasChoice() bool {
	return s.ChosenIndex >= 0
}

// ChosenLabel returns a human-readable summary of the chosen stream.
func (s Selection) ChosenLabel() string {
	if !s.HasChoice() {
		return ""
	}
	return Label(s.Chosen)
}

// Rank filters candidates down to the relevant ones and orders them best
// first. The input slice is left untouched.
func Rank(policy Policy, candidates []Candidate) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if policy.Relevant(cand) {
			ranked = append(ranked, cand)
		}
	}
	slices.SortStableFunc(ranked, policy.Compare)
	return ranked
}

// Select ranks the candidates and picks the head of the ranking.
func Select(policy Policy, candidates []Candidate) Selection {
	ranked := Rank(policy, candidates)
	if len(ranked) == 0 {
		return Selection{ChosenIndex: -1, Rejected: indices(candidates)}
	}

	kept := make(map[int]struct{}, len(ranked))
	for _, cand := range ranked {
		kept[cand.Index] = struct{}{}
	}
	rejected := make([]int, 0, len(candidates)-len(ranked))
	for _, cand := range candidates {
		if _, ok := kept[cand.Index]; ok {
			continue
		}
		rejected = append(rejected, cand.Index)
	}
	sort.Ints(rejected)

	return Selection{
		Chosen:      ranked[0],
		ChosenIndex: ranked[0].Index,
		Ranked:      ranked,
		Rejected:    rejected,
	}
}

func indices(candidates []Candidate) []int {
	out := make([]int, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, cand.Index)
	}
	sort.Ints(out)
	return out
}

// Label formats a candidate for logs and tables.
func Label(c Candidate) string {
	parts := make([]string, 0, 5)
	parts = append(parts, language.DisplayName(c.Language))
	if c.Flags != FlagNone {
		parts = append(parts, c.Flags.String())
	}
	parts = append(parts, c.Source.String())
	if c.Codec != "" {
		parts = append(parts, c.Codec)
	}
	if title := strings.TrimSpace(c.Title); title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " | ")
}

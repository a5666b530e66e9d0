package subtitle

import (
	"math/rand"
	"slices"
	"testing"

	"subpick/internal/language"
)

func allCandidates() []Candidate {
	var out []Candidate
	for _, lang := range []language.Tag{language.Unknown, "eng", "swe"} {
		for flags := FlagNone; flags <= FlagForced|FlagOriginal|FlagHearingImpaired; flags++ {
			for _, source := range []Source{SourceOther, SourceExternalText, SourceExternalSub, SourceVideoCC} {
				out = append(out, Candidate{Index: len(out), Language: lang, Flags: flags, Source: source})
			}
		}
	}
	return out
}

func allPreferences() []Preferences {
	var out []Preferences
	for _, sub := range []string{"none", "original", "forced_only", "eng", "swe"} {
		for _, hi := range []bool{false, true} {
			out = append(out, prefs("eng", sub, hi))
		}
	}
	return out
}

func TestCompareIsStrictWeakOrder(t *testing.T) {
	candidates := allCandidates()
	for _, p := range allPreferences() {
		policy := NewPolicy(p, Playback{ActiveStream: 17})
		for _, a := range candidates {
			if policy.Less(a, a) {
				t.Fatalf("%s: Less is not irreflexive for %+v", p.Subtitle, a)
			}
			for _, b := range candidates {
				ab := policy.Compare(a, b)
				ba := policy.Compare(b, a)
				if ab != -ba {
					t.Fatalf("%s: Compare not antisymmetric for %d/%d", p.Subtitle, a.Index, b.Index)
				}
				if ab == 0 && a.Index != b.Index {
					t.Fatalf("%s: distinct streams %d and %d compare equal", p.Subtitle, a.Index, b.Index)
				}
				if ab >= 0 {
					continue
				}
				for _, c := range candidates {
					if policy.Less(b, c) && !policy.Less(a, c) {
						t.Fatalf("%s: Less not transitive for %d < %d < %d", p.Subtitle, a.Index, b.Index, c.Index)
					}
				}
			}
		}
	}
}

func TestActiveStreamRanksFirst(t *testing.T) {
	candidates := allCandidates()
	for _, p := range allPreferences() {
		for _, active := range []int{0, 40, len(candidates) - 1} {
			policy := NewPolicy(p, Playback{ActiveStream: active})
			ranked := Rank(policy, candidates)
			if len(ranked) == 0 || ranked[0].Index != active {
				t.Fatalf("%s (hi=%v): expected active stream %d first", p.Subtitle, p.HearingImpaired, active)
			}
		}
	}
}

func TestCompareModeMatchOutranksFlags(t *testing.T) {
	policy := NewPolicy(prefs("eng", "original", false), Playback{ActiveStream: NoActiveStream})
	matching := Candidate{Index: 5, Language: "swe", Flags: FlagOriginal}
	external := Candidate{Index: 1, Language: language.Unknown, Source: SourceExternalText}
	if !policy.Less(matching, external) {
		t.Fatal("expected original-language track ahead of external unknown track")
	}
}

func TestCompareExplicitLanguageMatch(t *testing.T) {
	policy := NewPolicy(prefs("eng", "swe", false), Playback{ActiveStream: NoActiveStream})
	swedish := Candidate{Index: 4, Language: "swe"}
	unknown := Candidate{Index: 0, Language: language.Unknown, Source: SourceExternalSub}
	if !policy.Less(swedish, unknown) {
		t.Fatal("expected explicit language match ahead of unknown external track")
	}
}

func TestCompareHearingImpairedAffinity(t *testing.T) {
	sdh := Candidate{Index: 2, Language: language.Unknown, Flags: FlagHearingImpaired, Source: SourceExternalText}
	plain := Candidate{Index: 3, Language: language.Unknown, Source: SourceExternalText}

	on := NewPolicy(prefs("eng", "eng", true), Playback{ActiveStream: NoActiveStream})
	if !on.Less(sdh, plain) {
		t.Fatal("expected hearing-impaired track first when accessibility is enabled")
	}

	off := NewPolicy(prefs("eng", "eng", false), Playback{ActiveStream: NoActiveStream})
	if !off.Less(plain, sdh) {
		t.Fatal("expected hearing-impaired track last when accessibility is disabled")
	}
}

func TestCompareExternalBeforeEmbedded(t *testing.T) {
	policy := NewPolicy(prefs("eng", "original", false), Playback{ActiveStream: NoActiveStream})
	embedded := Candidate{Index: 0, Language: "eng", Flags: FlagOriginal, Source: SourceOther}
	external := Candidate{Index: 7, Language: "eng", Flags: FlagOriginal, Source: SourceExternalSub}
	if !policy.Less(external, embedded) {
		t.Fatal("expected external track ahead of embedded track when otherwise tied")
	}
}

func TestCompareIndexBreaksTies(t *testing.T) {
	policy := NewPolicy(prefs("eng", "original", false), Playback{ActiveStream: NoActiveStream})
	a := Candidate{Index: 2, Language: "eng", Flags: FlagOriginal}
	b := Candidate{Index: 9, Language: "swe", Flags: FlagOriginal}
	if !policy.Less(a, b) || policy.Less(b, a) {
		t.Fatal("expected lower stream index first")
	}
	if policy.Compare(a, a) != 0 {
		t.Fatal("expected a stream to compare equal to itself")
	}
}

func TestRankIsDeterministic(t *testing.T) {
	candidates := allCandidates()
	rng := rand.New(rand.NewSource(7))
	for _, p := range allPreferences() {
		policy := NewPolicy(p, Playback{ActiveStream: 11})
		want := Rank(policy, candidates)
		for i := 0; i < 5; i++ {
			shuffled := slices.Clone(candidates)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			got := Rank(policy, shuffled)
			if !slices.Equal(got, want) {
				t.Fatalf("%s (hi=%v): ranking depends on input order", p.Subtitle, p.HearingImpaired)
			}
		}
		if again := Rank(policy, candidates); !slices.Equal(again, want) {
			t.Fatalf("%s: repeated evaluation changed the ranking", p.Subtitle)
		}
	}
}

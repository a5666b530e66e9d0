package selector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"subpick/internal/config"
	"subpick/internal/logging"
	"subpick/internal/media/ffprobe"
	"subpick/internal/media/sidecar"
	"subpick/internal/media/subtitle"
	"subpick/internal/probecache"
	"subpick/internal/services"
	"subpick/internal/settings"
)

func sampleProbe() ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecName: "h264", CodecType: "video", ClosedCaptions: 1},
		{Index: 1, CodecName: "truehd", CodecType: "audio", Channels: 8, Tags: map[string]string{"language": "jpn"}, Disposition: map[string]int{"default": 1}},
		{Index: 2, CodecName: "ac3", CodecType: "audio", Channels: 6, Tags: map[string]string{"language": "eng"}},
		{Index: 3, CodecName: "subrip", CodecType: "subtitle", Tags: map[string]string{"language": "eng"}},
		{Index: 4, CodecName: "hdmv_pgs_subtitle", CodecType: "subtitle", Tags: map[string]string{"language": "jpn"}, Disposition: map[string]int{"forced": 1, "original": 1}},
	}}
}

func writeMedia(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range append([]string{"film.mkv"}, names...) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return filepath.Join(dir, "film.mkv")
}

func newTestService(t *testing.T, mutate func(*config.Config), opts ...Option) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Preferences.SubtitleLanguage = "original"
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{WithInspector(func(context.Context, string, string) (ffprobe.Result, error) {
		return sampleProbe(), nil
	})}, opts...)
	return NewService(&cfg, nil, logging.NewNop(), opts...)
}

func rankedIndices(sel subtitle.Selection) []int {
	out := make([]int, 0, len(sel.Ranked))
	for _, cand := range sel.Ranked {
		out = append(out, cand.Index)
	}
	return out
}

func TestRunOriginalPreference(t *testing.T) {
	media := writeMedia(t, "film.eng.sdh.srt", "film.srt", "other.srt")
	svc := newTestService(t, nil)

	result, err := svc.Run(context.Background(), NewRequest(media))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Candidates) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(result.Candidates))
	}
	if result.Sidecars != 2 {
		t.Fatalf("expected 2 sidecars, got %d", result.Sidecars)
	}
	if result.Selection.ChosenIndex != 1 {
		t.Fatalf("chosen = %d, want 1 (forced original pgs)", result.Selection.ChosenIndex)
	}
	if got := rankedIndices(result.Selection); !slices.Equal(got, []int{1, 4}) {
		t.Fatalf("ranked = %v, want [1 4]", got)
	}
	if !slices.Equal(result.Selection.Rejected, []int{0, 2, 3}) {
		t.Fatalf("rejected = %v, want [0 2 3]", result.Selection.Rejected)
	}
	if result.Policy.Playback().AudioLanguage != "jpn" {
		t.Fatalf("played audio = %q, want jpn from default audio stream", result.Policy.Playback().AudioLanguage)
	}
	if result.PassID == "" {
		t.Fatal("expected pass id")
	}

	wantReasons := []subtitle.Reason{
		subtitle.ReasonNoMatch,
		subtitle.ReasonOriginalAudio,
		subtitle.ReasonNoMatch,
		subtitle.ReasonNoMatch,
		subtitle.ReasonExternalUnknown,
	}
	for i, decision := range result.Decisions {
		if decision.Reason != wantReasons[i] {
			t.Fatalf("decision %d reason = %s, want %s", i, decision.Reason, wantReasons[i])
		}
	}
	if result.Decisions[1].Rank != 1 || result.Decisions[4].Rank != 2 || result.Decisions[0].Rank != 0 {
		t.Fatalf("unexpected ranks: %+v", result.Decisions)
	}
}

func TestRunOverridesPreferClosedCaptions(t *testing.T) {
	media := writeMedia(t, "film.eng.sdh.srt", "film.srt")
	svc := newTestService(t, nil)
	hi := true

	result, err := svc.Run(context.Background(), Request{
		MediaPath:    media,
		ActiveStream: subtitle.NoActiveStream,
		Overrides:    Overrides{SubtitleLanguage: "eng", HearingImpaired: &hi},
		PlayedAudio:  "eng",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Selection.ChosenIndex != 2 {
		t.Fatalf("chosen = %d, want 2 (closed captions)", result.Selection.ChosenIndex)
	}
	if got := rankedIndices(result.Selection); !slices.Equal(got, []int{2, 4}) {
		t.Fatalf("ranked = %v, want [2 4]", got)
	}
	if result.Policy.Playback().AudioLanguage != "eng" {
		t.Fatalf("played audio = %q, want eng override", result.Policy.Playback().AudioLanguage)
	}
	if !result.Policy.Preferences().HearingImpaired {
		t.Fatal("expected hearing impaired override in the pass preferences")
	}
}

func TestRunActiveStreamSurvivesNone(t *testing.T) {
	media := writeMedia(t, "film.srt")
	svc := newTestService(t, func(cfg *config.Config) { cfg.Preferences.SubtitleLanguage = "none" })

	result, err := svc.Run(context.Background(), Request{MediaPath: media, ActiveStream: 0})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Selection.ChosenIndex != 0 || len(result.Selection.Ranked) != 1 {
		t.Fatalf("expected only the active stream, got %v", rankedIndices(result.Selection))
	}
	if result.Decisions[0].Reason != subtitle.ReasonActiveStream {
		t.Fatalf("reason = %s, want active_stream", result.Decisions[0].Reason)
	}
}

func TestRunNoneWithoutActiveSelectsNothing(t *testing.T) {
	media := writeMedia(t, "film.srt")
	svc := newTestService(t, func(cfg *config.Config) { cfg.Preferences.SubtitleLanguage = "none" })

	result, err := svc.Run(context.Background(), NewRequest(media))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Selection.HasChoice() {
		t.Fatalf("expected no choice, got %d", result.Selection.ChosenIndex)
	}
	if len(result.Selection.Rejected) != len(result.Candidates) {
		t.Fatalf("expected every candidate rejected, got %v", result.Selection.Rejected)
	}
}

func TestRunSkipsSidecarsWhenDisabled(t *testing.T) {
	media := writeMedia(t, "film.srt")
	called := false
	svc := newTestService(t, func(cfg *config.Config) { cfg.Media.ScanSidecars = false },
		WithSidecarFinder(func(string) ([]sidecar.File, error) {
			called = true
			return nil, nil
		}),
	)

	result, err := svc.Run(context.Background(), NewRequest(media))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if called {
		t.Fatal("sidecar finder should not run when scanning is disabled")
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("expected 3 embedded candidates, got %d", len(result.Candidates))
	}
}

func TestRunContinuesWhenSidecarDiscoveryFails(t *testing.T) {
	media := writeMedia(t)
	svc := newTestService(t, nil, WithSidecarFinder(func(string) ([]sidecar.File, error) {
		return nil, errors.New("permission denied")
	}))

	result, err := svc.Run(context.Background(), NewRequest(media))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sidecars != 0 || len(result.Candidates) != 3 {
		t.Fatalf("expected embedded candidates only, got %d", len(result.Candidates))
	}
}

func TestRunUsesPackageInspectorByDefault(t *testing.T) {
	media := writeMedia(t)
	original := inspectMedia
	t.Cleanup(func() { inspectMedia = original })
	var gotBinary string
	inspectMedia = func(_ context.Context, binary, _ string) (ffprobe.Result, error) {
		gotBinary = binary
		return ffprobe.Result{}, nil
	}

	cfg := config.Default()
	cfg.Media.FFprobeBinary = "/opt/ffprobe"
	svc := NewService(&cfg, nil, logging.NewNop())
	if _, err := svc.Run(context.Background(), NewRequest(media)); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if gotBinary != "/opt/ffprobe" {
		t.Fatalf("inspector binary = %q, want /opt/ffprobe", gotBinary)
	}
}

func TestRunReusesProbeCache(t *testing.T) {
	media := writeMedia(t)
	cache, err := probecache.Open(context.Background(), filepath.Join(t.TempDir(), "probe.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("open probe cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	calls := 0
	svc := newTestService(t, nil,
		WithInspector(func(context.Context, string, string) (ffprobe.Result, error) {
			calls++
			return sampleProbe(), nil
		}),
		WithProbeCache(cache),
	)

	req := NewRequest(media)
	first, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	second, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("inspector calls = %d, want 1", calls)
	}
	if first.ProbeCached || !second.ProbeCached {
		t.Fatalf("cache flags: first=%v second=%v", first.ProbeCached, second.ProbeCached)
	}
	if first.Selection.ChosenIndex != second.Selection.ChosenIndex {
		t.Fatalf("cached probe changed the choice: %d vs %d", first.Selection.ChosenIndex, second.Selection.ChosenIndex)
	}

	req.RefreshProbe = true
	if _, err := svc.Run(context.Background(), req); err != nil {
		t.Fatalf("refresh Run returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("inspector calls after refresh = %d, want 2", calls)
	}
}

func TestRunErrors(t *testing.T) {
	probeFailure := WithInspector(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("exit status 1")
	})

	tests := []struct {
		name   string
		path   func(t *testing.T) string
		opts   []Option
		marker error
		code   int
	}{
		{
			name:   "empty path",
			path:   func(*testing.T) string { return "  " },
			marker: services.ErrValidation,
			code:   2,
		},
		{
			name:   "missing media",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.mkv") },
			marker: services.ErrNotFound,
			code:   3,
		},
		{
			name:   "probe failure",
			path:   func(t *testing.T) string { return writeMedia(t) },
			opts:   []Option{probeFailure},
			marker: services.ErrExternalTool,
			code:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil, tt.opts...)
			_, err := svc.Run(context.Background(), NewRequest(tt.path(t)))
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
			if code := services.ExitCode(err); code != tt.code {
				t.Fatalf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestOverridesApply(t *testing.T) {
	base := subtitle.Preferences{AudioLanguage: "eng", Subtitle: subtitle.Original()}
	off := false

	got := Overrides{}.Apply(base)
	if got != base {
		t.Fatalf("empty overrides changed preferences: %+v", got)
	}

	got = Overrides{AudioLanguage: "JPN", SubtitleLanguage: "forced_only", HearingImpaired: &off}.Apply(base)
	if got.AudioLanguage != "jpn" || got.Subtitle.Mode() != subtitle.ModeForcedOnly || got.HearingImpaired {
		t.Fatalf("unexpected overridden preferences: %+v", got)
	}
}

func TestNewRequestHasNoActiveStream(t *testing.T) {
	req := NewRequest("film.mkv")
	if req.ActiveStream != subtitle.NoActiveStream {
		t.Fatalf("active stream = %d, want %d", req.ActiveStream, subtitle.NoActiveStream)
	}
}

func TestRunOverridesLeaveStoreUntouched(t *testing.T) {
	media := writeMedia(t)
	cfg := config.Default()
	cfg.Preferences.SubtitleLanguage = "original"
	store := settings.FromConfig(&cfg)
	svc := NewService(&cfg, store, logging.NewNop(), WithInspector(func(context.Context, string, string) (ffprobe.Result, error) {
		return sampleProbe(), nil
	}))
	hi := true

	req := NewRequest(media)
	req.Overrides = Overrides{SubtitleLanguage: "none", HearingImpaired: &hi}
	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Policy.Preferences().Subtitle.Mode() != subtitle.ModeNone {
		t.Fatalf("pass mode = %v, want none", result.Policy.Preferences().Subtitle.Mode())
	}
	stored := store.Snapshot()
	if stored.Subtitle.Mode() != subtitle.ModeOriginal || stored.HearingImpaired {
		t.Fatalf("store changed by overrides: %+v", stored)
	}
}

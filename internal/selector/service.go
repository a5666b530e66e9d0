package selector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"subpick/internal/config"
	"subpick/internal/language"
	"subpick/internal/logging"
	"subpick/internal/media/audio"
	"subpick/internal/media/ffprobe"
	"subpick/internal/media/sidecar"
	"subpick/internal/media/subtitle"
	"subpick/internal/probecache"
	"subpick/internal/services"
	"subpick/internal/settings"
)

var (
	inspectMedia     = ffprobe.Inspect
	discoverSidecars = sidecar.Discover
)

type inspector func(ctx context.Context, binary, path string) (ffprobe.Result, error)
type sidecarFinder func(mediaPath string) ([]sidecar.File, error)

// Overrides replace individual stored preferences for a single pass.
// Empty strings and nil pointers leave the stored value in place.
type Overrides struct {
	AudioLanguage    string
	SubtitleLanguage string
	HearingImpaired  *bool
}

// Apply returns prefs with the overrides layered on top.
func (o Overrides) Apply(prefs subtitle.Preferences) subtitle.Preferences {
	if value := strings.TrimSpace(o.AudioLanguage); value != "" {
		prefs.AudioLanguage = language.Parse(value)
	}
	if value := strings.TrimSpace(o.SubtitleLanguage); value != "" {
		prefs.Subtitle = subtitle.ParsePreference(value)
	}
	if o.HearingImpaired != nil {
		prefs.HearingImpaired = *o.HearingImpaired
	}
	return prefs
}

// Request describes one selection pass. ActiveStream must be set
// explicitly: its zero value names stream 0 as the active subtitle. Use
// NewRequest for a pass with nothing currently shown.
type Request struct {
	MediaPath string
	Overrides Overrides
	// ActiveStream is the subtitle index currently shown, or
	// subtitle.NoActiveStream.
	ActiveStream int
	// PlayedAudio is the language of the audio actually playing. When empty
	// the audio stream a player would pick for the preferred language is used.
	PlayedAudio string
	// RefreshProbe bypasses the probe cache lookup. The fresh result is still stored.
	RefreshProbe bool
}

// NewRequest returns a request for mediaPath with no active subtitle stream.
func NewRequest(mediaPath string) Request {
	return Request{MediaPath: mediaPath, ActiveStream: subtitle.NoActiveStream}
}

// Decision records how the policy treated one candidate.
type Decision struct {
	Candidate subtitle.Candidate
	Reason    subtitle.Reason
	Relevant  bool
	// Rank is the 1-based position among relevant candidates, 0 when rejected.
	Rank int
}

// Result reports everything a selection pass derived. Policy carries the
// preferences snapshot and playback context the pass was decided with.
type Result struct {
	PassID      string
	MediaPath   string
	Policy      subtitle.Policy
	Audio       audio.Selection
	Candidates  []subtitle.Candidate
	Decisions   []Decision
	Selection   subtitle.Selection
	Sidecars    int
	ProbeCached bool
	Elapsed     time.Duration
}

// Service performs selection passes against the shared preference store.
type Service struct {
	config   *config.Config
	store    *settings.Store
	logger   *slog.Logger
	inspect  inspector
	sidecars sidecarFinder
	cache    *probecache.Cache
}

// Option customizes a Service.
type Option func(*Service)

// WithInspector swaps the ffprobe runner (used in tests).
func WithInspector(fn func(ctx context.Context, binary, path string) (ffprobe.Result, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.inspect = fn
		}
	}
}

// WithSidecarFinder swaps sidecar discovery (used in tests).
func WithSidecarFinder(fn func(mediaPath string) ([]sidecar.File, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.sidecars = fn
		}
	}
}

// WithProbeCache stores and reuses ffprobe results. A nil cache disables caching.
func WithProbeCache(cache *probecache.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// NewService constructs a selection service. A nil store is seeded from cfg.
func NewService(cfg *config.Config, store *settings.Store, logger *slog.Logger, opts ...Option) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	serviceLogger := logging.NewComponentLogger(logger, "selector")
	if store == nil {
		store = settings.FromConfig(cfg)
	}
	svc := &Service{
		config:   cfg,
		store:    store,
		logger:   serviceLogger,
		inspect:  inspectMedia,
		sidecars: discoverSidecars,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Run executes one selection pass.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	mediaPath := strings.TrimSpace(req.MediaPath)
	if mediaPath == "" {
		return Result{}, services.Wrap(services.ErrValidation, "selector", "validate request", "media path is required", nil)
	}
	info, err := os.Stat(mediaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, services.Wrap(services.ErrNotFound, "selector", "stat media", mediaPath, err)
		}
		return Result{}, services.Wrap(services.ErrValidation, "selector", "stat media", mediaPath, err)
	}

	passID := logging.NewPassID()
	ctx = services.WithPassID(ctx, passID)
	ctx = services.WithMediaPath(ctx, mediaPath)
	logger := logging.WithContext(ctx, s.logger)

	probe, cached, err := s.probe(ctx, logger, mediaPath, info, req.RefreshProbe)
	if err != nil {
		return Result{}, err
	}

	candidates := subtitle.FromProbe(probe)
	embedded := len(candidates)
	sidecarCount := 0
	if s.config.Media.ScanSidecars {
		files, err := s.sidecars(mediaPath)
		if err != nil {
			logging.WarnWithContext(logger, "sidecar discovery failed", "sidecar_discovery_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check directory permissions next to the media file"),
			)
		} else {
			sidecarCount = len(files)
			candidates = append(candidates, subtitle.FromSidecars(files, embedded)...)
		}
	}
	logger.Debug("subtitle candidates collected",
		logging.Args(
			logging.Int("embedded", embedded),
			logging.Int("sidecars", sidecarCount),
		)...,
	)

	prefs := s.store.Snapshot(req.Overrides.Apply)
	audioSel := audio.Select(probe.AudioStreams(), prefs.AudioLanguage)
	played := language.Parse(req.PlayedAudio)
	if played.IsUnknown() {
		played = audioSel.Language
	}
	playback := subtitle.Playback{AudioLanguage: played, ActiveStream: req.ActiveStream}
	policy := subtitle.NewPolicy(prefs, playback)

	selection := subtitle.Select(policy, candidates)
	decisions := buildDecisions(policy, candidates, selection)
	for _, decision := range decisions {
		result := "rejected"
		if decision.Relevant {
			result = "relevant"
		}
		logger.Debug("subtitle candidate evaluated",
			logging.Args(append(logging.DecisionAttrs("subtitle_relevance", result, decision.Reason.String()),
				logging.Int("stream_index", decision.Candidate.Index),
				logging.String("candidate", subtitle.Label(decision.Candidate)),
			)...)...,
		)
	}

	logSelection(logger, policy, selection, decisions)

	return Result{
		PassID:      passID,
		MediaPath:   mediaPath,
		Policy:      policy,
		Audio:       audioSel,
		Candidates:  candidates,
		Decisions:   decisions,
		Selection:   selection,
		Sidecars:    sidecarCount,
		ProbeCached: cached,
		Elapsed:     time.Since(started),
	}, nil
}

func (s *Service) probe(ctx context.Context, logger *slog.Logger, mediaPath string, info fs.FileInfo, refresh bool) (ffprobe.Result, bool, error) {
	if s.cache != nil && !refresh {
		result, ok, err := s.cache.Lookup(ctx, mediaPath, info)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "probe cache lookup failed", "probe_cache_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run `subpick cache clear` if the cache is corrupt"),
			)
		case ok:
			logger.Debug("probe cache hit")
			return result, true, nil
		}
	}

	probeCtx := ctx
	if timeout := s.config.Media.ProbeTimeout; timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	probe, err := s.inspect(probeCtx, s.config.Media.FFprobeBinary, mediaPath)
	if err != nil {
		return ffprobe.Result{}, false, services.Wrap(services.ErrExternalTool, "selector", "ffprobe", "inspect media streams", err)
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, mediaPath, info, probe); err != nil {
			logging.WarnWithContext(logger, "probe cache store failed", "probe_cache_store_failed",
				logging.Error(err),
			)
		}
	}
	return probe, false, nil
}

func buildDecisions(policy subtitle.Policy, candidates []subtitle.Candidate, selection subtitle.Selection) []Decision {
	rank := make(map[int]int, len(selection.Ranked))
	for i, cand := range selection.Ranked {
		rank[cand.Index] = i + 1
	}
	decisions := make([]Decision, 0, len(candidates))
	for _, cand := range candidates {
		reason := policy.Explain(cand)
		decisions = append(decisions, Decision{
			Candidate: cand,
			Reason:    reason,
			Relevant:  reason.Relevant(),
			Rank:      rank[cand.Index],
		})
	}
	return decisions
}

func logSelection(logger *slog.Logger, policy subtitle.Policy, selection subtitle.Selection, decisions []Decision) {
	prefs := policy.Preferences()
	options := make([]string, 0, len(selection.Ranked))
	for _, cand := range selection.Ranked {
		options = append(options, fmt.Sprintf("#%d %s", cand.Index, subtitle.Label(cand)))
	}
	attrs := []logging.Attr{
		logging.String("subtitle_preference", prefs.Subtitle.String()),
		logging.String("played_audio", policy.AudioLanguage().String()),
		logging.Bool("hearing_impaired", prefs.HearingImpaired),
		logging.Int("candidates", len(decisions)),
		logging.Int("relevant", len(selection.Ranked)),
	}
	if !selection.HasChoice() {
		attrs = append(attrs, logging.DecisionAttrs("subtitle_select", "none", "no relevant candidate")...)
		logger.Info("no subtitle selected", logging.Args(attrs...)...)
		return
	}
	reason := ""
	for _, decision := range decisions {
		if decision.Candidate.Index == selection.ChosenIndex {
			reason = decision.Reason.String()
			break
		}
	}
	attrs = append(attrs, logging.DecisionAttrsWithOptions("subtitle_select", "chosen", reason, strings.Join(options, "; "))...)
	attrs = append(attrs,
		logging.Int("stream_index", selection.ChosenIndex),
		logging.String("subtitle", selection.ChosenLabel()),
	)
	logger.Info("subtitle selected", logging.Args(attrs...)...)
}

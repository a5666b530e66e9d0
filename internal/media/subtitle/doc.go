// Package subtitle decides which subtitle streams of a media item are worth
// offering and which one should be selected automatically.
//
// The decision is made by a Policy built from a Preferences snapshot and the
// Playback context. Relevant filters candidates; Compare ranks the survivors.
// Both are pure functions of their inputs, so a Policy is safe to share across
// goroutines and to feed to any sort routine.
//
// Relevance rules, first match wins:
//  1. The active stream is always relevant.
//  2. The "none" preference rejects everything else.
//  3. External subtitles without a declared language are always relevant.
//  4. Closed captions without a declared language are relevant when the
//     hearing-impaired preference is on.
//  5. Hearing-impaired tracks flagged as original-language are relevant when
//     the hearing-impaired preference is on.
//  6. "original" admits tracks flagged as original-language.
//  7. "forced_only" admits tracks flagged both forced and original-language.
//  8. An explicit language alone never admits a track.
//
// Ranking order: active stream, preference match, hearing-impaired affinity,
// external source, then ascending stream index.
//
// Key types:
//   - Preferences, Playback, Candidate: immutable inputs
//   - Policy: relevance predicate and comparator
//   - Selection: ranked outcome of Select
//
// Candidates are usually built with FromProbe and FromSidecars.
package subtitle

// Package logging assembles structured slog loggers and formatting helpers used
// across subpick.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so selection code can tag log
// lines with the pass ID and media path. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging

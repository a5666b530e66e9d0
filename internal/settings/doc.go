// Package settings holds the process-wide subtitle preferences.
//
// The Store is loaded once from configuration and hands out value snapshots.
// Selection passes take a Snapshot once, layer their overrides on the copy
// and build a subtitle.Policy from that value.
package settings

// Package watch re-runs a selection pass when a media file or one of its
// subtitle sidecars changes on disk.
//
// Events are debounced so that a burst (an editor saving through a temp
// file, a download landing in chunks) triggers a single pass.
package watch

// Package selector runs one subtitle selection pass for a media file.
//
// A pass probes the file with ffprobe, discovers sidecar subtitle files,
// snapshots the preference store, derives the audio stream a player would
// start with, and then filters and ranks every subtitle candidate through a
// subtitle.Policy. Each pass carries its own pass ID so log lines from
// concurrent passes can be told apart.
package selector

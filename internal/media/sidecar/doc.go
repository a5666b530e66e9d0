// Package sidecar discovers external subtitle files stored next to a media
// file, such as "Movie.en.forced.srt" or "Movie.sdh.sup".
//
// Name tokens between the media basename and the extension provide the
// declared language and the forced / hearing-impaired / original markers.
// Text formats and bitmap formats are reported separately because players
// treat them as different stream sources.
package sidecar

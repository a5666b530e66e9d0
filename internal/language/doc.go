// Package language normalizes the language tags attached to media streams.
//
// Tags are treated as opaque tokens: the only interpretation applied when
// comparing streams is folding case, trimming whitespace, and collapsing the
// empty string and the ISO 639-2 "und" code into the Unknown sentinel.
// Display names for CLI output are resolved through golang.org/x/text and
// never influence selection decisions.
package language

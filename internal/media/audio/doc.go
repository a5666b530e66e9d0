// Package audio predicts which audio stream a player will start with.
//
// The selection filters to tracks in the preferred language (falling back to
// every track when none match), then ranks candidates by:
//  1. Default disposition
//  2. Original-language disposition
//  3. Channel count (8ch > 6ch > 4ch > 2ch)
//  4. Lossless codecs over lossy (TrueHD, DTS-HD MA, FLAC, PCM)
//
// The chosen stream's language becomes the played audio language handed to
// subtitle selection.
//
// Primary entry point:
//   - Select: ranks audio streams and returns the primary one
package audio

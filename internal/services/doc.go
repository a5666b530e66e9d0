// Package services defines shared utilities consumed by the selection
// pipeline and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp selection pass IDs and media paths for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent CLI exit codes.
package services

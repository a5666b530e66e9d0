// Package probecache stores ffprobe output in SQLite so repeated selection
// passes over an unchanged file skip the external probe.
//
// Entries are keyed by absolute path and validated against the file size and
// modification time on every lookup; a changed file is a miss. Prune removes
// entries whose files changed or vanished and is serialized across processes
// with a lock file next to the database.
package probecache
